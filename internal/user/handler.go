package user

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/validation"
)

type Handler struct {
	service *Service
	tokens  *TokenIssuer
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code" validate:"omitempty,len=6,numeric"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

type otpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type otpVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
	Code  string `json:"code" validate:"omitempty,len=6,numeric"`
}

type twoFactorRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

func NewHandler(service *Service, tokens *TokenIssuer) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-up", h.register)
	app.Post("/api/v1/otp/request", h.requestOTP)
	app.Post("/api/v1/otp/verify", h.verifyOTP)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
	// PUT and PATCH both accept partial payloads
	app.Put("/api/v1/profile", h.updateProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
	app.Post("/api/v1/2fa/setup", h.setupTwoFactor)
	app.Post("/api/v1/2fa/enable", h.enableTwoFactor)
	app.Post("/api/v1/2fa/disable", h.disableTwoFactor)
}

// RegisterAdminRoutes mounts user management behind guard.
func (h *Handler) RegisterAdminRoutes(app *fiber.App, guard fiber.Handler) {
	app.Get("/api/v1/users", guard, h.getUsers)
	app.Get("/api/v1/users/:id<int>", guard, h.getUser)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	user, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password, payload.Code)
	if err != nil {
		return h.respondAuthError(c, err)
	}
	return h.respondWithToken(c, user)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	created, err := h.service.Register(c.UserContext(), User{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sanitizeUser(created))
}

func (h *Handler) requestOTP(c *fiber.Ctx) error {
	payload := new(otpRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	if err := h.service.RequestOTP(c.UserContext(), payload.Email); err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "if the account exists a code has been sent"})
}

func (h *Handler) verifyOTP(c *fiber.Ctx) error {
	payload := new(otpVerifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	user, err := h.service.LoginWithOTP(c.UserContext(), payload.Email, payload.OTP, payload.Code)
	if err != nil {
		return h.respondAuthError(c, err)
	}
	return h.respondWithToken(c, user)
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	response := make([]User, 0, len(users))
	for _, user := range users {
		response = append(response, sanitizeUser(user))
	}
	return c.JSON(response)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}

	user, err := h.service.GetByID(c.UserContext(), userID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(sanitizeUser(user))
}

// getProfile returns the user record for the currently authenticated user.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	user, err := h.service.GetByID(c.UserContext(), userID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(sanitizeUser(user))
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	var payload ProfileUpdate
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	updated, err := h.service.UpdateProfile(c.UserContext(), userID, payload)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"user": sanitizeUser(updated)})
}

func (h *Handler) setupTwoFactor(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	secret, url, err := h.service.SetupTwoFactor(c.UserContext(), userID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"secret": secret, "url": url})
}

func (h *Handler) enableTwoFactor(c *fiber.Ctx) error {
	return h.toggleTwoFactor(c, h.service.EnableTwoFactor)
}

func (h *Handler) disableTwoFactor(c *fiber.Ctx) error {
	return h.toggleTwoFactor(c, h.service.DisableTwoFactor)
}

func (h *Handler) toggleTwoFactor(c *fiber.Ctx, apply func(ctx context.Context, id int, code string) (User, error)) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(twoFactorRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	updated, err := apply(c.UserContext(), userID, payload.Code)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"user": sanitizeUser(updated)})
}

func (h *Handler) respondWithToken(c *fiber.Ctx, user User) error {
	signed, err := h.tokens.Issue(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    sanitizeUser(user),
		"token":   signed,
	})
}

func (h *Handler) respondAuthError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrTwoFactorRequired) || errors.Is(err, ErrInvalidTwoFactorCode) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":           err.Error(),
			"twoFactorRequired": true,
		})
	}
	return apperror.Respond(c, err)
}
