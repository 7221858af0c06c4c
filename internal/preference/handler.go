package preference

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/user"
	"github.com/wichananm65/eco-shop-backend/internal/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/preferences", h.getPreferences)
	app.Put("/api/v1/preferences", h.setPreference)
}

type setRequest struct {
	ProductID  int    `json:"productId" validate:"required,gt=0"`
	Preference string `json:"preference" validate:"required"`
}

func (h *Handler) getPreferences(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	view, err := h.service.Get(c.UserContext(), userID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) setPreference(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(setRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}
	v, err := ParseValue(payload.Preference)
	if err != nil {
		return apperror.Respond(c, err)
	}

	view, err := h.service.Set(c.UserContext(), userID, payload.ProductID, v)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(view)
}
