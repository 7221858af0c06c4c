package feedback

import (
	"strconv"

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

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products/:id<int>/feedback", h.getFeedback)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/products/:id<int>/feedback", h.submitFeedback)
}

type submitRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (h *Handler) getFeedback(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	summary, err := h.service.ForProduct(c.UserContext(), productID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(summary)
}

func (h *Handler) submitFeedback(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	payload := new(submitRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	fb, err := h.service.Submit(c.UserContext(), userID, productID, payload.Rating, payload.Comment)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fb)
}
