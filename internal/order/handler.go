package order

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
	"github.com/wichananm65/eco-shop-backend/internal/user"
	"github.com/wichananm65/eco-shop-backend/internal/validation"
)

// Handler delegates order and checkout operations to the order service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.placeOrder)
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/:id<int>", h.getOrder)
	app.Post("/api/v1/orders/:id<int>/payment", h.createPayment)
	app.Post("/api/v1/orders/:id<int>/payment/verify", h.verifyPayment)
}

type placeOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"max=500"`
}

type verifyRequest struct {
	GatewayPaymentID string `json:"gatewayPaymentId" validate:"required,max=100"`
	Signature        string `json:"signature" validate:"required,max=256"`
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(placeOrderRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	created, err := h.service.Place(c.UserContext(), userID, payload.ShippingAddress)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	ord, err := h.service.Get(c.UserContext(), userID, id)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(ord)
}

func (h *Handler) createPayment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	intent, err := h.service.CreatePayment(c.UserContext(), userID, id)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(intent)
}

func (h *Handler) verifyPayment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	payload := new(verifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validation.Struct(payload); err != nil {
		return apperror.Respond(c, err)
	}

	ord, err := h.service.VerifyPayment(c.UserContext(), userID, id, payload.GatewayPaymentID, payload.Signature)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "payment verified", "order": ord})
}
