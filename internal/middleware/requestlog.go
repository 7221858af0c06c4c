package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/eco-shop-backend/internal/logger"
)

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)
		statusCode := c.Response().StatusCode()

		event := logger.Logger.Info()
		if statusCode >= 500 {
			event = logger.Logger.Error()
		} else if statusCode >= 400 {
			event = logger.Logger.Warn()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("ip", c.IP()).
			Str("request_id", c.Get("X-Request-Id")).
			Msg("request completed")

		if err != nil {
			logger.Logger.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request error")
		}
		return err
	}
}
