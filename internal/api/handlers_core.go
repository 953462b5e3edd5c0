package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
