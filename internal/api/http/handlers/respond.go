package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/pagination"
)

// respondOK writes the standard success envelope.
func respondOK(c *fiber.Ctx, message string, data any) error {
	return c.JSON(fiber.Map{"message": message, "data": data})
}

// respondCreated writes the standard success envelope with a 201 status.
func respondCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message, "data": data})
}

// respondPage writes a page envelope with the pagination block.
func respondPage(c *fiber.Ctx, message string, data any, meta pagination.Meta) error {
	return c.JSON(fiber.Map{"message": message, "data": data, "pagination": meta})
}
