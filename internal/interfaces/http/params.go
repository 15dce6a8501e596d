package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
)

func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, fmt.Errorf("paginación: %w", domain.ErrInvalidInput)
	}
	if err := dto.Validate(page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}

// parseDateQuery acepta RFC3339 o fecha simple (2006-01-02). Vacío devuelve nil.
func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: fecha %q: %w", key, raw, domain.ErrInvalidInput)
}
