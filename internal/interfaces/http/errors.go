package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/tu-usuario/retail-api/internal/application/dto"
	"github.com/tu-usuario/retail-api/internal/domain"
)

// kindStatus tabla explícita Kind -> status HTTP. El mapeo nunca inspecciona
// el texto del mensaje.
var kindStatus = map[domain.Kind]int{
	domain.KindInvalidInput:      fiber.StatusBadRequest,
	domain.KindNotFound:          fiber.StatusNotFound,
	domain.KindInsufficientStock: fiber.StatusConflict,
	domain.KindConflict:          fiber.StatusConflict,
	domain.KindUnauthorized:      fiber.StatusUnauthorized,
	domain.KindForbidden:         fiber.StatusForbidden,
	domain.KindInternal:          fiber.StatusInternalServerError,
}

// respondError traduce un error de dominio a la respuesta JSON de fallo.
// Los errores internos se registran con la causa completa pero al cliente
// solo se le devuelve un mensaje genérico.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Error: "error interno del servidor"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
}
