package serverutils

import (
	"errors"

	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/tarot"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors surfaced by handlers onto HTTP
// statuses. Handlers return errors; they never write error bodies themselves.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse("Invalid request", validationErr.Fields...))
		}

		var unknownSpread *tarot.UnknownSpreadError
		if errors.As(err, &unknownSpread) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(unknownSpread.Error()))
		}

		var insufficient *tarot.InsufficientCardsError
		if errors.As(err, &insufficient) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(insufficient.Error()))
		}

		var unknownCard *knowledge.UnknownCardError
		if errors.As(err, &unknownCard) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(unknownCard.Error()))
		}

		var integrity *tarot.DataIntegrityError
		if errors.As(err, &integrity) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Card corpus is corrupted"))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
