package controller

import (
	"strconv"

	"ai-tarot-be/internal/dto"
	"ai-tarot-be/internal/pkg/serverutils"
	"ai-tarot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReadingController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Spreads(ctx *fiber.Ctx) error
}

type readingController struct {
	readingService service.IReadingService
}

func NewReadingController(readingService service.IReadingService) IReadingController {
	return &readingController{
		readingService: readingService,
	}
}

func (c *readingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reading/v1")
	h.Get("spreads", c.Spreads)
	h.Get("history", c.History)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
}

func (c *readingController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateReadingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.readingService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create reading", res))
}

func (c *readingController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid reading id")
	}

	res, err := c.readingService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show reading", res))
}

func (c *readingController) History(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	res, err := c.readingService.History(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list readings", res))
}

func (c *readingController) Spreads(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list spreads", c.readingService.Spreads()))
}
