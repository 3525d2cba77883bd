package controller

import (
	"net/url"

	"ai-tarot-be/internal/pkg/serverutils"
	"ai-tarot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICardController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type cardController struct {
	cardService service.ICardService
}

func NewCardController(cardService service.ICardService) ICardController {
	return &cardController{
		cardService: cardService,
	}
}

func (c *cardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/card/v1")
	h.Get("", c.List)
	h.Get(":name", c.Show)
}

func (c *cardController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list cards", c.cardService.List(ctx.Context())))
}

func (c *cardController) Show(ctx *fiber.Ctx) error {
	name, err := url.PathUnescape(ctx.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid card name")
	}

	res, err := c.cardService.Show(ctx.Context(), name)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show card", res))
}
