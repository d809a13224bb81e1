package controller

import (
	"argovers-soil-be/internal/pkg/serverutils"
	"argovers-soil-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type reportController struct {
	reportService service.IReportService
}

func NewReportController(reportService service.IReportService) IReportController {
	return &reportController{
		reportService: reportService,
	}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Post("generate/:session_id", c.Generate)
	h.Get("status/:session_id", c.Status)
}

func (c *reportController) Generate(ctx *fiber.Ctx) error {
	res, err := c.reportService.Generate(ctx.Context(), ctx.Params("session_id"))
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Report generation queued", res))
}

func (c *reportController) Status(ctx *fiber.Ctx) error {
	res, err := c.reportService.GetStatus(ctx.Params("session_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show report status", res))
}
