package controller

import (
	"lawro-be/internal/dto"
	"lawro-be/internal/pkg/serverutils"
	"lawro-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router)
	AnalyzeText(ctx *fiber.Ctx) error
	CheckViolations(ctx *fiber.Ctx) error
	FullAnalysis(ctx *fiber.Ctx) error
	LLMJudgment(ctx *fiber.Ctx) error
	RAGSearch(ctx *fiber.Ctx) error
}

type analysisController struct {
	analysisService service.IAnalysisService
}

func NewAnalysisController(analysisService service.IAnalysisService) IAnalysisController {
	return &analysisController{analysisService: analysisService}
}

func (c *analysisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analysis/v1")
	h.Post("text-analysis", c.AnalyzeText)
	h.Post("violations", c.CheckViolations)
	h.Post("full-analysis", c.FullAnalysis)
	h.Post("llm-judgment", c.LLMJudgment)
	h.Post("rag-search", c.RAGSearch)
}

// parseBody decodes and validates a JSON request body.
func parseBody[T any](ctx *fiber.Ctx) (*T, error) {
	var req T
	if err := ctx.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *analysisController) AnalyzeText(ctx *fiber.Ctx) error {
	req, err := parseBody[dto.TextAnalysisRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.analysisService.AnalyzeText(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze required fields", res))
}

func (c *analysisController) CheckViolations(ctx *fiber.Ctx) error {
	req, err := parseBody[dto.TextAnalysisRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.analysisService.CheckViolations(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check violations", res))
}

func (c *analysisController) FullAnalysis(ctx *fiber.Ctx) error {
	req, err := parseBody[dto.FullAnalysisRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.analysisService.FullAnalysis(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze contract", res))
}

func (c *analysisController) LLMJudgment(ctx *fiber.Ctx) error {
	req, err := parseBody[dto.LLMJudgmentRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.analysisService.LLMJudgment(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get llm judgment", res))
}

func (c *analysisController) RAGSearch(ctx *fiber.Ctx) error {
	req, err := parseBody[dto.RAGSearchRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.analysisService.RAGSearch(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search legal documents", res))
}
