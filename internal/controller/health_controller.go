package controller

import (
	"lawro-be/internal/dto"
	"lawro-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

const AppVersion = "1.0.0"

// ServiceProbe reports the status of one optional backend, e.g. "connected" or "disabled".
type ServiceProbe func() string

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	probes map[string]ServiceProbe
}

func NewHealthController(probes map[string]ServiceProbe) IHealthController {
	return &healthController{probes: probes}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	services := make(map[string]string, len(c.probes))
	for name, probe := range c.probes {
		services[name] = probe()
	}

	return ctx.JSON(serverutils.SuccessResponse("Service is healthy", &dto.HealthResponse{
		Status:   "healthy",
		Version:  AppVersion,
		Services: services,
	}))
}
