package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// AnalysisHandler consultas de solo lectura: faltantes, disponibilidad, reservas y reposición.
type AnalysisHandler struct {
	shortage      *inventory.ShortageUseCase
	reservations  *inventory.ReservationUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewAnalysisHandler construye el handler.
func NewAnalysisHandler(shortage *inventory.ShortageUseCase, reservations *inventory.ReservationUseCase, replenishment *inventory.ReplenishmentUseCase) *AnalysisHandler {
	return &AnalysisHandler{shortage: shortage, reservations: reservations, replenishment: replenishment}
}

// Analyze godoc
// @Summary      Análisis de faltantes de una orden candidata
// @Description  No guarda nada. En empaque cada semielaborado faltante trae una producción sugerida.
// @Tags         analysis
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnalyzeRequest  true  "Tipo y líneas"
// @Success      200   {object}  dto.ShortageReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/analyze [post]
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var in dto.AnalyzeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	report, err := h.shortage.Analyze(c.Context(), entity.OrderType(in.Type), dto.LinesToInput(in.Lines))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ShortageReportFromUseCase(report))
}

// Availability godoc
// @Summary      Disponibilidad real neta del borrador
// @Tags         analysis
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnalyzeRequest  true  "Tipo y líneas del borrador"
// @Success      200   {array}   dto.AvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/availability [post]
func (h *AnalysisHandler) Availability(c *fiber.Ctx) error {
	var in dto.AnalyzeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines, err := h.shortage.Availability(c.Context(), entity.OrderType(in.Type), dto.LinesToInput(in.Lines))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailabilityFromUseCase(lines))
}

// Reservations godoc
// @Summary      Reservas de las órdenes abiertas
// @Tags         analysis
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReservationsResponse
// @Router       /api/reservations [get]
func (h *AnalysisHandler) Reservations(c *fiber.Ctx) error {
	snap, err := h.reservations.Snapshot(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReservationsFromSnapshot(snap))
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Ítems cuya disponibilidad real está bajo el mínimo, el más crítico primero.
// @Tags         analysis
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  false  "Tipos separados por coma"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/replenishment [get]
func (h *AnalysisHandler) Replenishment(c *fiber.Ctx) error {
	kinds, err := kindsFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), kinds)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": dto.ReplenishmentFromUseCase(list),
	})
}
