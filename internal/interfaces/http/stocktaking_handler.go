package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
)

// StocktakingHandler tomas físicas de inventario.
type StocktakingHandler struct {
	uc *inventory.StocktakingUseCase
}

// NewStocktakingHandler construye el handler.
func NewStocktakingHandler(uc *inventory.StocktakingUseCase) *StocktakingHandler {
	return &StocktakingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear toma física
// @Description  Con start=true toma la foto del stock de inmediato (queda in_progress).
// @Tags         stocktaking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStocktakingRequest  true  "Alcance"
// @Success      201   {object}  dto.StocktakingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stocktaking [post]
func (h *StocktakingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStocktakingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := inventory.CreateSessionInput{Scope: in.Scope.ToEntity(), Notes: in.Notes, UserID: GetUserID(c)}
	create := h.uc.Create
	if in.Start {
		create = h.uc.StartNew
	}
	s, err := create(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StocktakingFromEntity(s))
}

// List godoc
// @Summary      Listar tomas físicas
// @Tags         stocktaking
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.StocktakingResponse
// @Router       /api/stocktaking [get]
func (h *StocktakingHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StocktakingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StocktakingFromEntity(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener toma física
// @Tags         stocktaking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.StocktakingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id} [get]
func (h *StocktakingHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StocktakingFromEntity(s))
}

// Start godoc
// @Summary      Iniciar toma física (foto del stock)
// @Tags         stocktaking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.StocktakingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/start [post]
func (h *StocktakingHandler) Start(c *fiber.Ctx) error {
	s, err := h.uc.Start(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StocktakingFromEntity(s))
}

// Count godoc
// @Summary      Registrar conteos
// @Tags         stocktaking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la sesión"
// @Param        body  body  dto.CountRequest  true  "Cantidades contadas"
// @Success      200   {object}  dto.StocktakingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/counts [put]
func (h *StocktakingHandler) Count(c *fiber.Ctx) error {
	var in dto.CountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.uc.Count(c.Context(), c.Params("id"), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StocktakingFromEntity(s))
}

// Reconcile godoc
// @Summary      Conciliar toma física
// @Description  Escribe un ajuste por cada diferencia y deja el stock igual a lo contado. No se puede repetir.
// @Tags         stocktaking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/reconcile [post]
func (h *StocktakingHandler) Reconcile(c *fiber.Ctx) error {
	res, err := h.uc.Reconcile(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{
		Session:     dto.StocktakingFromEntity(res.Session),
		Adjustments: dto.MovementsFromEntity(res.Adjustments),
	})
}

// Cancel godoc
// @Summary      Cancelar toma física
// @Tags         stocktaking
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.StocktakingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/cancel [post]
func (h *StocktakingHandler) Cancel(c *fiber.Ctx) error {
	s, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StocktakingFromEntity(s))
}
