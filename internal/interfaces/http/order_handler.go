package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// OrderHandler órdenes de producción y empaque.
type OrderHandler struct {
	uc *inventory.ConversionUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *inventory.ConversionUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de conversión
// @Description  production: materias primas -> semielaborado. packaging: semielaborado + empaques -> terminado.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Tipo y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	var date time.Time
	if in.Date != nil {
		date = *in.Date
	}
	order, err := h.uc.Create(c.Context(), inventory.CreateOrderInput{
		Type:   entity.OrderType(in.Type),
		Date:   date,
		Notes:  in.Notes,
		Lines:  dto.LinesToInput(in.Lines),
		UserID: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderFromEntity(order))
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "production | packaging"
// @Param        status  query  string  false  "Estados separados por coma"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	filter := repository.OrderFilter{Limit: page.Limit, Offset: page.Offset}
	if t := c.Query("type"); t != "" {
		filter.Type = entity.OrderType(t)
		if !filter.Type.Valid() {
			return writeError(c, domain.Invalid("order", "", "tipo de orden desconocido: "+t))
		}
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, entity.OrderStatus(strings.TrimSpace(s)))
		}
	}
	list, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(list)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, o := range list {
		out.Orders = append(out.Orders, dto.OrderFromEntity(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OrderFromEntity(order))
}

// Start godoc
// @Summary      Iniciar orden (pending -> in_progress)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/start [post]
func (h *OrderHandler) Start(c *fiber.Ctx) error {
	order, err := h.uc.Start(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OrderFromEntity(order))
}

// Complete godoc
// @Summary      Completar orden (aplica el efecto de stock)
// @Description  Con faltantes y sin allow_negative no se aplica nada: responde 200 con applied=false y los déficits.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID de la orden"
// @Param        body  body  dto.CompleteOrderRequest  false  "allow_negative = proceder de todas formas"
// @Success      200   {object}  dto.CompletionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.uc.Complete(c.Context(), c.Params("id"), inventory.CompleteOptions{
		AllowNegative: in.AllowNegative,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CompletionFromUseCase(res))
}

// Cancel godoc
// @Summary      Cancelar orden
// @Description  Si la orden estaba completada escribe los movimientos inversos exactos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OrderFromEntity(order))
}

// Movements godoc
// @Summary      Movimientos de la orden (auditoría)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/movements [get]
func (h *OrderHandler) Movements(c *fiber.Ctx) error {
	list, err := h.uc.Movements(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementsFromEntity(list))
}
