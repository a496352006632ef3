package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// ItemHandler catálogo de ítems, recetas y entradas de stock.
type ItemHandler struct {
	uc *inventory.CatalogUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.CatalogUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ítem
// @Description  El código (RM001, PM001, SF001, FP001) se genera según el tipo.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.uc.CreateItem(c.Context(), inventory.CreateItemInput{
		Kind:               entity.ItemKind(in.Kind),
		Name:               in.Name,
		Unit:               in.Unit,
		MinStock:           in.MinStock,
		UnitCost:           in.UnitCost,
		ReferenceBatchSize: in.ReferenceBatchSize,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ItemFromEntity(item))
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  false  "Tipos separados por coma (raw_material,packaging_material,semi_finished,finished)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	kinds, err := kindsFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	page := pageFrom(c)
	list, err := h.uc.ListItems(c.Context(), kinds, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ItemListResponse{Items: make([]dto.ItemResponse, 0, len(list)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, it := range list {
		out.Items = append(out.Items, dto.ItemFromEntity(it))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem con reserva y disponibilidad real
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	view, err := h.uc.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemViewFromUseCase(view))
}

// GetRecipe godoc
// @Summary      Receta del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}   dto.BOMLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/recipe [get]
func (h *ItemHandler) GetRecipe(c *fiber.Ctx) error {
	lines, err := h.uc.GetRecipe(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BOMLinesFromEntity(lines))
}

// SetRecipe godoc
// @Summary      Reemplazar receta
// @Description  Semielaborado: solo materias primas. Terminado: un semielaborado base y empaques.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del ítem"
// @Param        body  body  dto.SetRecipeRequest  true  "Líneas de la receta"
// @Success      200   {array}   dto.BOMLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/recipe [put]
func (h *ItemHandler) SetRecipe(c *fiber.Ctx) error {
	var in dto.SetRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]inventory.RecipeLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.RecipeLineInput{ComponentID: l.ComponentID, QuantityPerReferenceUnit: l.QuantityPerReferenceUnit})
	}
	saved, err := h.uc.SetRecipe(c.Context(), c.Params("id"), lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BOMLinesFromEntity(saved))
}

// UsedIn godoc
// @Summary      Recetas que consumen el ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}   dto.BOMLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/used-in [get]
func (h *ItemHandler) UsedIn(c *fiber.Ctx) error {
	lines, err := h.uc.UsedIn(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BOMLinesFromEntity(lines))
}

// Receive godoc
// @Summary      Entrada de stock
// @Description  Registra un movimiento "in" y recalcula el costo promedio ponderado.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del ítem"
// @Param        body  body  dto.ReceiptRequest  true  "Cantidad y costo unitario"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/receipts [post]
func (h *ItemHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.uc.Receive(c.Context(), c.Params("id"), inventory.ReceiptInput{
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
		Reference: in.Reference,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// Movements godoc
// @Summary      Libro de movimientos del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}   dto.MovementResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements [get]
func (h *ItemHandler) Movements(c *fiber.Ctx) error {
	from, err := timeQuery(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	page := pageFrom(c)
	list, err := h.uc.ItemMovements(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementsFromEntity(list))
}
