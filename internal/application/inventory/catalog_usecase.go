package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// CatalogUseCase administra ítems y recetas. El stock inicial no se crea aquí:
// todo cambio de OnHand pasa por el libro de movimientos.
type CatalogUseCase struct {
	txRunner     TxRunner
	repos        repository.Tx
	reservations *ReservationUseCase
	log          *logger.Logger
	codeWidth    int
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(txRunner TxRunner, repos repository.Tx, reservations *ReservationUseCase, log *logger.Logger, codeWidth int) *CatalogUseCase {
	return &CatalogUseCase{
		txRunner:     txRunner,
		repos:        repos,
		reservations: reservations,
		log:          log,
		codeWidth:    codeWidth,
	}
}

// CreateItemInput entrada para crear un ítem.
type CreateItemInput struct {
	Kind               entity.ItemKind
	Name               string
	Unit               string
	MinStock           decimal.Decimal
	UnitCost           decimal.Decimal
	ReferenceBatchSize decimal.Decimal
}

// ItemView ítem con su reserva y disponibilidad real.
type ItemView struct {
	Item          *entity.Item
	Reserved      decimal.Decimal
	TrueAvailable decimal.Decimal
}

// RecipeLineInput una línea de receta.
type RecipeLineInput struct {
	ComponentID              string
	QuantityPerReferenceUnit decimal.Decimal
}

// CreateItem valida y crea un ítem con código generado (RM001, PM001, SF001, FP001).
func (uc *CatalogUseCase) CreateItem(ctx context.Context, in CreateItemInput) (*entity.Item, error) {
	if !in.Kind.Valid() {
		return nil, domain.Invalid("item", "", "tipo de ítem desconocido: "+string(in.Kind))
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("item", "", "el nombre es obligatorio")
	}
	if in.MinStock.LessThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.Invalid("item", "", "min_stock y unit_cost no pueden ser negativos")
	}
	batch := decimal.Zero
	if in.Kind == entity.KindSemiFinished {
		if !in.ReferenceBatchSize.GreaterThan(decimal.Zero) {
			return nil, domain.Invalid("item", "", "reference_batch_size debe ser mayor que cero")
		}
		batch = in.ReferenceBatchSize
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:                 uuid.New().String(),
		Kind:               in.Kind,
		Name:               name,
		Unit:               in.Unit,
		OnHand:             decimal.Zero,
		MinStock:           in.MinStock,
		UnitCost:           in.UnitCost,
		ReferenceBatchSize: batch,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		prefix := in.Kind.CodePrefix()
		seq, err := tx.Sequences.Next(ctx, domaininv.SequenceKey(prefix))
		if err != nil {
			return domain.Persistence("next item code", err)
		}
		item.Code = domaininv.FormatCode(prefix, seq, uc.codeWidth)
		if err := tx.Items.Create(ctx, item); err != nil {
			return domain.Persistence("create item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item", item.Code).Str("kind", string(item.Kind)).Msg("ítem creado")
	return item, nil
}

// GetItem devuelve el ítem con lo reservado por órdenes abiertas y su disponibilidad real.
func (uc *CatalogUseCase) GetItem(ctx context.Context, id string) (*ItemView, error) {
	item, err := uc.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	reserved, err := uc.reservations.Reserved(ctx)
	if err != nil {
		return nil, err
	}
	r := reserved.Of(item.Key())
	return &ItemView{Item: item, Reserved: r, TrueAvailable: domaininv.TrueAvailable(item.OnHand, r, decimal.Zero)}, nil
}

// ListItems lista ítems de los tipos indicados (todos si kinds está vacío).
func (uc *CatalogUseCase) ListItems(ctx context.Context, kinds []entity.ItemKind, limit, offset int) ([]*entity.Item, error) {
	for _, k := range kinds {
		if !k.Valid() {
			return nil, domain.Invalid("item", "", "tipo de ítem desconocido: "+string(k))
		}
	}
	if len(kinds) == 0 {
		kinds = entity.AllItemKinds
	}
	list, err := uc.repos.Items.ListByKinds(ctx, kinds, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list items", err)
	}
	return list, nil
}

// GetRecipe devuelve la receta del ítem (vacía si no tiene).
func (uc *CatalogUseCase) GetRecipe(ctx context.Context, itemID string) ([]entity.BOMLine, error) {
	if _, err := uc.getItem(ctx, itemID); err != nil {
		return nil, err
	}
	lines, err := uc.repos.BOM.ListByOwner(ctx, itemID)
	if err != nil {
		return nil, domain.Persistence("list bom", err)
	}
	return lines, nil
}

// SetRecipe reemplaza la receta completa del ítem. Invalida la foto de reservas.
// Las órdenes ya aplicadas no se ven afectadas: revierten con su consumo guardado.
func (uc *CatalogUseCase) SetRecipe(ctx context.Context, itemID string, in []RecipeLineInput) ([]entity.BOMLine, error) {
	var saved []entity.BOMLine
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		owner, err := tx.Items.GetByID(ctx, itemID)
		if err != nil {
			return domain.Persistence("get item", err)
		}
		if owner == nil {
			return domain.NotFound("item", itemID)
		}
		lines := make([]entity.BOMLine, 0, len(in))
		for i, l := range in {
			comp, err := tx.Items.GetByID(ctx, l.ComponentID)
			if err != nil {
				return domain.Persistence("get component", err)
			}
			if comp == nil {
				return &domain.Error{Kind: domain.ErrNotFound, Entity: "bom_line", ID: l.ComponentID, Line: i + 1, Message: "componente inexistente"}
			}
			lines = append(lines, entity.BOMLine{
				ID:                       uuid.New().String(),
				ComponentID:              comp.ID,
				ComponentKind:            comp.Kind,
				QuantityPerReferenceUnit: l.QuantityPerReferenceUnit,
			})
		}
		recipe, err := domaininv.NewRecipe(owner, lines)
		if err != nil {
			return err
		}
		if err := tx.BOM.ReplaceForOwner(ctx, owner.ID, recipe.Lines); err != nil {
			return domain.Persistence("replace bom", err)
		}
		saved = recipe.Lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.reservations.Invalidate(ctx)
	uc.log.Info().Str("item", itemID).Int("lines", len(saved)).Msg("receta actualizada")
	return saved, nil
}

// ReceiptInput entrada de stock por compra o recepción.
type ReceiptInput struct {
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Reason    string
	Reference string
	UserID    string
}

// Receive registra una entrada (in) y actualiza el costo promedio ponderado del ítem.
func (uc *CatalogUseCase) Receive(ctx context.Context, itemID string, in ReceiptInput) (*entity.Movement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("receipt", itemID, "la cantidad debe ser mayor que cero")
	}
	if in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.Invalid("receipt", itemID, "unit_cost no puede ser negativo")
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		item, err := tx.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return domain.Persistence("lock item", err)
		}
		if item == nil {
			return domain.NotFound("item", itemID)
		}
		item.UnitCost = domaininv.WeightedAverageCost(item.OnHand, item.UnitCost, in.Quantity, in.UnitCost)
		reason := in.Reason
		if reason == "" {
			reason = "recepción"
		}
		mov, err = post(ctx, tx, item, posting{
			Direction:     entity.DirectionIn,
			Quantity:      in.Quantity,
			UnitCost:      in.UnitCost,
			Reason:        reason,
			ReferenceType: entity.ReferenceReceipt,
			ReferenceID:   in.Reference,
			CreatedBy:     in.UserID,
			At:            time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// UsedIn devuelve las líneas de receta que consumen el ítem.
func (uc *CatalogUseCase) UsedIn(ctx context.Context, itemID string) ([]entity.BOMLine, error) {
	if _, err := uc.getItem(ctx, itemID); err != nil {
		return nil, err
	}
	lines, err := uc.repos.BOM.ListByComponent(ctx, itemID)
	if err != nil {
		return nil, domain.Persistence("list used in", err)
	}
	return lines, nil
}

// ItemMovements libro de movimientos del ítem en un rango de fechas.
func (uc *CatalogUseCase) ItemMovements(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if _, err := uc.getItem(ctx, itemID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Movements.List(ctx, repository.MovementFilter{
		ItemID: itemID, From: from, To: to, Limit: limit, Offset: offset,
	})
	if err != nil {
		return nil, domain.Persistence("list item movements", err)
	}
	return list, nil
}

func (uc *CatalogUseCase) getItem(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get item", err)
	}
	if item == nil {
		return nil, domain.NotFound("item", id)
	}
	return item, nil
}
