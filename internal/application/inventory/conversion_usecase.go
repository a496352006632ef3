package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// ConversionUseCase gestiona órdenes de producción y de empaque.
// Aplicar y revertir corren en una sola transacción (TxRunner.Run): todo o nada.
type ConversionUseCase struct {
	txRunner     TxRunner
	repos        repository.Tx // lecturas fuera de transacción
	reservations *ReservationUseCase
	log          *logger.Logger
	codeWidth    int
}

// NewConversionUseCase construye el caso de uso.
func NewConversionUseCase(txRunner TxRunner, repos repository.Tx, reservations *ReservationUseCase, log *logger.Logger, codeWidth int) *ConversionUseCase {
	return &ConversionUseCase{
		txRunner:     txRunner,
		repos:        repos,
		reservations: reservations,
		log:          log,
		codeWidth:    codeWidth,
	}
}

// OrderLineInput una salida pedida.
type OrderLineInput struct {
	OutputItemID string
	Quantity     decimal.Decimal
}

// CreateOrderInput entrada para crear una orden de conversión.
type CreateOrderInput struct {
	Type   entity.OrderType
	Date   time.Time
	Notes  string
	Lines  []OrderLineInput
	UserID string
}

// CompleteOptions opciones al aplicar una orden.
// AllowNegative = "continuar de todos modos": aplica aunque falte stock.
type CompleteOptions struct {
	AllowNegative bool
	UserID        string
}

// Deficit faltante de un componente al aplicar una orden.
type Deficit struct {
	Kind     entity.ItemKind
	ItemID   string
	Code     string
	Name     string
	Required decimal.Decimal
	OnHand   decimal.Decimal
	Shortage decimal.Decimal
}

// CompletionResult resultado de Complete. Si hay déficits y no se permitió negativo,
// Applied es false y la orden queda como estaba.
type CompletionResult struct {
	Order    *entity.ConversionOrder
	Deficits []Deficit
	Applied  bool
}

// Create valida y crea una orden en pending. El código (PRD001, PKG001) se genera en la misma transacción.
func (uc *ConversionUseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.ConversionOrder, error) {
	if !in.Type.Valid() {
		return nil, domain.Invalid("order", "", fmt.Sprintf("tipo de orden desconocido: %q", in.Type))
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("order", "", "la orden no tiene líneas")
	}
	for i, l := range in.Lines {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.InvalidLine("order_line", i+1, "la cantidad debe ser mayor que cero")
		}
	}

	now := time.Now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	order := &entity.ConversionOrder{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Date:      date,
		Status:    entity.OrderStatusPending,
		TotalCost: decimal.Zero,
		Notes:     in.Notes,
		CreatedBy: in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, l := range in.Lines {
		order.Lines = append(order.Lines, entity.ConversionOrderLine{
			ID:           uuid.New().String(),
			OutputItemID: l.OutputItemID,
			Quantity:     l.Quantity,
			UnitCost:     decimal.Zero,
			TotalCost:    decimal.Zero,
		})
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		outputs := make([]string, 0, len(in.Lines))
		for _, l := range in.Lines {
			outputs = append(outputs, l.OutputItemID)
		}
		recipes, err := loadRecipes(ctx, tx.Items, tx.BOM, outputs)
		if err != nil {
			return err
		}
		for i, l := range in.Lines {
			if err := requireOutput(ctx, tx.Items, recipes, l.OutputItemID, in.Type.OutputKind(), i+1); err != nil {
				return err
			}
		}
		seq, err := tx.Sequences.Next(ctx, domaininv.SequenceKey(in.Type.CodePrefix()))
		if err != nil {
			return domain.Persistence("next order code", err)
		}
		order.Code = domaininv.FormatCode(in.Type.CodePrefix(), seq, uc.codeWidth)
		if err := tx.Orders.Create(ctx, order); err != nil {
			return domain.Persistence("create order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.reservations.Invalidate(ctx)
	uc.log.Info().Str("order", order.Code).Str("type", string(order.Type)).Int("lines", len(order.Lines)).Msg("orden creada")
	return order, nil
}

// Get obtiene una orden con líneas y consumo.
func (uc *ConversionUseCase) Get(ctx context.Context, id string) (*entity.ConversionOrder, error) {
	order, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get order", err)
	}
	if order == nil {
		return nil, domain.NotFound("order", id)
	}
	return order, nil
}

// List lista órdenes con filtros.
func (uc *ConversionUseCase) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.ConversionOrder, error) {
	list, err := uc.repos.Orders.List(ctx, filter)
	if err != nil {
		return nil, domain.Persistence("list orders", err)
	}
	return list, nil
}

// Movements devuelve la traza de auditoría de la orden (referenceType = conversion_order).
func (uc *ConversionUseCase) Movements(ctx context.Context, id string) ([]*entity.Movement, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.repos.Movements.List(ctx, repository.MovementFilter{
		ReferenceType: entity.ReferenceConversionOrder,
		ReferenceID:   id,
	})
	if err != nil {
		return nil, domain.Persistence("list order movements", err)
	}
	return list, nil
}

// Start pending -> in_progress. Sin efecto de stock.
func (uc *ConversionUseCase) Start(ctx context.Context, id string) (*entity.ConversionOrder, error) {
	var order *entity.ConversionOrder
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		o, err := lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if o.Status != entity.OrderStatusPending {
			return domain.InvalidTransition("order", o.Code, string(o.Status), string(entity.OrderStatusInProgress))
		}
		o.Status = entity.OrderStatusInProgress
		o.UpdatedAt = time.Now().UTC()
		if err := tx.Orders.Update(ctx, o); err != nil {
			return domain.Persistence("update order", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.reservations.Invalidate(ctx)
	return order, nil
}

// Complete aplica la orden: una salida por componente requerido y una entrada por línea.
// Los faltantes no son error: se devuelven como datos y, sin AllowNegative, no se aplica nada.
func (uc *ConversionUseCase) Complete(ctx context.Context, id string, opts CompleteOptions) (*CompletionResult, error) {
	result := &CompletionResult{}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		o, err := lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if !o.CanTransition(entity.OrderStatusCompleted) {
			return domain.InvalidTransition("order", o.Code, string(o.Status), string(entity.OrderStatusCompleted))
		}
		result.Order = o

		consumption, err := uc.expandOrder(ctx, tx, o)
		if err != nil {
			return err
		}
		required := make(domaininv.Reservations)
		for _, c := range consumption {
			required.Add(entity.ItemKey{Kind: c.ComponentKind, ID: c.ComponentID}, c.Quantity)
		}
		keys := required.Keys()
		for _, l := range o.Lines {
			keys = append(keys, entity.ItemKey{Kind: o.Type.OutputKind(), ID: l.OutputItemID})
		}
		locked, err := lockItems(ctx, tx, keys)
		if err != nil {
			return err
		}

		result.Deficits = deficitsOf(required, locked)
		if len(result.Deficits) > 0 && !opts.AllowNegative {
			return nil
		}

		now := time.Now().UTC()
		base := posting{
			ReferenceType: entity.ReferenceConversionOrder,
			ReferenceID:   o.ID,
			CreatedBy:     opts.UserID,
			At:            now,
		}
		total := decimal.Zero
		for i := range o.Lines {
			line := &o.Lines[i]
			lineCost := decimal.Zero
			for _, c := range consumption {
				if c.LineID != line.ID {
					continue
				}
				comp := locked[entity.ItemKey{Kind: c.ComponentKind, ID: c.ComponentID}]
				p := base
				p.Direction = entity.DirectionOut
				p.Quantity = c.Quantity
				p.UnitCost = comp.UnitCost
				p.Reason = "consumo orden " + o.Code
				if _, err := post(ctx, tx, comp, p); err != nil {
					return err
				}
				lineCost = lineCost.Add(c.Quantity.Mul(comp.UnitCost))
			}

			out := locked[entity.ItemKey{Kind: o.Type.OutputKind(), ID: line.OutputItemID}]
			unitCost := domaininv.UnitCostOf(lineCost, line.Quantity)
			out.UnitCost = domaininv.WeightedAverageCost(out.OnHand, out.UnitCost, line.Quantity, unitCost)
			p := base
			p.Direction = entity.DirectionIn
			p.Quantity = line.Quantity
			p.UnitCost = unitCost
			p.Reason = "producción orden " + o.Code
			if _, err := post(ctx, tx, out, p); err != nil {
				return err
			}
			line.UnitCost = unitCost
			line.TotalCost = lineCost
			total = total.Add(lineCost)
		}

		o.Consumption = consumption
		o.TotalCost = total
		o.Status = entity.OrderStatusCompleted
		o.CompletedAt = &now
		o.UpdatedAt = now
		if err := tx.Orders.Update(ctx, o); err != nil {
			return domain.Persistence("update order", err)
		}
		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Applied {
		uc.reservations.Invalidate(ctx)
		ev := uc.log.Info()
		if len(result.Deficits) > 0 {
			ev = uc.log.Warn().Int("deficits", len(result.Deficits))
		}
		ev.Str("order", result.Order.Code).Str("total_cost", result.Order.TotalCost.String()).Msg("orden aplicada")
	}
	return result, nil
}

// Cancel cancela la orden. Si ya estaba aplicada escribe los movimientos inversos exactos
// usando el consumo guardado al aplicar; una orden cancelada no admite otra reversión.
func (uc *ConversionUseCase) Cancel(ctx context.Context, id, userID string) (*entity.ConversionOrder, error) {
	var order *entity.ConversionOrder
	reversed := false
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		o, err := lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if !o.CanTransition(entity.OrderStatusCancelled) {
			return domain.InvalidTransition("order", o.Code, string(o.Status), string(entity.OrderStatusCancelled))
		}
		now := time.Now().UTC()
		if o.Applied() {
			if err := uc.reverse(ctx, tx, o, userID, now); err != nil {
				return err
			}
			reversed = true
		}
		o.Status = entity.OrderStatusCancelled
		o.CancelledAt = &now
		o.UpdatedAt = now
		if err := tx.Orders.Update(ctx, o); err != nil {
			return domain.Persistence("update order", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.reservations.Invalidate(ctx)
	uc.log.Info().Str("order", order.Code).Bool("reversed", reversed).Msg("orden cancelada")
	return order, nil
}

func (uc *ConversionUseCase) reverse(ctx context.Context, tx repository.Tx, o *entity.ConversionOrder, userID string, now time.Time) error {
	consumption := o.Consumption
	if len(consumption) == 0 {
		// órdenes aplicadas sin consumo guardado: se recalcula con la receta actual
		c, err := uc.expandOrder(ctx, tx, o)
		if err != nil {
			return err
		}
		consumption = c
	}
	keys := make([]entity.ItemKey, 0, len(consumption)+len(o.Lines))
	for _, c := range consumption {
		keys = append(keys, entity.ItemKey{Kind: c.ComponentKind, ID: c.ComponentID})
	}
	for _, l := range o.Lines {
		keys = append(keys, entity.ItemKey{Kind: o.Type.OutputKind(), ID: l.OutputItemID})
	}
	locked, err := lockItems(ctx, tx, keys)
	if err != nil {
		return err
	}
	base := posting{
		ReferenceType: entity.ReferenceConversionOrder,
		ReferenceID:   o.ID,
		CreatedBy:     userID,
		At:            now,
		Reason:        "reversión orden " + o.Code,
	}
	for _, line := range o.Lines {
		out := locked[entity.ItemKey{Kind: o.Type.OutputKind(), ID: line.OutputItemID}]
		p := base
		p.Direction = entity.DirectionOut
		p.Quantity = line.Quantity
		p.UnitCost = line.UnitCost
		if _, err := post(ctx, tx, out, p); err != nil {
			return err
		}
		for _, c := range consumption {
			if c.LineID != line.ID {
				continue
			}
			comp := locked[entity.ItemKey{Kind: c.ComponentKind, ID: c.ComponentID}]
			p := base
			p.Direction = entity.DirectionIn
			p.Quantity = c.Quantity
			p.UnitCost = comp.UnitCost
			if _, err := post(ctx, tx, comp, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandOrder expande cada línea por su receta actual. Una línea sin receta se reporta con su número.
func (uc *ConversionUseCase) expandOrder(ctx context.Context, tx repository.Tx, o *entity.ConversionOrder) ([]entity.ConsumptionEntry, error) {
	outputs := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		outputs = append(outputs, l.OutputItemID)
	}
	recipes, err := loadRecipes(ctx, tx.Items, tx.BOM, outputs)
	if err != nil {
		return nil, err
	}
	var out []entity.ConsumptionEntry
	for i, l := range o.Lines {
		recipe, ok := recipes[l.OutputItemID]
		if !ok {
			return nil, &domain.Error{Kind: domain.ErrNotFound, Entity: "recipe", ID: l.OutputItemID, Line: i + 1, Message: "orden " + o.Code}
		}
		reqs, err := recipe.Expand(l.Quantity)
		if err != nil {
			return nil, err
		}
		for _, r := range reqs {
			out = append(out, entity.ConsumptionEntry{
				LineID:        l.ID,
				ComponentKind: r.Key.Kind,
				ComponentID:   r.Key.ID,
				Quantity:      r.Quantity,
			})
		}
	}
	return out, nil
}

func lockOrder(ctx context.Context, tx repository.Tx, id string) (*entity.ConversionOrder, error) {
	o, err := tx.Orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, domain.Persistence("lock order", err)
	}
	if o == nil {
		return nil, domain.NotFound("order", id)
	}
	return o, nil
}

func deficitsOf(required domaininv.Reservations, locked map[entity.ItemKey]*entity.Item) []Deficit {
	var out []Deficit
	for _, k := range required.Keys() {
		item := locked[k]
		need := required.Of(k)
		if item.OnHand.GreaterThanOrEqual(need) {
			continue
		}
		out = append(out, Deficit{
			Kind:     k.Kind,
			ItemID:   item.ID,
			Code:     item.Code,
			Name:     item.Name,
			Required: need,
			OnHand:   item.OnHand,
			Shortage: need.Sub(item.OnHand),
		})
	}
	return out
}
