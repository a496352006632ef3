package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// ShortageUseCase análisis previo de una orden que aún no se ha guardado.
// No escribe nada: los faltantes se informan como datos.
type ShortageUseCase struct {
	repos        repository.Tx
	reservations *ReservationUseCase
}

// NewShortageUseCase construye el caso de uso.
func NewShortageUseCase(repos repository.Tx, reservations *ReservationUseCase) *ShortageUseCase {
	return &ShortageUseCase{repos: repos, reservations: reservations}
}

// SuggestedProduction orden de producción sugerida para cubrir un faltante de semielaborado.
// Quantity es editable por quien la envía; nunca se crea sola.
type SuggestedProduction struct {
	ItemID   string
	Code     string
	Name     string
	Quantity decimal.Decimal
}

// RequirementLine requerimiento de un componente contra su disponibilidad real.
type RequirementLine struct {
	Kind      entity.ItemKind
	ItemID    string
	Code      string
	Name      string
	Required  decimal.Decimal
	OnHand    decimal.Decimal
	Reserved  decimal.Decimal
	Available decimal.Decimal // max(0, OnHand - Reserved)
	Shortage  decimal.Decimal // max(0, Required - Available)
	Suggested *SuggestedProduction
}

// ShortageReport resultado del análisis.
type ShortageReport struct {
	OrderType    entity.OrderType
	CanComplete  bool
	Requirements []RequirementLine
	Shortages    []RequirementLine
}

// AvailabilityLine disponibilidad real de un componente neta de la demanda del borrador.
type AvailabilityLine struct {
	Kind          entity.ItemKind
	ItemID        string
	Code          string
	Name          string
	OnHand        decimal.Decimal
	Reserved      decimal.Decimal
	DraftDemand   decimal.Decimal
	TrueAvailable decimal.Decimal
}

// Analyze expande la orden candidata y compara cada requerimiento con la disponibilidad real.
// En órdenes de empaque cada semielaborado faltante trae una producción sugerida por el faltante.
func (uc *ShortageUseCase) Analyze(ctx context.Context, orderType entity.OrderType, lines []OrderLineInput) (*ShortageReport, error) {
	demand, reserved, items, err := uc.prepare(ctx, orderType, lines)
	if err != nil {
		return nil, err
	}
	report := &ShortageReport{OrderType: orderType, CanComplete: true}
	for _, k := range demand.Keys() {
		item := items[k]
		req := demand.Of(k)
		res := reserved.Of(k)
		avail := domaininv.TrueAvailable(item.OnHand, res, decimal.Zero)
		line := RequirementLine{
			Kind:      k.Kind,
			ItemID:    item.ID,
			Code:      item.Code,
			Name:      item.Name,
			Required:  req,
			OnHand:    item.OnHand,
			Reserved:  res,
			Available: avail,
			Shortage:  decimal.Zero,
		}
		if req.GreaterThan(avail) {
			line.Shortage = req.Sub(avail)
			if k.Kind == entity.KindSemiFinished {
				line.Suggested = &SuggestedProduction{ItemID: item.ID, Code: item.Code, Name: item.Name, Quantity: line.Shortage}
			}
			report.CanComplete = false
			report.Shortages = append(report.Shortages, line)
		}
		report.Requirements = append(report.Requirements, line)
	}
	return report, nil
}

// Availability devuelve trueAvailable = max(0, onHand - reservado - demandaDelBorrador) por componente.
func (uc *ShortageUseCase) Availability(ctx context.Context, orderType entity.OrderType, lines []OrderLineInput) ([]AvailabilityLine, error) {
	demand, reserved, items, err := uc.prepare(ctx, orderType, lines)
	if err != nil {
		return nil, err
	}
	out := make([]AvailabilityLine, 0, len(demand))
	for _, k := range demand.Keys() {
		item := items[k]
		out = append(out, AvailabilityLine{
			Kind:          k.Kind,
			ItemID:        item.ID,
			Code:          item.Code,
			Name:          item.Name,
			OnHand:        item.OnHand,
			Reserved:      reserved.Of(k),
			DraftDemand:   demand.Of(k),
			TrueAvailable: domaininv.TrueAvailable(item.OnHand, reserved.Of(k), demand.Of(k)),
		})
	}
	return out, nil
}

func (uc *ShortageUseCase) prepare(ctx context.Context, orderType entity.OrderType, lines []OrderLineInput) (domaininv.Reservations, domaininv.Reservations, map[entity.ItemKey]*entity.Item, error) {
	if !orderType.Valid() {
		return nil, nil, nil, domain.Invalid("order", "", fmt.Sprintf("tipo de orden desconocido: %q", orderType))
	}
	if len(lines) == 0 {
		return nil, nil, nil, domain.Invalid("order", "", "la orden no tiene líneas")
	}
	outputs := make([]string, 0, len(lines))
	draft := make([]domaininv.DemandLine, 0, len(lines))
	for i, l := range lines {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, nil, domain.InvalidLine("order_line", i+1, "la cantidad debe ser mayor que cero")
		}
		outputs = append(outputs, l.OutputItemID)
		draft = append(draft, domaininv.DemandLine{OutputItemID: l.OutputItemID, Quantity: l.Quantity})
	}
	recipes, err := loadRecipes(ctx, uc.repos.Items, uc.repos.BOM, outputs)
	if err != nil {
		return nil, nil, nil, err
	}
	for i, l := range lines {
		if err := requireOutput(ctx, uc.repos.Items, recipes, l.OutputItemID, orderType.OutputKind(), i+1); err != nil {
			return nil, nil, nil, err
		}
	}
	demand, err := domaininv.Demand(draft, recipes)
	if err != nil {
		return nil, nil, nil, err
	}
	reserved, err := uc.reservations.Reserved(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	items := make(map[entity.ItemKey]*entity.Item, len(demand))
	for _, k := range demand.Keys() {
		item, err := uc.repos.Items.GetByID(ctx, k.ID)
		if err != nil {
			return nil, nil, nil, domain.Persistence("get item "+k.ID, err)
		}
		if item == nil {
			return nil, nil, nil, domain.NotFound("item", k.ID)
		}
		items[k] = item
	}
	return demand, reserved, items, nil
}
