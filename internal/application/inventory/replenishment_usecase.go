package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// Acciones sugeridas de reposición.
const (
	ActionPurchase = "purchase"   // materia prima o empaque
	ActionProduce  = "production" // semielaborado
	ActionPackage  = "packaging"  // terminado
)

// ReplenishmentUseCase genera la lista de reposición de ítems bajo su stock mínimo,
// neto de lo ya reservado por órdenes abiertas.
type ReplenishmentUseCase struct {
	repos        repository.Tx
	reservations *ReservationUseCase
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repos repository.Tx, reservations *ReservationUseCase) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repos: repos, reservations: reservations}
}

// ReplenishmentSuggestion sugerencia para un ítem bajo mínimo.
type ReplenishmentSuggestion struct {
	Item               *entity.Item
	Reserved           decimal.Decimal
	TrueAvailable      decimal.Decimal
	IdealStock         decimal.Decimal // MinStock * 1.5
	SuggestedQty       decimal.Decimal // IdealStock - TrueAvailable
	EstimatedOrderCost decimal.Decimal // SuggestedQty * UnitCost
	Action             string
	Priority           int // 1 = más urgente
}

var idealFactor = decimal.NewFromFloat(1.5)

// GenerateReplenishmentList devuelve los ítems cuya disponibilidad real está bajo el mínimo,
// ordenados por déficit relativo (el más crítico primero).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, kinds []entity.ItemKind) ([]ReplenishmentSuggestion, error) {
	if len(kinds) == 0 {
		kinds = entity.AllItemKinds
	}
	items, err := uc.repos.Items.ListByKinds(ctx, kinds, 0, 0)
	if err != nil {
		return nil, domain.Persistence("list items", err)
	}
	reserved, err := uc.reservations.Reserved(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]ReplenishmentSuggestion, 0)
	for _, item := range items {
		if !item.MinStock.GreaterThan(decimal.Zero) {
			continue
		}
		res := reserved.Of(item.Key())
		avail := domaininv.TrueAvailable(item.OnHand, res, decimal.Zero)
		if avail.GreaterThanOrEqual(item.MinStock) {
			continue
		}
		ideal := item.MinStock.Mul(idealFactor)
		qty := ideal.Sub(avail)
		suggestions = append(suggestions, ReplenishmentSuggestion{
			Item:               item,
			Reserved:           res,
			TrueAvailable:      avail,
			IdealStock:         ideal,
			SuggestedQty:       qty,
			EstimatedOrderCost: qty.Mul(item.UnitCost),
			Action:             actionFor(item.Kind),
		})
	}

	// déficit relativo: (mínimo - disponible) / mínimo; desempate por código
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra := a.Item.MinStock.Sub(a.TrueAvailable).Div(a.Item.MinStock)
		rb := b.Item.MinStock.Sub(b.TrueAvailable).Div(b.Item.MinStock)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.Item.Code < b.Item.Code
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func actionFor(k entity.ItemKind) string {
	switch k {
	case entity.KindSemiFinished:
		return ActionProduce
	case entity.KindFinished:
		return ActionPackage
	}
	return ActionPurchase
}
