package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Kind               string          `json:"kind"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	MinStock           decimal.Decimal `json:"min_stock"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	ReferenceBatchSize decimal.Decimal `json:"reference_batch_size"` // solo semielaborados
}

// ItemResponse ítem del catálogo.
type ItemResponse struct {
	ID                 string           `json:"id"`
	Kind               string           `json:"kind"`
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	Unit               string           `json:"unit"`
	OnHand             decimal.Decimal  `json:"on_hand"`
	MinStock           decimal.Decimal  `json:"min_stock"`
	UnitCost           decimal.Decimal  `json:"unit_cost"`
	ReferenceBatchSize *decimal.Decimal `json:"reference_batch_size,omitempty"`
	LowStock           bool             `json:"low_stock"`
	Reserved           *decimal.Decimal `json:"reserved,omitempty"`
	TrueAvailable      *decimal.Decimal `json:"true_available,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ItemFromEntity mapea un ítem.
func ItemFromEntity(it *entity.Item) ItemResponse {
	out := ItemResponse{
		ID:        it.ID,
		Kind:      string(it.Kind),
		Code:      it.Code,
		Name:      it.Name,
		Unit:      it.Unit,
		OnHand:    it.OnHand,
		MinStock:  it.MinStock,
		UnitCost:  it.UnitCost,
		LowStock:  it.IsLowStock(),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
	if it.Kind == entity.KindSemiFinished {
		b := it.ReferenceBatchSize
		out.ReferenceBatchSize = &b
	}
	return out
}

// ItemViewFromUseCase ítem con reserva y disponibilidad real.
func ItemViewFromUseCase(v *inventory.ItemView) ItemResponse {
	out := ItemFromEntity(v.Item)
	reserved, avail := v.Reserved, v.TrueAvailable
	out.Reserved = &reserved
	out.TrueAvailable = &avail
	return out
}

// ItemListResponse listado paginado de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RecipeLineRequest una línea de receta.
type RecipeLineRequest struct {
	ComponentID              string          `json:"component_id"`
	QuantityPerReferenceUnit decimal.Decimal `json:"quantity_per_reference_unit"`
}

// SetRecipeRequest body para PUT /api/items/:id/recipe.
type SetRecipeRequest struct {
	Lines []RecipeLineRequest `json:"lines"`
}

// BOMLineResponse línea de receta.
type BOMLineResponse struct {
	ID                       string          `json:"id"`
	OwnerID                  string          `json:"owner_id"`
	OwnerKind                string          `json:"owner_kind"`
	ComponentID              string          `json:"component_id"`
	ComponentKind            string          `json:"component_kind"`
	QuantityPerReferenceUnit decimal.Decimal `json:"quantity_per_reference_unit"`
}

// BOMLinesFromEntity mapea líneas de receta.
func BOMLinesFromEntity(lines []entity.BOMLine) []BOMLineResponse {
	out := make([]BOMLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, BOMLineResponse{
			ID:                       l.ID,
			OwnerID:                  l.OwnerID,
			OwnerKind:                string(l.OwnerKind),
			ComponentID:              l.ComponentID,
			ComponentKind:            string(l.ComponentKind),
			QuantityPerReferenceUnit: l.QuantityPerReferenceUnit,
		})
	}
	return out
}

// ReceiptRequest body para POST /api/items/:id/receipts.
type ReceiptRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reason    string          `json:"reason"`
	Reference string          `json:"reference"` // número de remisión o factura del proveedor
}

// MovementResponse asiento del libro de movimientos.
type MovementResponse struct {
	ID              string          `json:"id"`
	ItemKind        string          `json:"item_kind"`
	ItemID          string          `json:"item_id"`
	Direction       string          `json:"direction"`
	Quantity        decimal.Decimal `json:"quantity"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Reason          string          `json:"reason"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MovementFromEntity mapea un movimiento.
func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		ItemKind:        string(m.ItemKind),
		ItemID:          m.ItemID,
		Direction:       m.Direction,
		Quantity:        m.Quantity,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		UnitCost:        m.UnitCost,
		Reason:          m.Reason,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// MovementsFromEntity mapea una lista de movimientos.
func MovementsFromEntity(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementFromEntity(m))
	}
	return out
}
