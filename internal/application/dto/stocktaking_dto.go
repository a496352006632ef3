package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// StocktakingScopeDTO tipos de ítem incluidos en la toma.
type StocktakingScopeDTO struct {
	RawMaterials       bool `json:"raw_materials"`
	PackagingMaterials bool `json:"packaging_materials"`
	SemiFinished       bool `json:"semi_finished"`
	Finished           bool `json:"finished"`
}

// ToEntity convierte el alcance.
func (s StocktakingScopeDTO) ToEntity() entity.StocktakingScope {
	return entity.StocktakingScope{
		RawMaterials:       s.RawMaterials,
		PackagingMaterials: s.PackagingMaterials,
		SemiFinished:       s.SemiFinished,
		Finished:           s.Finished,
	}
}

// CreateStocktakingRequest body para POST /api/stocktaking.
type CreateStocktakingRequest struct {
	Scope StocktakingScopeDTO `json:"scope"`
	Notes string              `json:"notes"`
	Start bool                `json:"start"` // true = tomar la foto de inmediato
}

// CountEntryRequest cantidad contada de un ítem.
type CountEntryRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CountRequest body para PUT /api/stocktaking/:id/counts.
type CountRequest struct {
	Counts []CountEntryRequest `json:"counts"`
}

// ToInput convierte los conteos.
func (r CountRequest) ToInput() []inventory.CountInput {
	out := make([]inventory.CountInput, 0, len(r.Counts))
	for _, c := range r.Counts {
		out = append(out, inventory.CountInput{ItemID: c.ItemID, Quantity: c.Quantity})
	}
	return out
}

// CountLineResponse línea de conteo.
type CountLineResponse struct {
	ID              string          `json:"id"`
	ItemKind        string          `json:"item_kind"`
	ItemID          string          `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Difference      decimal.Decimal `json:"difference"`
	CountedAt       *time.Time      `json:"counted_at,omitempty"`
}

// StocktakingResponse sesión de toma física.
type StocktakingResponse struct {
	ID          string              `json:"id"`
	Code        string              `json:"code"`
	Status      string              `json:"status"`
	Scope       StocktakingScopeDTO `json:"scope"`
	Notes       string              `json:"notes"`
	Lines       []CountLineResponse `json:"lines"`
	CreatedBy   string              `json:"created_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
}

// StocktakingFromEntity mapea una sesión.
func StocktakingFromEntity(s *entity.StocktakingSession) StocktakingResponse {
	out := StocktakingResponse{
		ID:     s.ID,
		Code:   s.Code,
		Status: string(s.Status),
		Scope: StocktakingScopeDTO{
			RawMaterials:       s.Scope.RawMaterials,
			PackagingMaterials: s.Scope.PackagingMaterials,
			SemiFinished:       s.Scope.SemiFinished,
			Finished:           s.Scope.Finished,
		},
		Notes:       s.Notes,
		Lines:       make([]CountLineResponse, 0, len(s.Lines)),
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		CancelledAt: s.CancelledAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, CountLineResponse{
			ID:              l.ID,
			ItemKind:        string(l.ItemKind),
			ItemID:          l.ItemID,
			ItemCode:        l.ItemCode,
			ItemName:        l.ItemName,
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
			Difference:      l.Difference,
			CountedAt:       l.CountedAt,
		})
	}
	return out
}

// ReconcileResponse sesión conciliada y ajustes escritos.
type ReconcileResponse struct {
	Session     StocktakingResponse `json:"session"`
	Adjustments []MovementResponse  `json:"adjustments"`
}
