package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
)

// SuggestedProductionResponse orden de producción sugerida (editable, nunca automática).
type SuggestedProductionResponse struct {
	ItemID   string          `json:"item_id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RequirementResponse requerimiento de un componente.
type RequirementResponse struct {
	Kind      string                       `json:"kind"`
	ItemID    string                       `json:"item_id"`
	Code      string                       `json:"code"`
	Name      string                       `json:"name"`
	Required  decimal.Decimal              `json:"required"`
	OnHand    decimal.Decimal              `json:"on_hand"`
	Reserved  decimal.Decimal              `json:"reserved"`
	Available decimal.Decimal              `json:"available"`
	Shortage  decimal.Decimal              `json:"shortage"`
	Suggested *SuggestedProductionResponse `json:"suggested_production,omitempty"`
}

// ShortageReportResponse resultado del análisis previo.
type ShortageReportResponse struct {
	Type         string                `json:"type"`
	CanComplete  bool                  `json:"can_complete"`
	Requirements []RequirementResponse `json:"requirements"`
	Shortages    []RequirementResponse `json:"shortages"`
}

func requirementFrom(l inventory.RequirementLine) RequirementResponse {
	out := RequirementResponse{
		Kind:      string(l.Kind),
		ItemID:    l.ItemID,
		Code:      l.Code,
		Name:      l.Name,
		Required:  l.Required,
		OnHand:    l.OnHand,
		Reserved:  l.Reserved,
		Available: l.Available,
		Shortage:  l.Shortage,
	}
	if l.Suggested != nil {
		out.Suggested = &SuggestedProductionResponse{
			ItemID:   l.Suggested.ItemID,
			Code:     l.Suggested.Code,
			Name:     l.Suggested.Name,
			Quantity: l.Suggested.Quantity,
		}
	}
	return out
}

// ShortageReportFromUseCase mapea el análisis.
func ShortageReportFromUseCase(r *inventory.ShortageReport) ShortageReportResponse {
	out := ShortageReportResponse{
		Type:         string(r.OrderType),
		CanComplete:  r.CanComplete,
		Requirements: make([]RequirementResponse, 0, len(r.Requirements)),
		Shortages:    make([]RequirementResponse, 0, len(r.Shortages)),
	}
	for _, l := range r.Requirements {
		out.Requirements = append(out.Requirements, requirementFrom(l))
	}
	for _, l := range r.Shortages {
		out.Shortages = append(out.Shortages, requirementFrom(l))
	}
	return out
}

// AvailabilityResponse disponibilidad real de un componente neta del borrador.
type AvailabilityResponse struct {
	Kind          string          `json:"kind"`
	ItemID        string          `json:"item_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	OnHand        decimal.Decimal `json:"on_hand"`
	Reserved      decimal.Decimal `json:"reserved"`
	DraftDemand   decimal.Decimal `json:"draft_demand"`
	TrueAvailable decimal.Decimal `json:"true_available"`
}

// AvailabilityFromUseCase mapea la disponibilidad.
func AvailabilityFromUseCase(lines []inventory.AvailabilityLine) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, AvailabilityResponse{
			Kind:          string(l.Kind),
			ItemID:        l.ItemID,
			Code:          l.Code,
			Name:          l.Name,
			OnHand:        l.OnHand,
			Reserved:      l.Reserved,
			DraftDemand:   l.DraftDemand,
			TrueAvailable: l.TrueAvailable,
		})
	}
	return out
}

// ReservationsResponse foto de reservas de las órdenes abiertas.
type ReservationsResponse struct {
	OpenOrders int                       `json:"open_orders"`
	ComputedAt time.Time                 `json:"computed_at"`
	Entries    []inventory.ReservedEntry `json:"entries"`
}

// ReservationsFromSnapshot mapea la foto.
func ReservationsFromSnapshot(s *inventory.Snapshot) ReservationsResponse {
	entries := s.Entries
	if entries == nil {
		entries = []inventory.ReservedEntry{}
	}
	return ReservationsResponse{OpenOrders: s.OpenOrders, ComputedAt: s.ComputedAt, Entries: entries}
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	Kind               string          `json:"kind"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	OnHand             decimal.Decimal `json:"on_hand"`
	Reserved           decimal.Decimal `json:"reserved"`
	TrueAvailable      decimal.Decimal `json:"true_available"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedQty       decimal.Decimal `json:"suggested_qty"`        // IdealStock - TrueAvailable
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedQty * UnitCost
	Action             string          `json:"action"`               // purchase | production | packaging
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// ReplenishmentFromUseCase mapea la lista de reposición.
func ReplenishmentFromUseCase(list []inventory.ReplenishmentSuggestion) []ReplenishmentSuggestionDTO {
	out := make([]ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, ReplenishmentSuggestionDTO{
			ItemID:             s.Item.ID,
			Kind:               string(s.Item.Kind),
			Code:               s.Item.Code,
			Name:               s.Item.Name,
			OnHand:             s.Item.OnHand,
			Reserved:           s.Reserved,
			TrueAvailable:      s.TrueAvailable,
			MinStock:           s.Item.MinStock,
			IdealStock:         s.IdealStock,
			SuggestedQty:       s.SuggestedQty,
			UnitCost:           s.Item.UnitCost,
			EstimatedOrderCost: s.EstimatedOrderCost,
			Action:             s.Action,
			Priority:           s.Priority,
		})
	}
	return out
}
