package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// OrderLineRequest una salida de la orden.
type OrderLineRequest struct {
	OutputItemID string          `json:"output_item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Type  string             `json:"type"` // production | packaging
	Date  *time.Time         `json:"date,omitempty"`
	Notes string             `json:"notes"`
	Lines []OrderLineRequest `json:"lines"`
}

// AnalyzeRequest body para POST /api/orders/analyze y POST /api/availability.
type AnalyzeRequest struct {
	Type  string             `json:"type"`
	Lines []OrderLineRequest `json:"lines"`
}

// LinesToInput convierte las líneas del request.
func LinesToInput(lines []OrderLineRequest) []inventory.OrderLineInput {
	out := make([]inventory.OrderLineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, inventory.OrderLineInput{OutputItemID: l.OutputItemID, Quantity: l.Quantity})
	}
	return out
}

// CompleteOrderRequest body opcional para POST /api/orders/:id/complete.
type CompleteOrderRequest struct {
	AllowNegative bool `json:"allow_negative"` // "proceder de todas formas"
}

// OrderLineResponse línea de la orden.
type OrderLineResponse struct {
	ID           string          `json:"id"`
	OutputItemID string          `json:"output_item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// ConsumptionResponse consumo registrado al aplicar.
type ConsumptionResponse struct {
	LineID        string          `json:"line_id"`
	ComponentKind string          `json:"component_kind"`
	ComponentID   string          `json:"component_id"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// OrderResponse orden de conversión.
type OrderResponse struct {
	ID          string                `json:"id"`
	Code        string                `json:"code"`
	Type        string                `json:"type"`
	Date        time.Time             `json:"date"`
	Status      string                `json:"status"`
	TotalCost   decimal.Decimal       `json:"total_cost"`
	Notes       string                `json:"notes"`
	Lines       []OrderLineResponse   `json:"lines"`
	Consumption []ConsumptionResponse `json:"consumption,omitempty"`
	CreatedBy   string                `json:"created_by,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	CancelledAt *time.Time            `json:"cancelled_at,omitempty"`
}

// OrderFromEntity mapea una orden.
func OrderFromEntity(o *entity.ConversionOrder) OrderResponse {
	out := OrderResponse{
		ID:          o.ID,
		Code:        o.Code,
		Type:        string(o.Type),
		Date:        o.Date,
		Status:      string(o.Status),
		TotalCost:   o.TotalCost,
		Notes:       o.Notes,
		Lines:       make([]OrderLineResponse, 0, len(o.Lines)),
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		CompletedAt: o.CompletedAt,
		CancelledAt: o.CancelledAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, OrderLineResponse{
			ID:           l.ID,
			OutputItemID: l.OutputItemID,
			Quantity:     l.Quantity,
			UnitCost:     l.UnitCost,
			TotalCost:    l.TotalCost,
		})
	}
	for _, c := range o.Consumption {
		out.Consumption = append(out.Consumption, ConsumptionResponse{
			LineID:        c.LineID,
			ComponentKind: string(c.ComponentKind),
			ComponentID:   c.ComponentID,
			Quantity:      c.Quantity,
		})
	}
	return out
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Page   PageResponse    `json:"page"`
}

// DeficitResponse faltante de un componente al aplicar.
type DeficitResponse struct {
	Kind     string          `json:"kind"`
	ItemID   string          `json:"item_id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Required decimal.Decimal `json:"required"`
	OnHand   decimal.Decimal `json:"on_hand"`
	Shortage decimal.Decimal `json:"shortage"`
}

// CompletionResponse resultado de aplicar una orden. Applied=false con déficits = requiere confirmación.
type CompletionResponse struct {
	Applied  bool              `json:"applied"`
	Order    OrderResponse     `json:"order"`
	Deficits []DeficitResponse `json:"deficits"`
}

// CompletionFromUseCase mapea el resultado de Complete.
func CompletionFromUseCase(r *inventory.CompletionResult) CompletionResponse {
	out := CompletionResponse{
		Applied:  r.Applied,
		Order:    OrderFromEntity(r.Order),
		Deficits: make([]DeficitResponse, 0, len(r.Deficits)),
	}
	for _, d := range r.Deficits {
		out.Deficits = append(out.Deficits, DeficitResponse{
			Kind:     string(d.Kind),
			ItemID:   d.ItemID,
			Code:     d.Code,
			Name:     d.Name,
			Required: d.Required,
			OnHand:   d.OnHand,
			Shortage: d.Shortage,
		})
	}
	return out
}
