package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType tipo de orden de conversión.
type OrderType string

const (
	OrderTypeProduction OrderType = "production" // materias primas -> semielaborado
	OrderTypePackaging  OrderType = "packaging"  // semielaborado + empaques -> terminado
)

// Valid indica si el tipo de orden es conocido.
func (t OrderType) Valid() bool {
	return t == OrderTypeProduction || t == OrderTypePackaging
}

// OutputKind tipo de ítem que produce la orden.
func (t OrderType) OutputKind() ItemKind {
	if t == OrderTypePackaging {
		return KindFinished
	}
	return KindSemiFinished
}

// CodePrefix prefijo del código de la orden (PRD001, PKG001).
func (t OrderType) CodePrefix() string {
	if t == OrderTypePackaging {
		return "PKG"
	}
	return "PRD"
}

// Estados de una orden de conversión.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsOpen indica si la orden aún reserva demanda (no aplicada ni finalizada).
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusPending || s == OrderStatusInProgress
}

// ConversionOrderLine una salida de la orden: producir Quantity del ítem OutputItemID.
// UnitCost y TotalCost se calculan al aplicar la orden.
type ConversionOrderLine struct {
	ID           string
	OutputItemID string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
}

// ConsumptionEntry cantidad exacta consumida de un componente al aplicar una línea.
// Se reutiliza tal cual al revertir, aunque la receta haya cambiado.
type ConsumptionEntry struct {
	LineID        string
	ComponentKind ItemKind
	ComponentID   string
	Quantity      decimal.Decimal
}

// ConversionOrder orden de producción o de empaque.
type ConversionOrder struct {
	ID          string
	Code        string
	Type        OrderType
	Date        time.Time
	Status      OrderStatus
	TotalCost   decimal.Decimal
	Notes       string
	Lines       []ConversionOrderLine
	Consumption []ConsumptionEntry // vacío mientras no se haya aplicado
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// Applied indica si el efecto de stock de la orden está aplicado.
func (o *ConversionOrder) Applied() bool {
	return o.Status == OrderStatusCompleted
}

// CanTransition valida la máquina de estados:
// pending -> in_progress -> completed; pending|in_progress -> cancelled;
// completed -> cancelled solo como reversión (una vez). cancelled es terminal.
func (o *ConversionOrder) CanTransition(to OrderStatus) bool {
	switch o.Status {
	case OrderStatusPending:
		return to == OrderStatusInProgress || to == OrderStatusCompleted || to == OrderStatusCancelled
	case OrderStatusInProgress:
		return to == OrderStatusCompleted || to == OrderStatusCancelled
	case OrderStatusCompleted:
		return to == OrderStatusCancelled
	}
	return false
}

// LineByID busca una línea por ID.
func (o *ConversionOrder) LineByID(id string) (*ConversionOrderLine, int) {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i], i
		}
	}
	return nil, -1
}
