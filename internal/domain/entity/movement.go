package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento.
const (
	DirectionIn         = "in"         // entrada
	DirectionOut        = "out"        // salida
	DirectionAdjustment = "adjustment" // ajuste por toma física
)

// Tipos de referencia de un movimiento.
const (
	ReferenceConversionOrder = "conversion_order"
	ReferenceStocktaking     = "stocktaking"
	ReferenceReceipt         = "receipt" // entrada de compra o recepción
)

// Movement es un asiento inmutable del libro de movimientos.
// Quantity es siempre positiva en in/out; en adjustment lleva el signo del ajuste.
// NewBalance - PreviousBalance es el efecto neto sobre el stock del ítem.
type Movement struct {
	ID              string
	ItemKind        ItemKind
	ItemID          string
	Direction       string
	Quantity        decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	UnitCost        decimal.Decimal
	Reason          string
	ReferenceType   string
	ReferenceID     string
	CreatedBy       string
	CreatedAt       time.Time
}

// Delta devuelve el efecto neto del movimiento sobre el stock.
func (m *Movement) Delta() decimal.Decimal {
	return m.NewBalance.Sub(m.PreviousBalance)
}
