package entity

import "github.com/shopspring/decimal"

// BOMLine es una línea de receta: cuánto de un componente se necesita por unidad de referencia del dueño.
// Para semielaborados la unidad de referencia es ReferenceBatchSize; para terminados es 1 unidad.
type BOMLine struct {
	ID                       string
	OwnerID                  string
	OwnerKind                ItemKind
	ComponentID              string
	ComponentKind            ItemKind
	QuantityPerReferenceUnit decimal.Decimal
}

// ComponentKey devuelve la clave del componente.
func (l BOMLine) ComponentKey() ItemKey {
	return ItemKey{Kind: l.ComponentKind, ID: l.ComponentID}
}
