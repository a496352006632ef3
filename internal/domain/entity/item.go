package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind discrimina las cuatro variantes de ítem del catálogo.
type ItemKind string

const (
	KindRawMaterial       ItemKind = "raw_material"       // materia prima
	KindPackagingMaterial ItemKind = "packaging_material" // material de empaque
	KindSemiFinished      ItemKind = "semi_finished"      // semielaborado
	KindFinished          ItemKind = "finished"           // producto terminado
)

// AllItemKinds en el orden en que se listan en catálogo y tomas físicas.
var AllItemKinds = []ItemKind{KindRawMaterial, KindPackagingMaterial, KindSemiFinished, KindFinished}

// Valid indica si el tipo es uno de los cuatro conocidos.
func (k ItemKind) Valid() bool {
	switch k {
	case KindRawMaterial, KindPackagingMaterial, KindSemiFinished, KindFinished:
		return true
	}
	return false
}

// CodePrefix prefijo del código legible (RM001, PM001, SF001, FP001).
func (k ItemKind) CodePrefix() string {
	switch k {
	case KindRawMaterial:
		return "RM"
	case KindPackagingMaterial:
		return "PM"
	case KindSemiFinished:
		return "SF"
	case KindFinished:
		return "FP"
	}
	return "IT"
}

// HasRecipe indica si el tipo se produce a partir de una receta (BOM).
func (k ItemKind) HasRecipe() bool {
	return k == KindSemiFinished || k == KindFinished
}

// AllowsComponent indica si una receta de este tipo acepta componentes del tipo c.
// Semielaborado: solo materias primas. Terminado: un semielaborado base + empaques.
func (k ItemKind) AllowsComponent(c ItemKind) bool {
	switch k {
	case KindSemiFinished:
		return c == KindRawMaterial
	case KindFinished:
		return c == KindSemiFinished || c == KindPackagingMaterial
	}
	return false
}

// ItemKey identifica un ítem por tipo e ID (clave de reservas y bloqueos).
type ItemKey struct {
	Kind ItemKind
	ID   string
}

// Less orden total usado para bloquear filas siempre en el mismo orden.
func (k ItemKey) Less(o ItemKey) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	return k.ID < o.ID
}

// Item representa un ítem del catálogo (cualquiera de las cuatro variantes).
// OnHand es la proyección materializada del libro de movimientos.
type Item struct {
	ID                 string
	Kind               ItemKind
	Code               string // prefijo de categoría + consecutivo (RM001)
	Name               string
	Unit               string
	OnHand             decimal.Decimal // puede ser negativo solo con "continuar de todos modos"
	MinStock           decimal.Decimal
	UnitCost           decimal.Decimal // costo promedio ponderado
	ReferenceBatchSize decimal.Decimal // solo semielaborados: denominador de la receta
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Key devuelve la clave (tipo, ID) del ítem.
func (i *Item) Key() ItemKey {
	return ItemKey{Kind: i.Kind, ID: i.ID}
}

// IsLowStock indica si el stock disponible está por debajo del mínimo.
func (i *Item) IsLowStock() bool {
	return i.OnHand.LessThan(i.MinStock)
}
