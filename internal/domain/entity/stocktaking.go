package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una toma física.
type SessionStatus string

const (
	SessionStatusDraft      SessionStatus = "draft"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// StocktakingScope qué tipos de ítem entran en el conteo.
type StocktakingScope struct {
	RawMaterials       bool
	PackagingMaterials bool
	SemiFinished       bool
	Finished           bool
}

// Kinds devuelve los tipos incluidos, en el orden del catálogo.
func (s StocktakingScope) Kinds() []ItemKind {
	var kinds []ItemKind
	if s.RawMaterials {
		kinds = append(kinds, KindRawMaterial)
	}
	if s.PackagingMaterials {
		kinds = append(kinds, KindPackagingMaterial)
	}
	if s.SemiFinished {
		kinds = append(kinds, KindSemiFinished)
	}
	if s.Finished {
		kinds = append(kinds, KindFinished)
	}
	return kinds
}

// IsEmpty indica si no se seleccionó ningún tipo.
func (s StocktakingScope) IsEmpty() bool {
	return len(s.Kinds()) == 0
}

// CountLine línea de conteo: stock del sistema (foto al iniciar) contra lo contado.
type CountLine struct {
	ID              string
	ItemKind        ItemKind
	ItemID          string
	ItemCode        string
	ItemName        string
	SystemQuantity  decimal.Decimal
	CountedQuantity decimal.Decimal
	Difference      decimal.Decimal // CountedQuantity - SystemQuantity
	CountedAt       *time.Time
}

// SetCounted actualiza la cantidad contada y recalcula la diferencia.
func (l *CountLine) SetCounted(qty decimal.Decimal, at time.Time) {
	l.CountedQuantity = qty
	l.Difference = qty.Sub(l.SystemQuantity)
	l.CountedAt = &at
}

// StocktakingSession sesión de toma física de inventario.
type StocktakingSession struct {
	ID          string
	Code        string
	Status      SessionStatus
	Scope       StocktakingScope
	Notes       string
	Lines       []CountLine
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// LineFor busca la línea de un ítem.
func (s *StocktakingSession) LineFor(kind ItemKind, itemID string) *CountLine {
	for i := range s.Lines {
		if s.Lines[i].ItemKind == kind && s.Lines[i].ItemID == itemID {
			return &s.Lines[i]
		}
	}
	return nil
}

// Pending devuelve las líneas con diferencia distinta de cero.
func (s *StocktakingSession) Pending() []CountLine {
	var out []CountLine
	for _, l := range s.Lines {
		if !l.Difference.IsZero() {
			out = append(out, l)
		}
	}
	return out
}
