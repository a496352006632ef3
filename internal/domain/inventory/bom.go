package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// Recipe receta validada de un semielaborado o un terminado.
type Recipe struct {
	Owner *entity.Item
	Lines []entity.BOMLine
}

// Requirement cantidad requerida de un componente para una cantidad de salida.
type Requirement struct {
	Key      entity.ItemKey
	Quantity decimal.Decimal
}

// NewRecipe valida las líneas contra las reglas del tipo del dueño:
//   - semielaborado: solo materias primas, ReferenceBatchSize > 0
//   - terminado: exactamente un semielaborado base más líneas de empaque
//
// Una línea repetida (mismo componente) se rechaza indicando el número de línea.
func NewRecipe(owner *entity.Item, lines []entity.BOMLine) (*Recipe, error) {
	if owner == nil {
		return nil, domain.Invalid("recipe", "", "ítem dueño requerido")
	}
	if !owner.Kind.HasRecipe() {
		return nil, domain.Invalid("item", owner.ID, fmt.Sprintf("el tipo %s no tiene receta", owner.Kind))
	}
	if owner.Kind == entity.KindSemiFinished && !owner.ReferenceBatchSize.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("item", owner.ID, "reference_batch_size debe ser mayor que cero")
	}
	if len(lines) == 0 {
		return nil, domain.Invalid("item", owner.ID, "la receta no tiene líneas")
	}

	seen := make(map[string]int, len(lines))
	bases := 0
	out := make([]entity.BOMLine, 0, len(lines))
	for i, l := range lines {
		n := i + 1
		if l.ComponentID == "" {
			return nil, domain.InvalidLine("bom_line", n, "component_id requerido")
		}
		if l.ComponentID == owner.ID {
			return nil, domain.InvalidLine("bom_line", n, "un ítem no puede ser componente de sí mismo")
		}
		if !owner.Kind.AllowsComponent(l.ComponentKind) {
			return nil, domain.InvalidLine("bom_line", n,
				fmt.Sprintf("componente %s de tipo %s no permitido en receta de %s", l.ComponentID, l.ComponentKind, owner.Kind))
		}
		if !l.QuantityPerReferenceUnit.GreaterThan(decimal.Zero) {
			return nil, domain.InvalidLine("bom_line", n, "la cantidad debe ser mayor que cero")
		}
		if prev, dup := seen[l.ComponentID]; dup {
			return nil, domain.InvalidLine("bom_line", n,
				fmt.Sprintf("componente %s duplicado (ya en línea %d)", l.ComponentID, prev))
		}
		seen[l.ComponentID] = n
		if l.ComponentKind == entity.KindSemiFinished {
			bases++
		}
		l.OwnerID = owner.ID
		l.OwnerKind = owner.Kind
		out = append(out, l)
	}
	if owner.Kind == entity.KindFinished && bases != 1 {
		return nil, domain.Invalid("item", owner.ID,
			fmt.Sprintf("un terminado requiere exactamente un semielaborado base, tiene %d", bases))
	}
	return &Recipe{Owner: owner, Lines: out}, nil
}

// Expand calcula los requerimientos de componentes para producir qty unidades del dueño.
// Semielaborado: requerido = cantidadPorReferencia * qty / ReferenceBatchSize.
// Terminado: requerido = cantidadPorUnidad * qty.
// Solo dos niveles; no se expanden semielaborados anidados. Sin redondeo.
func (r *Recipe) Expand(qty decimal.Decimal) ([]Requirement, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("item", r.Owner.ID, "la cantidad a producir debe ser mayor que cero")
	}
	reqs := make([]Requirement, 0, len(r.Lines))
	for _, l := range r.Lines {
		var need decimal.Decimal
		if r.Owner.Kind == entity.KindSemiFinished {
			need = l.QuantityPerReferenceUnit.Mul(qty).Div(r.Owner.ReferenceBatchSize)
		} else {
			need = l.QuantityPerReferenceUnit.Mul(qty)
		}
		reqs = append(reqs, Requirement{Key: l.ComponentKey(), Quantity: need})
	}
	return reqs, nil
}

// Base devuelve la línea del semielaborado base (solo terminados).
func (r *Recipe) Base() (entity.BOMLine, bool) {
	for _, l := range r.Lines {
		if l.ComponentKind == entity.KindSemiFinished {
			return l, true
		}
	}
	return entity.BOMLine{}, false
}
