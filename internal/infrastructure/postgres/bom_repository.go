package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo recetas sobre PostgreSQL.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador.
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

func (r *BOMRepo) selectLines(ctx context.Context, where squirrel.Sqlizer, orderBy ...string) ([]entity.BOMLine, error) {
	sql, args, err := psql.Select(
		"id", "owner_id", "owner_kind", "component_id", "component_kind", "quantity_per_reference_unit",
	).From("bom_lines").Where(where).OrderBy(orderBy...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	lines := make([]entity.BOMLine, 0)
	if err := pgxscan.Select(ctx, r.q, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	return lines, nil
}

// ListByOwner receta de un ítem en el orden en que se cargó.
func (r *BOMRepo) ListByOwner(ctx context.Context, ownerID string) ([]entity.BOMLine, error) {
	if !isUUID(ownerID) {
		return []entity.BOMLine{}, nil
	}
	return r.selectLines(ctx, squirrel.Eq{"owner_id": ownerID}, "position")
}

// ListByOwners recetas de varios ítems agrupadas por dueño.
func (r *BOMRepo) ListByOwners(ctx context.Context, ownerIDs []string) (map[string][]entity.BOMLine, error) {
	out := make(map[string][]entity.BOMLine, len(ownerIDs))
	ids := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		if isUUID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}
	lines, err := r.selectLines(ctx, squirrel.Eq{"owner_id": ids}, "owner_id", "position")
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		out[l.OwnerID] = append(out[l.OwnerID], l)
	}
	return out, nil
}

// ListByComponent líneas que consumen el componente (vista "usado en").
func (r *BOMRepo) ListByComponent(ctx context.Context, componentID string) ([]entity.BOMLine, error) {
	if !isUUID(componentID) {
		return []entity.BOMLine{}, nil
	}
	return r.selectLines(ctx, squirrel.Eq{"component_id": componentID}, "owner_id")
}

// ReplaceForOwner borra la receta actual e inserta las líneas nuevas (llamar dentro de una tx).
func (r *BOMRepo) ReplaceForOwner(ctx context.Context, ownerID string, lines []entity.BOMLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bom_lines WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("delete bom lines: %w", err)
	}
	if len(lines) == 0 {
		return nil
	}
	ins := psql.Insert("bom_lines").Columns(
		"id", "owner_id", "owner_kind", "component_id", "component_kind", "quantity_per_reference_unit", "position",
	)
	for i, l := range lines {
		ins = ins.Values(l.ID, ownerID, l.OwnerKind, l.ComponentID, l.ComponentKind, l.QuantityPerReferenceUnit, i+1)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrapWrite("insert bom lines", err)
	}
	return nil
}
