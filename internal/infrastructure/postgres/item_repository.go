package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, kind, code, name, unit, on_hand, min_stock, unit_cost, reference_batch_size, created_at, updated_at`

// ItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un ítem nuevo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Kind, item.Code, item.Name, item.Unit, item.OnHand, item.MinStock,
		item.UnitCost, item.ReferenceBatchSize, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("create item", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el ítem bloqueando la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) get(ctx context.Context, query, id string) (*entity.Item, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var it entity.Item
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Kind, &it.Code, &it.Name, &it.Unit, &it.OnHand, &it.MinStock,
		&it.UnitCost, &it.ReferenceBatchSize, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// ListByKinds lista ítems de los tipos dados, ordenados por tipo y código. limit <= 0 = sin límite.
func (r *ItemRepo) ListByKinds(ctx context.Context, kinds []entity.ItemKind, limit, offset int) ([]*entity.Item, error) {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	q := psql.Select(
		"id", "kind", "code", "name", "unit", "on_hand", "min_stock", "unit_cost",
		"reference_batch_size", "created_at", "updated_at",
	).From("items").
		Where(squirrel.Eq{"kind": names}).
		OrderBy("kind", "code")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	// pgxscan mapea columnas snake_case a los campos del struct
	list := make([]*entity.Item, 0)
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

// UpdateStock persiste OnHand, UnitCost y UpdatedAt.
func (r *ItemRepo) UpdateStock(ctx context.Context, item *entity.Item) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET on_hand = $2, unit_cost = $3, updated_at = $4 WHERE id = $1`,
		item.ID, item.OnHand, item.UnitCost, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock: item %s no existe", item.ID)
	}
	return nil
}
