package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos (solo inserción).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

type movementRow struct {
	ID              string          `db:"id"`
	ItemKind        string          `db:"item_kind"`
	ItemID          string          `db:"item_id"`
	Direction       string          `db:"direction"`
	Quantity        decimal.Decimal `db:"quantity"`
	PreviousBalance decimal.Decimal `db:"previous_balance"`
	NewBalance      decimal.Decimal `db:"new_balance"`
	UnitCost        decimal.Decimal `db:"unit_cost"`
	Reason          string          `db:"reason"`
	ReferenceType   string          `db:"reference_type"`
	ReferenceID     string          `db:"reference_id"`
	CreatedBy       *string         `db:"created_by"`
	CreatedAt       time.Time       `db:"created_at"`
}

var movementColumns = []string{
	"id", "item_kind", "item_id", "direction", "quantity", "previous_balance", "new_balance",
	"unit_cost", "reason", "reference_type", "reference_id", "created_by", "created_at",
}

// Create registra un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	sql, args, err := psql.Insert("stock_movements").Columns(movementColumns...).Values(
		m.ID, m.ItemKind, m.ItemID, m.Direction, m.Quantity, m.PreviousBalance, m.NewBalance,
		m.UnitCost, m.Reason, m.ReferenceType, m.ReferenceID, nullable(m.CreatedBy), m.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrapWrite("create movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !isUUID(id) {
		return nil, nil
	}
	list, err := r.list(ctx, psql.Select(movementColumns...).From("stock_movements").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List movimientos en orden de registro.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	q := psql.Select(movementColumns...).From("stock_movements").OrderBy("seq")
	if f.ItemID != "" {
		q = q.Where(squirrel.Eq{"item_id": f.ItemID})
	}
	if f.ReferenceType != "" {
		q = q.Where(squirrel.Eq{"reference_type": f.ReferenceType})
	}
	if f.ReferenceID != "" {
		q = q.Where(squirrel.Eq{"reference_id": f.ReferenceID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return r.list(ctx, q)
}

func (r *MovementRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Movement{
			ID:              row.ID,
			ItemKind:        entity.ItemKind(row.ItemKind),
			ItemID:          row.ItemID,
			Direction:       row.Direction,
			Quantity:        row.Quantity,
			PreviousBalance: row.PreviousBalance,
			NewBalance:      row.NewBalance,
			UnitCost:        row.UnitCost,
			Reason:          row.Reason,
			ReferenceType:   row.ReferenceType,
			ReferenceID:     row.ReferenceID,
			CreatedBy:       deref(row.CreatedBy),
			CreatedAt:       row.CreatedAt,
		})
	}
	return out, nil
}
