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

var _ repository.ConversionOrderRepository = (*ConversionOrderRepo)(nil)

// ConversionOrderRepo órdenes de producción y empaque sobre PostgreSQL.
type ConversionOrderRepo struct {
	q Querier
}

// NewConversionOrderRepository construye el adaptador.
func NewConversionOrderRepository(q Querier) *ConversionOrderRepo {
	return &ConversionOrderRepo{q: q}
}

type orderRow struct {
	ID          string          `db:"id"`
	Code        string          `db:"code"`
	Type        string          `db:"type"`
	Date        time.Time       `db:"date"`
	Status      string          `db:"status"`
	TotalCost   decimal.Decimal `db:"total_cost"`
	Notes       string          `db:"notes"`
	CreatedBy   *string         `db:"created_by"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
	CancelledAt *time.Time      `db:"cancelled_at"`
}

func (r orderRow) toEntity() *entity.ConversionOrder {
	return &entity.ConversionOrder{
		ID:          r.ID,
		Code:        r.Code,
		Type:        entity.OrderType(r.Type),
		Date:        r.Date,
		Status:      entity.OrderStatus(r.Status),
		TotalCost:   r.TotalCost,
		Notes:       r.Notes,
		CreatedBy:   deref(r.CreatedBy),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CompletedAt: r.CompletedAt,
		CancelledAt: r.CancelledAt,
	}
}

type orderLineRow struct {
	ID           string          `db:"id"`
	OrderID      string          `db:"order_id"`
	OutputItemID string          `db:"output_item_id"`
	Quantity     decimal.Decimal `db:"quantity"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	TotalCost    decimal.Decimal `db:"total_cost"`
}

type consumptionRow struct {
	OrderID       string          `db:"order_id"`
	LineID        string          `db:"line_id"`
	ComponentKind string          `db:"component_kind"`
	ComponentID   string          `db:"component_id"`
	Quantity      decimal.Decimal `db:"quantity"`
}

var orderColumns = []string{
	"id", "code", "type", "date", "status", "total_cost", "notes",
	"created_by", "created_at", "updated_at", "completed_at", "cancelled_at",
}

// Create persiste cabecera y líneas (llamar dentro de una tx).
func (r *ConversionOrderRepo) Create(ctx context.Context, o *entity.ConversionOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO conversion_orders (id, code, type, date, status, total_cost, notes,
			created_by, created_at, updated_at, completed_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.Code, o.Type, o.Date, o.Status, o.TotalCost, o.Notes,
		nullable(o.CreatedBy), o.CreatedAt, o.UpdatedAt, o.CompletedAt, o.CancelledAt,
	)
	if err != nil {
		return wrapWrite("create conversion order", err)
	}
	return r.insertDetail(ctx, o)
}

// GetByID obtiene la orden con líneas y consumo; (nil, nil) si no existe.
func (r *ConversionOrderRepo) GetByID(ctx context.Context, id string) (*entity.ConversionOrder, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *ConversionOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ConversionOrder, error) {
	return r.getOne(ctx, id, true)
}

func (r *ConversionOrderRepo) getOne(ctx context.Context, id string, lock bool) (*entity.ConversionOrder, error) {
	if !isUUID(id) {
		return nil, nil
	}
	q := psql.Select(orderColumns...).From("conversion_orders").Where(squirrel.Eq{"id": id})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	list, err := r.selectOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Update reescribe cabecera, líneas y consumo.
func (r *ConversionOrderRepo) Update(ctx context.Context, o *entity.ConversionOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE conversion_orders
		SET status = $2, total_cost = $3, notes = $4, updated_at = $5, completed_at = $6, cancelled_at = $7
		WHERE id = $1`,
		o.ID, o.Status, o.TotalCost, o.Notes, o.UpdatedAt, o.CompletedAt, o.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update conversion order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update conversion order: orden %s no existe", o.ID)
	}
	// el consumo cae en cascada con las líneas
	if _, err := r.q.Exec(ctx, `DELETE FROM conversion_order_lines WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	return r.insertDetail(ctx, o)
}

// List más recientes primero.
func (r *ConversionOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.ConversionOrder, error) {
	q := psql.Select(orderColumns...).From("conversion_orders").OrderBy("created_at DESC", "code DESC")
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": string(f.Type)})
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where(squirrel.Eq{"status": statuses})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return r.selectOrders(ctx, q)
}

// ListOpen órdenes pending/in_progress en orden de creación.
func (r *ConversionOrderRepo) ListOpen(ctx context.Context) ([]*entity.ConversionOrder, error) {
	q := psql.Select(orderColumns...).From("conversion_orders").
		Where(squirrel.Eq{"status": []string{string(entity.OrderStatusPending), string(entity.OrderStatusInProgress)}}).
		OrderBy("created_at", "code")
	return r.selectOrders(ctx, q)
}

func (r *ConversionOrderRepo) selectOrders(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.ConversionOrder, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []orderRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list conversion orders: %w", err)
	}
	out := make([]*entity.ConversionOrder, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	byID := make(map[string]*entity.ConversionOrder, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		o := row.toEntity()
		byID[o.ID] = o
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	if err := r.loadDetail(ctx, ids, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ConversionOrderRepo) loadDetail(ctx context.Context, ids []string, byID map[string]*entity.ConversionOrder) error {
	sql, args, err := psql.Select("id", "order_id", "output_item_id", "quantity", "unit_cost", "total_cost").
		From("conversion_order_lines").Where(squirrel.Eq{"order_id": ids}).
		OrderBy("order_id", "position").ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	var lines []orderLineRow
	if err := pgxscan.Select(ctx, r.q, &lines, sql, args...); err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	for _, l := range lines {
		o := byID[l.OrderID]
		o.Lines = append(o.Lines, entity.ConversionOrderLine{
			ID:           l.ID,
			OutputItemID: l.OutputItemID,
			Quantity:     l.Quantity,
			UnitCost:     l.UnitCost,
			TotalCost:    l.TotalCost,
		})
	}

	sql, args, err = psql.Select("order_id", "line_id", "component_kind", "component_id", "quantity").
		From("conversion_order_consumption").Where(squirrel.Eq{"order_id": ids}).
		OrderBy("order_id", "position").ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	var consumed []consumptionRow
	if err := pgxscan.Select(ctx, r.q, &consumed, sql, args...); err != nil {
		return fmt.Errorf("list order consumption: %w", err)
	}
	for _, c := range consumed {
		o := byID[c.OrderID]
		o.Consumption = append(o.Consumption, entity.ConsumptionEntry{
			LineID:        c.LineID,
			ComponentKind: entity.ItemKind(c.ComponentKind),
			ComponentID:   c.ComponentID,
			Quantity:      c.Quantity,
		})
	}
	return nil
}

func (r *ConversionOrderRepo) insertDetail(ctx context.Context, o *entity.ConversionOrder) error {
	if len(o.Lines) > 0 {
		ins := psql.Insert("conversion_order_lines").
			Columns("id", "order_id", "position", "output_item_id", "quantity", "unit_cost", "total_cost")
		for i, l := range o.Lines {
			ins = ins.Values(l.ID, o.ID, i+1, l.OutputItemID, l.Quantity, l.UnitCost, l.TotalCost)
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := r.q.Exec(ctx, sql, args...); err != nil {
			return wrapWrite("insert order lines", err)
		}
	}
	if len(o.Consumption) > 0 {
		ins := psql.Insert("conversion_order_consumption").
			Columns("order_id", "line_id", "position", "component_kind", "component_id", "quantity")
		for i, c := range o.Consumption {
			ins = ins.Values(o.ID, c.LineID, i+1, c.ComponentKind, c.ComponentID, c.Quantity)
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := r.q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert order consumption: %w", err)
		}
	}
	return nil
}
