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

var _ repository.StocktakingRepository = (*StocktakingRepo)(nil)

// StocktakingRepo tomas físicas sobre PostgreSQL.
type StocktakingRepo struct {
	q Querier
}

// NewStocktakingRepository construye el adaptador.
func NewStocktakingRepository(q Querier) *StocktakingRepo {
	return &StocktakingRepo{q: q}
}

type sessionRow struct {
	ID                string     `db:"id"`
	Code              string     `db:"code"`
	Status            string     `db:"status"`
	ScopeRaw          bool       `db:"scope_raw"`
	ScopePackaging    bool       `db:"scope_packaging"`
	ScopeSemiFinished bool       `db:"scope_semi_finished"`
	ScopeFinished     bool       `db:"scope_finished"`
	Notes             string     `db:"notes"`
	CreatedBy         *string    `db:"created_by"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	StartedAt         *time.Time `db:"started_at"`
	CompletedAt       *time.Time `db:"completed_at"`
	CancelledAt       *time.Time `db:"cancelled_at"`
}

type countLineRow struct {
	ID              string          `db:"id"`
	SessionID       string          `db:"session_id"`
	ItemKind        string          `db:"item_kind"`
	ItemID          string          `db:"item_id"`
	ItemCode        string          `db:"item_code"`
	ItemName        string          `db:"item_name"`
	SystemQuantity  decimal.Decimal `db:"system_quantity"`
	CountedQuantity decimal.Decimal `db:"counted_quantity"`
	Difference      decimal.Decimal `db:"difference"`
	CountedAt       *time.Time      `db:"counted_at"`
}

var sessionColumns = []string{
	"id", "code", "status", "scope_raw", "scope_packaging", "scope_semi_finished", "scope_finished",
	"notes", "created_by", "created_at", "updated_at", "started_at", "completed_at", "cancelled_at",
}

// Create persiste la sesión y sus líneas (si ya se tomó la foto).
func (r *StocktakingRepo) Create(ctx context.Context, s *entity.StocktakingSession) error {
	sql, args, err := psql.Insert("stocktaking_sessions").Columns(sessionColumns...).Values(
		s.ID, s.Code, s.Status, s.Scope.RawMaterials, s.Scope.PackagingMaterials, s.Scope.SemiFinished, s.Scope.Finished,
		s.Notes, nullable(s.CreatedBy), s.CreatedAt, s.UpdatedAt, s.StartedAt, s.CompletedAt, s.CancelledAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrapWrite("create stocktaking session", err)
	}
	return r.insertLines(ctx, s)
}

func (r *StocktakingRepo) GetByID(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate bloquea la cabecera de la sesión.
func (r *StocktakingRepo) GetForUpdate(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	return r.getOne(ctx, id, true)
}

func (r *StocktakingRepo) getOne(ctx context.Context, id string, lock bool) (*entity.StocktakingSession, error) {
	if !isUUID(id) {
		return nil, nil
	}
	q := psql.Select(sessionColumns...).From("stocktaking_sessions").Where(squirrel.Eq{"id": id})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	list, err := r.selectSessions(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Update reescribe la cabecera y reemplaza las líneas.
func (r *StocktakingRepo) Update(ctx context.Context, s *entity.StocktakingSession) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stocktaking_sessions
		SET status = $2, notes = $3, updated_at = $4, started_at = $5, completed_at = $6, cancelled_at = $7
		WHERE id = $1`,
		s.ID, s.Status, s.Notes, s.UpdatedAt, s.StartedAt, s.CompletedAt, s.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update stocktaking session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stocktaking session: sesión %s no existe", s.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM stocktaking_lines WHERE session_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete stocktaking lines: %w", err)
	}
	return r.insertLines(ctx, s)
}

// List sesiones más recientes primero.
func (r *StocktakingRepo) List(ctx context.Context, limit, offset int) ([]*entity.StocktakingSession, error) {
	q := psql.Select(sessionColumns...).From("stocktaking_sessions").OrderBy("created_at DESC", "code DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return r.selectSessions(ctx, q)
}

func (r *StocktakingRepo) selectSessions(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.StocktakingSession, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []sessionRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list stocktaking sessions: %w", err)
	}
	out := make([]*entity.StocktakingSession, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	byID := make(map[string]*entity.StocktakingSession, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		s := &entity.StocktakingSession{
			ID:     row.ID,
			Code:   row.Code,
			Status: entity.SessionStatus(row.Status),
			Scope: entity.StocktakingScope{
				RawMaterials:       row.ScopeRaw,
				PackagingMaterials: row.ScopePackaging,
				SemiFinished:       row.ScopeSemiFinished,
				Finished:           row.ScopeFinished,
			},
			Notes:       row.Notes,
			CreatedBy:   deref(row.CreatedBy),
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			StartedAt:   row.StartedAt,
			CompletedAt: row.CompletedAt,
			CancelledAt: row.CancelledAt,
		}
		byID[s.ID] = s
		ids = append(ids, s.ID)
		out = append(out, s)
	}

	sql, args, err = psql.Select(
		"id", "session_id", "item_kind", "item_id", "item_code", "item_name",
		"system_quantity", "counted_quantity", "difference", "counted_at",
	).From("stocktaking_lines").Where(squirrel.Eq{"session_id": ids}).OrderBy("session_id", "position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var lines []countLineRow
	if err := pgxscan.Select(ctx, r.q, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("list stocktaking lines: %w", err)
	}
	for _, l := range lines {
		s := byID[l.SessionID]
		s.Lines = append(s.Lines, entity.CountLine{
			ID:              l.ID,
			ItemKind:        entity.ItemKind(l.ItemKind),
			ItemID:          l.ItemID,
			ItemCode:        l.ItemCode,
			ItemName:        l.ItemName,
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
			Difference:      l.Difference,
			CountedAt:       l.CountedAt,
		})
	}
	return out, nil
}

func (r *StocktakingRepo) insertLines(ctx context.Context, s *entity.StocktakingSession) error {
	if len(s.Lines) == 0 {
		return nil
	}
	ins := psql.Insert("stocktaking_lines").Columns(
		"id", "session_id", "position", "item_kind", "item_id", "item_code", "item_name",
		"system_quantity", "counted_quantity", "difference", "counted_at",
	)
	for i, l := range s.Lines {
		ins = ins.Values(l.ID, s.ID, i+1, l.ItemKind, l.ItemID, l.ItemCode, l.ItemName,
			l.SystemQuantity, l.CountedQuantity, l.Difference, l.CountedAt)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrapWrite("insert stocktaking lines", err)
	}
	return nil
}
