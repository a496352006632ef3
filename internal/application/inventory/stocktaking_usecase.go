package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

const stocktakingPrefix = "STK"

// StocktakingUseCase toma física: foto del sistema, conteo y conciliación.
type StocktakingUseCase struct {
	txRunner  TxRunner
	repos     repository.Tx
	log       *logger.Logger
	codeWidth int
}

// NewStocktakingUseCase construye el caso de uso.
func NewStocktakingUseCase(txRunner TxRunner, repos repository.Tx, log *logger.Logger, codeWidth int) *StocktakingUseCase {
	return &StocktakingUseCase{txRunner: txRunner, repos: repos, log: log, codeWidth: codeWidth}
}

// CreateSessionInput entrada para crear una sesión.
type CreateSessionInput struct {
	Scope  entity.StocktakingScope
	Notes  string
	UserID string
}

// CountInput cantidad contada de un ítem.
type CountInput struct {
	ItemID   string
	Quantity decimal.Decimal
}

// ReconcileResult sesión conciliada y los ajustes escritos.
type ReconcileResult struct {
	Session     *entity.StocktakingSession
	Adjustments []*entity.Movement
}

// Create crea la sesión en draft.
func (uc *StocktakingUseCase) Create(ctx context.Context, in CreateSessionInput) (*entity.StocktakingSession, error) {
	return uc.create(ctx, in, false)
}

// StartNew crea la sesión y toma la foto en la misma transacción (queda in_progress).
func (uc *StocktakingUseCase) StartNew(ctx context.Context, in CreateSessionInput) (*entity.StocktakingSession, error) {
	return uc.create(ctx, in, true)
}

func (uc *StocktakingUseCase) create(ctx context.Context, in CreateSessionInput, start bool) (*entity.StocktakingSession, error) {
	if in.Scope.IsEmpty() {
		return nil, domain.Invalid("session", "", "seleccione al menos un tipo de ítem")
	}
	now := time.Now().UTC()
	s := &entity.StocktakingSession{
		ID:        uuid.New().String(),
		Status:    entity.SessionStatusDraft,
		Scope:     in.Scope,
		Notes:     in.Notes,
		CreatedBy: in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		seq, err := tx.Sequences.Next(ctx, domaininv.SequenceKey(stocktakingPrefix))
		if err != nil {
			return domain.Persistence("next session code", err)
		}
		s.Code = domaininv.FormatCode(stocktakingPrefix, seq, uc.codeWidth)
		if start {
			if err := snapshot(ctx, tx, s, now); err != nil {
				return err
			}
		}
		if err := tx.Stocktaking.Create(ctx, s); err != nil {
			return domain.Persistence("create session", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("session", s.Code).Str("status", string(s.Status)).Msg("toma física creada")
	return s, nil
}

// Start toma la foto del stock actual: una línea por ítem del alcance con contado = sistema.
func (uc *StocktakingUseCase) Start(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	var session *entity.StocktakingSession
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		s, err := lockSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.Status != entity.SessionStatusDraft {
			return domain.InvalidTransition("session", s.Code, string(s.Status), string(entity.SessionStatusInProgress))
		}
		if err := snapshot(ctx, tx, s, time.Now().UTC()); err != nil {
			return err
		}
		if err := tx.Stocktaking.Update(ctx, s); err != nil {
			return domain.Persistence("update session", err)
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("session", session.Code).Int("lines", len(session.Lines)).Msg("toma física iniciada")
	return session, nil
}

// Count actualiza cantidades contadas; la diferencia se recalcula en cada edición.
func (uc *StocktakingUseCase) Count(ctx context.Context, id string, entries []CountInput) (*entity.StocktakingSession, error) {
	if len(entries) == 0 {
		return nil, domain.Invalid("session", id, "sin conteos")
	}
	var session *entity.StocktakingSession
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		s, err := lockSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.Status != entity.SessionStatusInProgress {
			return &domain.Error{Kind: domain.ErrInvalidStateTransition, Entity: "session", ID: s.Code,
				Message: "solo se puede contar en in_progress, estado " + string(s.Status)}
		}
		now := time.Now().UTC()
		for i, e := range entries {
			if e.Quantity.LessThan(decimal.Zero) {
				return domain.InvalidLine("count_line", i+1, "la cantidad contada no puede ser negativa")
			}
			line := lineByItem(s, e.ItemID)
			if line == nil {
				return &domain.Error{Kind: domain.ErrNotFound, Entity: "count_line", ID: e.ItemID, Line: i + 1, Message: "el ítem no está en la toma"}
			}
			line.SetCounted(e.Quantity, now)
		}
		s.UpdatedAt = now
		if err := tx.Stocktaking.Update(ctx, s); err != nil {
			return domain.Persistence("update session", err)
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Reconcile escribe un ajuste por cada línea con diferencia y deja OnHand = contado.
// Una segunda llamada falla con ErrInvalidStateTransition sin escribir nada.
func (uc *StocktakingUseCase) Reconcile(ctx context.Context, id, userID string) (*ReconcileResult, error) {
	result := &ReconcileResult{}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		s, err := lockSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.Status != entity.SessionStatusInProgress {
			return domain.InvalidTransition("session", s.Code, string(s.Status), string(entity.SessionStatusCompleted))
		}
		pending := s.Pending()
		keys := make([]entity.ItemKey, 0, len(pending))
		for _, l := range pending {
			keys = append(keys, entity.ItemKey{Kind: l.ItemKind, ID: l.ItemID})
		}
		locked, err := lockItems(ctx, tx, keys)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, l := range pending {
			item := locked[entity.ItemKey{Kind: l.ItemKind, ID: l.ItemID}]
			// el ajuste se mide contra el stock actual para que la cadena de saldos cuadre
			mov, err := post(ctx, tx, item, posting{
				Direction:     entity.DirectionAdjustment,
				Quantity:      l.CountedQuantity.Sub(item.OnHand),
				UnitCost:      item.UnitCost,
				Reason:        "toma física " + s.Code,
				ReferenceType: entity.ReferenceStocktaking,
				ReferenceID:   s.ID,
				CreatedBy:     userID,
				At:            now,
			})
			if err != nil {
				return err
			}
			result.Adjustments = append(result.Adjustments, mov)
		}
		s.Status = entity.SessionStatusCompleted
		s.CompletedAt = &now
		s.UpdatedAt = now
		if err := tx.Stocktaking.Update(ctx, s); err != nil {
			return domain.Persistence("update session", err)
		}
		result.Session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("session", result.Session.Code).Int("adjustments", len(result.Adjustments)).Msg("toma física conciliada")
	return result, nil
}

// Cancel descarta la sesión sin tocar stock.
func (uc *StocktakingUseCase) Cancel(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	var session *entity.StocktakingSession
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		s, err := lockSession(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.Status != entity.SessionStatusDraft && s.Status != entity.SessionStatusInProgress {
			return domain.InvalidTransition("session", s.Code, string(s.Status), string(entity.SessionStatusCancelled))
		}
		now := time.Now().UTC()
		s.Status = entity.SessionStatusCancelled
		s.CancelledAt = &now
		s.UpdatedAt = now
		if err := tx.Stocktaking.Update(ctx, s); err != nil {
			return domain.Persistence("update session", err)
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Get obtiene una sesión con sus líneas.
func (uc *StocktakingUseCase) Get(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	s, err := uc.repos.Stocktaking.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get session", err)
	}
	if s == nil {
		return nil, domain.NotFound("session", id)
	}
	return s, nil
}

// List lista sesiones, las más recientes primero.
func (uc *StocktakingUseCase) List(ctx context.Context, limit, offset int) ([]*entity.StocktakingSession, error) {
	list, err := uc.repos.Stocktaking.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list sessions", err)
	}
	return list, nil
}

func snapshot(ctx context.Context, tx repository.Tx, s *entity.StocktakingSession, now time.Time) error {
	items, err := tx.Items.ListByKinds(ctx, s.Scope.Kinds(), 0, 0)
	if err != nil {
		return domain.Persistence("list items", err)
	}
	s.Lines = make([]entity.CountLine, 0, len(items))
	for _, it := range items {
		s.Lines = append(s.Lines, entity.CountLine{
			ID:              uuid.New().String(),
			ItemKind:        it.Kind,
			ItemID:          it.ID,
			ItemCode:        it.Code,
			ItemName:        it.Name,
			SystemQuantity:  it.OnHand,
			CountedQuantity: it.OnHand,
			Difference:      decimal.Zero,
		})
	}
	s.Status = entity.SessionStatusInProgress
	s.StartedAt = &now
	s.UpdatedAt = now
	return nil
}

func lockSession(ctx context.Context, tx repository.Tx, id string) (*entity.StocktakingSession, error) {
	s, err := tx.Stocktaking.GetForUpdate(ctx, id)
	if err != nil {
		return nil, domain.Persistence("lock session", err)
	}
	if s == nil {
		return nil, domain.NotFound("session", id)
	}
	return s, nil
}

func lineByItem(s *entity.StocktakingSession, itemID string) *entity.CountLine {
	for i := range s.Lines {
		if s.Lines[i].ItemID == itemID {
			return &s.Lines[i]
		}
	}
	return nil
}
