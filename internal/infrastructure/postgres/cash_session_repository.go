package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/numbering"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

const cashSessionSelect = `id, number, opened_at, closed_at, opened_by, COALESCE(closed_by, ''), opening_balance, closing_balance, status, notes`

// CashSessionRepo implementación de CashSessionRepository (usable con pool o tx).
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

func scanCashSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	err := row.Scan(
		&s.ID, &s.Number, &s.OpenedAt, &s.ClosedAt, &s.OpenedBy, &s.ClosedBy,
		&s.OpeningBalance, &s.ClosingBalance, &s.Status, &s.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta un turno. El índice parcial único sobre status='abierto' y la
// constraint única sobre number traducen las carreras a errores de dominio.
func (r *CashSessionRepo) Create(session *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (id, number, opened_at, closed_at, opened_by, closed_by, opening_balance, closing_balance, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.Number, session.OpenedAt, session.ClosedAt,
		session.OpenedBy, nullIfEmpty(session.ClosedBy),
		session.OpeningBalance, session.ClosingBalance, session.Status, session.Notes,
	)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert cash session: %w", err)
	}
	return nil
}

// GetByID obtiene un turno por ID.
func (r *CashSessionRepo) GetByID(id string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionSelect + ` FROM cash_sessions WHERE id = $1`
	s, err := scanCashSession(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash session: %w", err)
	}
	return s, nil
}

// GetOpen devuelve el turno abierto o nil.
func (r *CashSessionRepo) GetOpen() (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionSelect + ` FROM cash_sessions WHERE status = $1`
	s, err := scanCashSession(r.q.QueryRow(context.Background(), query, entity.SessionOpen))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open cash session: %w", err)
	}
	return s, nil
}

// GetOpenForUpdate bloquea la fila del turno abierto. Solo dentro de una tx.
func (r *CashSessionRepo) GetOpenForUpdate() (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionSelect + ` FROM cash_sessions WHERE status = $1 FOR UPDATE`
	s, err := scanCashSession(r.q.QueryRow(context.Background(), query, entity.SessionOpen))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open cash session for update: %w", err)
	}
	return s, nil
}

// NextNumber siguiente consecutivo CX. La constraint única sobre number cubre
// la carrera entre el MAX y el INSERT.
func (r *CashSessionRepo) NextNumber() (string, error) {
	var last int64
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM 3) AS BIGINT)), 0)
		FROM cash_sessions`,
	).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("next cash session number: %w", err)
	}
	return numbering.Format(entity.SessionNumberPrefix, last+1), nil
}

// Update actualiza el turno (cierre).
func (r *CashSessionRepo) Update(session *entity.CashSession) error {
	query := `
		UPDATE cash_sessions
		SET closed_at = $2, closed_by = $3, closing_balance = $4, status = $5, notes = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.ClosedAt, nullIfEmpty(session.ClosedBy),
		session.ClosingBalance, session.Status, session.Notes,
	)
	if err != nil {
		return fmt.Errorf("update cash session: %w", err)
	}
	return nil
}

// ListClosed historial de turnos cerrados, más reciente primero.
func (r *CashSessionRepo) ListClosed(limit, offset int) ([]*entity.CashSession, error) {
	query := `
		SELECT ` + cashSessionSelect + `
		FROM cash_sessions WHERE status = $1
		ORDER BY opened_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, entity.SessionClosed, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list closed cash sessions: %w", err)
	}
	defer rows.Close()
	var out []*entity.CashSession
	for rows.Next() {
		s, err := scanCashSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
