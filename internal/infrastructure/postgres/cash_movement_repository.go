package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo implementación de CashMovementRepository (usable con pool o tx).
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create inserta un movimiento de caja. Append-only.
func (r *CashMovementRepo) Create(m *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, session_id, kind, amount, payment_method, description, sale_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.SessionID, m.Kind, m.Amount, m.PaymentMethod, m.Description,
		nullIfEmpty(m.SaleID), m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// ListBySession movimientos de un turno en orden cronológico.
func (r *CashMovementRepo) ListBySession(sessionID string) ([]*entity.CashMovement, error) {
	query := `
		SELECT id, session_id, kind, amount, payment_method, description, COALESCE(sale_id, ''), created_by, created_at
		FROM cash_movements WHERE session_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(
			&m.ID, &m.SessionID, &m.Kind, &m.Amount, &m.PaymentMethod,
			&m.Description, &m.SaleID, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// SumBySession total de entradas y salidas del turno.
func (r *CashMovementRepo) SumBySession(sessionID string) (in, out decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = $2), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = $3), 0)
		FROM cash_movements WHERE session_id = $1`
	err = r.q.QueryRow(context.Background(), query, sessionID, entity.CashIn, entity.CashOut).Scan(&in, &out)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum cash movements: %w", err)
	}
	return in, out, nil
}

// SumBySessionAndMethod entradas del turno agrupadas por forma de pago.
func (r *CashMovementRepo) SumBySessionAndMethod(sessionID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT payment_method, COALESCE(SUM(amount), 0)
		FROM cash_movements
		WHERE session_id = $1 AND kind = $2
		GROUP BY payment_method`
	rows, err := r.q.Query(context.Background(), query, sessionID, entity.CashIn)
	if err != nil {
		return nil, fmt.Errorf("sum cash movements by method: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var method string
		var total decimal.Decimal
		if err := rows.Scan(&method, &total); err != nil {
			return nil, fmt.Errorf("scan method total: %w", err)
		}
		out[method] = total
	}
	return out, rows.Err()
}
