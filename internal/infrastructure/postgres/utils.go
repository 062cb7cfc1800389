package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// uniqueViolationConstraint devuelve el nombre de la constraint violada, o "" si
// el error no es un 23505.
func uniqueViolationConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

// mapUniqueViolation traduce violaciones únicas a errores de dominio según la
// constraint: consecutivos duplicados (carrera de numeración) y el índice
// parcial que garantiza un único turno abierto.
func mapUniqueViolation(err error) error {
	switch uniqueViolationConstraint(err) {
	case "uq_sales_number", "uq_cash_sessions_number":
		return domain.ErrNumberConflict
	case "uq_cash_sessions_open":
		return domain.ErrSessionAlreadyOpen
	}
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return nil
}

// nullIfEmpty convierte cadena vacía en NULL para columnas opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
