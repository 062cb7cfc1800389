package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// CashSessionRepository define el puerto de persistencia para turnos de caja.
type CashSessionRepository interface {
	Create(session *entity.CashSession) error
	GetByID(id string) (*entity.CashSession, error)
	// GetOpen devuelve el turno abierto o nil si no hay ninguno.
	GetOpen() (*entity.CashSession, error)
	// GetOpenForUpdate bloquea la fila del turno abierto (SELECT FOR UPDATE)
	// para la re-validación check-then-act dentro de la transacción.
	GetOpenForUpdate() (*entity.CashSession, error)
	// NextNumber devuelve el siguiente consecutivo CX. La constraint única
	// sobre number respalda la carrera; ver numbering.
	NextNumber() (string, error)
	Update(session *entity.CashSession) error
	ListClosed(limit, offset int) ([]*entity.CashSession, error)
}
