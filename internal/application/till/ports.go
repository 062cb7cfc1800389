package till

import (
	"context"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de caja atados a esa tx.
type TxRunner interface {
	RunTill(ctx context.Context, fn func(
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
	) error) error
}
