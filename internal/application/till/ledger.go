package till

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// maxNumberRetries reintentos ante colisión del consecutivo CX.
const maxNumberRetries = 3

// Ledger gestiona turnos de caja y sus movimientos de efectivo.
// El saldo del turno nunca se materializa movimiento a movimiento: se calcula
// en lectura y se fija una sola vez al cerrar.
type Ledger struct {
	txRunner    TxRunner
	sessionRepo repository.CashSessionRepository
	movRepo     repository.CashMovementRepository
}

// NewLedger construye el libro de caja. sessionRepo y movRepo atados al pool
// (solo lecturas); las escrituras pasan por txRunner.
func NewLedger(txRunner TxRunner, sessionRepo repository.CashSessionRepository, movRepo repository.CashMovementRepository) *Ledger {
	return &Ledger{txRunner: txRunner, sessionRepo: sessionRepo, movRepo: movRepo}
}

// OpenSession abre un nuevo turno. Falla con ErrSessionAlreadyOpen si ya hay
// uno abierto: chequeo en aplicación más índice parcial único en BD, porque dos
// aperturas concurrentes podrían pasar ambas el chequeo de lectura.
func (l *Ledger) OpenSession(ctx context.Context, actorID string, openingBalance decimal.Decimal) (*entity.CashSession, error) {
	if actorID == "" || openingBalance.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var session *entity.CashSession
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		err := l.txRunner.RunTill(ctx, func(
			sessionRepo repository.CashSessionRepository,
			movRepo repository.CashMovementRepository,
		) error {
			open, err := sessionRepo.GetOpenForUpdate()
			if err != nil {
				return err
			}
			if open != nil {
				return domain.ErrSessionAlreadyOpen
			}
			number, err := sessionRepo.NextNumber()
			if err != nil {
				return err
			}
			session = &entity.CashSession{
				ID:             uuid.New().String(),
				Number:         number,
				OpenedAt:       time.Now(),
				OpenedBy:       actorID,
				OpeningBalance: openingBalance,
				Status:         entity.SessionOpen,
			}
			return sessionRepo.Create(session)
		})
		if errors.Is(err, domain.ErrNumberConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return session, nil
	}
	return nil, fmt.Errorf("abrir turno: agotados los reintentos de numeración: %w", domain.ErrStorageFailure)
}

// CloseSession cierra el turno abierto. Saldo de cierre = apertura + entradas
// - salidas, calculado sobre los movimientos del turno.
func (l *Ledger) CloseSession(ctx context.Context, actorID, notes string) (*entity.CashSession, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	var session *entity.CashSession
	err := l.txRunner.RunTill(ctx, func(
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
	) error {
		var err error
		session, err = sessionRepo.GetOpenForUpdate()
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNoOpenSession
		}
		in, out, err := movRepo.SumBySession(session.ID)
		if err != nil {
			return err
		}
		closing := session.OpeningBalance.Add(in).Sub(out)
		now := time.Now()
		session.ClosingBalance = &closing
		session.ClosedAt = &now
		session.ClosedBy = actorID
		session.Status = entity.SessionClosed
		session.Notes = notes
		return sessionRepo.Update(session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// MovementInput entrada para registrar un movimiento de caja.
type MovementInput struct {
	Kind          string // entrada, salida
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
	ActorID       string
	SaleID        string // opcional: venta vinculada
}

func (in MovementInput) validate() error {
	if in.Kind != entity.CashIn && in.Kind != entity.CashOut {
		return domain.ErrInvalidInput
	}
	// Monto cero permitido: una venta totalmente descontada igual registra su
	// movimiento. Los movimientos manuales exigen monto positivo aparte.
	if in.Amount.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// RecordMovement registra un movimiento manual contra el turno abierto.
// Re-verifica el turno con bloqueo de fila dentro de la transacción: pudo
// cerrarse entre la lectura del caller y la escritura.
func (l *Ledger) RecordMovement(ctx context.Context, in MovementInput) (*entity.CashMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.CashMovement
	err := l.txRunner.RunTill(ctx, func(
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
	) error {
		session, err := sessionRepo.GetOpenForUpdate()
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNoOpenSession
		}
		mov, err = l.RecordInTx(movRepo, session, in, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordInTx registra un movimiento usando los repositorios del caller (misma
// transacción). Lo usa el flujo de venta. El caller ya tiene el turno
// bloqueado; aquí solo se re-verifica el estado.
func (l *Ledger) RecordInTx(
	movRepo repository.CashMovementRepository,
	session *entity.CashSession,
	in MovementInput,
	now time.Time,
) (*entity.CashMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if session == nil || session.Status != entity.SessionOpen {
		return nil, domain.ErrNoOpenSession
	}
	mov := &entity.CashMovement{
		ID:            uuid.New().String(),
		SessionID:     session.ID,
		Kind:          in.Kind,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Description:   in.Description,
		SaleID:        in.SaleID,
		CreatedBy:     in.ActorID,
		CreatedAt:     now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Status devuelve el turno abierto con totales corrientes y desglose por forma
// de pago, o ErrNoOpenSession si no hay ninguno.
func (l *Ledger) Status(ctx context.Context) (*dto.SessionStatusResponse, error) {
	session, err := l.sessionRepo.GetOpen()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoOpenSession
	}
	movs, err := l.movRepo.ListBySession(session.ID)
	if err != nil {
		return nil, err
	}
	in, out, err := l.movRepo.SumBySession(session.ID)
	if err != nil {
		return nil, err
	}
	byMethod, err := l.movRepo.SumBySessionAndMethod(session.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SessionStatusResponse{
		Session:        ToSessionResponse(session),
		TotalIn:        in,
		TotalOut:       out,
		CurrentBalance: session.OpeningBalance.Add(in).Sub(out),
		ByMethod:       byMethod,
		Movements:      make([]dto.CashMovementResponse, 0, len(movs)),
	}
	for _, m := range movs {
		resp.Movements = append(resp.Movements, ToMovementResponse(m))
	}
	return resp, nil
}

// History últimos turnos cerrados.
func (l *Ledger) History(ctx context.Context, page dto.PageRequest) ([]dto.SessionResponse, error) {
	page.DefaultPage()
	sessions, err := l.sessionRepo.ListClosed(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ToSessionResponse(s))
	}
	return out, nil
}

// SessionDetail turno por ID con sus movimientos y totales.
func (l *Ledger) SessionDetail(ctx context.Context, id string) (*dto.SessionStatusResponse, error) {
	session, err := l.sessionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := l.movRepo.ListBySession(session.ID)
	if err != nil {
		return nil, err
	}
	in, out, err := l.movRepo.SumBySession(session.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SessionStatusResponse{
		Session:        ToSessionResponse(session),
		TotalIn:        in,
		TotalOut:       out,
		CurrentBalance: session.OpeningBalance.Add(in).Sub(out),
		Movements:      make([]dto.CashMovementResponse, 0, len(movs)),
	}
	for _, m := range movs {
		resp.Movements = append(resp.Movements, ToMovementResponse(m))
	}
	return resp, nil
}

// ToSessionResponse mapea el turno a su representación HTTP.
func ToSessionResponse(s *entity.CashSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:             s.ID,
		Number:         s.Number,
		Status:         s.Status,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
		OpenedBy:       s.OpenedBy,
		ClosedBy:       s.ClosedBy,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		Notes:          s.Notes,
	}
}

// ToMovementResponse mapea el movimiento a su representación HTTP.
func ToMovementResponse(m *entity.CashMovement) dto.CashMovementResponse {
	return dto.CashMovementResponse{
		ID:            m.ID,
		SessionID:     m.SessionID,
		Kind:          m.Kind,
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
		Description:   m.Description,
		SaleID:        m.SaleID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
