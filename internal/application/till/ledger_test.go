package till_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/till"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/infrastructure/memory"
)

const testActorID = "00000000-0000-0000-0000-000000000001"

func newLedger(t *testing.T) (*till.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return till.NewLedger(store, store.Sessions(), store.CashMovements()), store
}

func TestOpenSession(t *testing.T) {
	ledger, _ := newLedger(t)

	session, err := ledger.OpenSession(context.Background(), testActorID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "CX000001", session.Number)
	assert.Equal(t, entity.SessionOpen, session.Status)
	assert.Equal(t, testActorID, session.OpenedBy)
	assert.True(t, session.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	assert.Nil(t, session.ClosedAt)
}

func TestOpenSession_RechazaSegundoTurnoAbierto(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	_, err := ledger.OpenSession(ctx, testActorID, decimal.Zero)
	require.NoError(t, err)

	_, err = ledger.OpenSession(ctx, testActorID, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)
}

func TestOpenSession_EntradaInvalida(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	_, err := ledger.OpenSession(ctx, "", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.OpenSession(ctx, testActorID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseSession_CalculaSaldoDeCierre(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	_, err := ledger.OpenSession(ctx, testActorID, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = ledger.RecordMovement(ctx, till.MovementInput{
		Kind: entity.CashIn, Amount: decimal.NewFromInt(50),
		PaymentMethod: entity.PaymentCash, ActorID: testActorID,
	})
	require.NoError(t, err)
	_, err = ledger.RecordMovement(ctx, till.MovementInput{
		Kind: entity.CashOut, Amount: decimal.NewFromInt(20),
		PaymentMethod: entity.PaymentCash, Description: "Compra de bolsas", ActorID: testActorID,
	})
	require.NoError(t, err)

	closed, err := ledger.CloseSession(ctx, testActorID, "arqueo sin diferencias")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionClosed, closed.Status)
	assert.Equal(t, testActorID, closed.ClosedBy)
	require.NotNil(t, closed.ClosingBalance)
	// 100 + 50 - 20
	assert.True(t, closed.ClosingBalance.Equal(decimal.NewFromInt(130)))
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, "arqueo sin diferencias", closed.Notes)
}

func TestCloseSession_SinTurnoAbierto(t *testing.T) {
	ledger, _ := newLedger(t)

	_, err := ledger.CloseSession(context.Background(), testActorID, "")
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestRecordMovement_SinTurnoAbierto(t *testing.T) {
	ledger, _ := newLedger(t)

	_, err := ledger.RecordMovement(context.Background(), till.MovementInput{
		Kind: entity.CashIn, Amount: decimal.NewFromInt(10),
		PaymentMethod: entity.PaymentCash, ActorID: testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestRecordMovement_EntradaInvalida(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()
	_, err := ledger.OpenSession(ctx, testActorID, decimal.Zero)
	require.NoError(t, err)

	_, err = ledger.RecordMovement(ctx, till.MovementInput{
		Kind: "retiro", Amount: decimal.NewFromInt(10), ActorID: testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.RecordMovement(ctx, till.MovementInput{
		Kind: entity.CashIn, Amount: decimal.Zero, ActorID: testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStatus_TotalesYDesglosePorFormaDePago(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	_, err := ledger.OpenSession(ctx, testActorID, decimal.NewFromInt(500))
	require.NoError(t, err)

	for _, m := range []till.MovementInput{
		{Kind: entity.CashIn, Amount: decimal.NewFromInt(100), PaymentMethod: entity.PaymentCash, ActorID: testActorID},
		{Kind: entity.CashIn, Amount: decimal.NewFromInt(250), PaymentMethod: entity.PaymentMpesa, ActorID: testActorID},
		{Kind: entity.CashOut, Amount: decimal.NewFromInt(30), PaymentMethod: entity.PaymentCash, ActorID: testActorID},
	} {
		_, err := ledger.RecordMovement(ctx, m)
		require.NoError(t, err)
	}

	status, err := ledger.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.TotalIn.Equal(decimal.NewFromInt(350)))
	assert.True(t, status.TotalOut.Equal(decimal.NewFromInt(30)))
	// 500 + 350 - 30
	assert.True(t, status.CurrentBalance.Equal(decimal.NewFromInt(820)))
	assert.Len(t, status.Movements, 3)
	// Las salidas no entran en el desglose por forma de pago.
	assert.True(t, status.ByMethod[entity.PaymentCash].Equal(decimal.NewFromInt(100)))
	assert.True(t, status.ByMethod[entity.PaymentMpesa].Equal(decimal.NewFromInt(250)))
}

func TestStatus_SinTurnoAbierto(t *testing.T) {
	ledger, _ := newLedger(t)

	_, err := ledger.Status(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestHistory_NumeracionConsecutivaDeTurnos(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := ledger.OpenSession(ctx, testActorID, decimal.Zero)
		require.NoError(t, err)
		_, err = ledger.CloseSession(ctx, testActorID, "")
		require.NoError(t, err)
	}
	third, err := ledger.OpenSession(ctx, testActorID, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "CX000003", third.Number)

	history, err := ledger.History(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, s := range history {
		assert.Equal(t, entity.SessionClosed, s.Status)
	}
}

func TestSessionDetail(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	session, err := ledger.OpenSession(ctx, testActorID, decimal.NewFromInt(200))
	require.NoError(t, err)
	_, err = ledger.RecordMovement(ctx, till.MovementInput{
		Kind: entity.CashIn, Amount: decimal.NewFromInt(75),
		PaymentMethod: entity.PaymentCard, ActorID: testActorID,
	})
	require.NoError(t, err)

	detail, err := ledger.SessionDetail(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Number, detail.Session.Number)
	assert.True(t, detail.CurrentBalance.Equal(decimal.NewFromInt(275)))
	assert.Len(t, detail.Movements, 1)

	_, err = ledger.SessionDetail(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
