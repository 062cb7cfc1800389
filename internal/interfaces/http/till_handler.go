package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/till"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
)

// TillHandler maneja los turnos de caja y sus movimientos (protegido).
type TillHandler struct {
	ledger *till.Ledger
}

// NewTillHandler construye el handler.
func NewTillHandler(ledger *till.Ledger) *TillHandler {
	return &TillHandler{ledger: ledger}
}

// Open godoc
// @Summary      Abrir turno de caja
// @Tags         till
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "opening_balance"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/till/open [post]
func (h *TillHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.ledger.OpenSession(c.Context(), GetUserID(c), in.OpeningBalance)
	if err != nil {
		if errors.Is(err, domain.ErrSessionAlreadyOpen) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_OPEN", Message: "ya hay un turno abierto"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "saldo de apertura inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(till.ToSessionResponse(session))
}

// Close godoc
// @Summary      Cerrar el turno abierto
// @Description  Calcula el saldo de cierre: apertura + entradas - salidas.
// @Tags         till
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseSessionRequest  true  "notes"
// @Success      200   {object}  dto.SessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/till/close [post]
func (h *TillHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.ledger.CloseSession(c.Context(), GetUserID(c), in.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrNoOpenSession) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "no hay turno abierto"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(till.ToSessionResponse(session))
}

// Status godoc
// @Summary      Turno abierto con totales corrientes
// @Tags         till
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionStatusResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/till/status [get]
func (h *TillHandler) Status(c *fiber.Ctx) error {
	out, err := h.ledger.Status(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoOpenSession) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "no hay turno abierto"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Movement godoc
// @Summary      Registrar movimiento manual de caja
// @Tags         till
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CashMovementRequest  true  "kind, amount, payment_method, description"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/till/movements [post]
func (h *TillHandler) Movement(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.ledger.RecordMovement(c.Context(), till.MovementInput{
		Kind:          in.Kind,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Description:   in.Description,
		ActorID:       GetUserID(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "movimiento inválido"})
		}
		if errors.Is(err, domain.ErrNoOpenSession) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "no hay turno abierto"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(till.ToMovementResponse(movement))
}

// History godoc
// @Summary      Historial de turnos cerrados
// @Tags         till
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.SessionResponse
// @Router       /api/till/sessions [get]
func (h *TillHandler) History(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.ledger.History(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SessionDetail godoc
// @Summary      Detalle de un turno con movimientos y totales
// @Tags         till
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del turno"
// @Success      200  {object}  dto.SessionStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/till/sessions/{id} [get]
func (h *TillHandler) SessionDetail(c *fiber.Ctx) error {
	out, err := h.ledger.SessionDetail(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "turno no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
