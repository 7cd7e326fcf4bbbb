package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/boxoffice"
	"github.com/iliyamo/box-office/internal/model"
)

// TicketHandler sells and refunds tickets over HTTP.
type TicketHandler struct {
	office *boxoffice.BoxOffice
	zaplog *zap.Logger
}

func NewTicketHandler(office *boxoffice.BoxOffice, zaplog *zap.Logger) *TicketHandler {
	if zaplog == nil {
		zaplog = zap.NewNop()
	}
	return &TicketHandler{office: office, zaplog: zaplog}
}

type buyReq struct {
	Date       string `json:"date"`
	Period     string `json:"period"`
	Auditorium string `json:"auditorium"`
}

type refundResp struct {
	Serial string     `json:"serial"`
	Refund model.Tier `json:"refund"`
}

// Buy handles POST /v1/tickets.
func (h *TicketHandler) Buy(c echo.Context) error {
	var req buyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Date == "" || req.Period == "" || req.Auditorium == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, period and auditorium required"})
	}

	t, err := h.office.Buy(c.Request().Context(), req.Date, req.Period, req.Auditorium)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Refund handles DELETE /v1/tickets/:serial.
func (h *TicketHandler) Refund(c echo.Context) error {
	serial := c.Param("serial")
	tier, err := h.office.Refund(c.Request().Context(), serial)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, refundResp{Serial: serial, Refund: tier})
}

func (h *TicketHandler) fail(c echo.Context, err error) error {
	return writeError(c, h.zaplog, err)
}

// statusFor maps box office errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case boxoffice.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, boxoffice.ErrOutsideWindow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, boxoffice.ErrSoldOut):
		return http.StatusConflict
	case errors.Is(err, boxoffice.ErrExpired):
		return http.StatusGone
	case errors.Is(err, boxoffice.ErrTicketNotFound),
		errors.Is(err, boxoffice.ErrEventNotFound),
		errors.Is(err, boxoffice.ErrNoData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, zaplog *zap.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		zaplog.Error("box office operation failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(code, echo.Map{"error": "internal error"})
	}
	return c.JSON(code, echo.Map{"error": err.Error()})
}
