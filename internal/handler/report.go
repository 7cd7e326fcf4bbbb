package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/boxoffice"
	"github.com/iliyamo/box-office/internal/model"
)

// ReportHandler serves the read-only sales reports.
type ReportHandler struct {
	office *boxoffice.BoxOffice
	zaplog *zap.Logger
}

func NewReportHandler(office *boxoffice.BoxOffice, zaplog *zap.Logger) *ReportHandler {
	if zaplog == nil {
		zaplog = zap.NewNop()
	}
	return &ReportHandler{office: office, zaplog: zaplog}
}

type eventResp struct {
	Date       string     `json:"date"`
	Period     string     `json:"period"`
	Auditorium string     `json:"auditorium"`
	Sold       int        `json:"sold"`
	Vacant     int        `json:"vacant"`
	Tier       model.Tier `json:"tier"`
}

// ListEvents handles GET /v1/events.
func (h *ReportHandler) ListEvents(c echo.Context) error {
	summaries := h.office.Events()
	out := make([]eventResp, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, eventResp{
			Date:       s.Key.Date,
			Period:     string(s.Key.Period),
			Auditorium: s.Key.Auditorium,
			Sold:       s.Stats.Sold,
			Vacant:     s.Stats.Vacant,
			Tier:       s.Stats.Tier,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Event handles GET /v1/events/:date/:period/:auditorium.
func (h *ReportHandler) Event(c echo.Context) error {
	stats, err := h.office.ReportEvent(c.Param("date"), c.Param("period"), c.Param("auditorium"))
	if err != nil {
		return writeError(c, h.zaplog, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Day handles GET /v1/days/:date.
func (h *ReportHandler) Day(c echo.Context) error {
	sales, err := h.office.ReportDay(c.Param("date"))
	if err != nil {
		return writeError(c, h.zaplog, err)
	}
	return c.JSON(http.StatusOK, sales)
}
