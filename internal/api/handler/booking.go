package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// BookingHandler は予約処理・統計のハンドラー
type BookingHandler struct {
	engine BookingEngine
}

// NewBookingHandler はBookingHandlerを作成する
func NewBookingHandler(engine BookingEngine) *BookingHandler {
	return &BookingHandler{engine: engine}
}

// ProcessBatchRequest はバッチ処理のリクエスト
type ProcessBatchRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1,dive,required"`
}

// ProcessBatchResponse はバッチ処理のレスポンス
type ProcessBatchResponse struct {
	Enqueued int `json:"enqueued"`
}

// ProcessBatch は選択済み座席の予約処理を非同期で開始する
func (h *BookingHandler) ProcessBatch(c echo.Context) error {
	var req ProcessBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	enqueued, err := h.engine.ProcessBatch(req.SeatIDs, nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, ProcessBatchResponse{Enqueued: enqueued})
}

// SimulateRequest は模擬ユーザー投入のリクエスト
type SimulateRequest struct {
	Count int `json:"count" validate:"required,min=1,max=1000"`
}

// Simulate はランダム座席への予約リクエストを投入する
func (h *BookingHandler) Simulate(c echo.Context) error {
	var req SimulateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	enqueued := h.engine.SimulateUsers(req.Count)
	return c.JSON(http.StatusAccepted, ProcessBatchResponse{Enqueued: enqueued})
}

// CancelResponse はキャンセルのレスポンス
type CancelResponse struct {
	SeatID    string `json:"seat_id"`
	Cancelled bool   `json:"cancelled"`
}

// Cancel は予約済み座席をキャンセルする
func (h *BookingHandler) Cancel(c echo.Context) error {
	seatID := c.Param("seat_id")
	cancelled, err := h.engine.CancelBooking(seatID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CancelResponse{SeatID: seatID, Cancelled: cancelled})
}

// StatsResponse は統計のレスポンス
type StatsResponse struct {
	SuccessfulBookings int64   `json:"successful_bookings"`
	FailedBookings     int64   `json:"failed_bookings"`
	Conflicts          int64   `json:"conflicts"`
	Retries            int64   `json:"retries"`
	SuccessRate        float64 `json:"success_rate"`
	QueueLength        int     `json:"queue_length"`
}

// Stats は統計カウンタのスナップショットを返す
func (h *BookingHandler) Stats(c echo.Context) error {
	s := h.engine.Stats()
	return c.JSON(http.StatusOK, StatsResponse{
		SuccessfulBookings: s.SuccessfulBookings,
		FailedBookings:     s.FailedBookings,
		Conflicts:          s.Conflicts,
		Retries:            s.Retries,
		SuccessRate:        s.SuccessRate(),
		QueueLength:        h.engine.QueueLen(),
	})
}

// Journal はトランザクションログを新しい順に返す
func (h *BookingHandler) Journal(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": h.engine.Journal(limit),
	})
}
