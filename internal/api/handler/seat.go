package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
)

// SeatHandler は座席の参照・選択操作のハンドラー
type SeatHandler struct {
	engine BookingEngine
}

// NewSeatHandler はSeatHandlerを作成する
func NewSeatHandler(engine BookingEngine) *SeatHandler {
	return &SeatHandler{engine: engine}
}

// SeatListResponse は座席一覧のレスポンス
type SeatListResponse struct {
	Seats   []seat.Snapshot `json:"seats"`
	Summary map[string]int  `json:"summary"`
}

// List は全座席を状態つきで返す
func (h *SeatHandler) List(c echo.Context) error {
	seats := h.engine.Seats()
	summary := make(map[string]int, 4)
	for _, s := range seats {
		summary[string(s.Status)]++
	}
	return c.JSON(http.StatusOK, SeatListResponse{Seats: seats, Summary: summary})
}

// Select は座席を選択状態にする
func (h *SeatHandler) Select(c echo.Context) error {
	seatID := c.Param("id")
	if err := h.engine.SelectSeat(seatID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"seat_id": seatID, "status": string(seat.StatusSelected)})
}

// Deselect は座席の選択を解除する
func (h *SeatHandler) Deselect(c echo.Context) error {
	seatID := c.Param("id")
	if err := h.engine.DeselectSeat(seatID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"seat_id": seatID, "status": string(seat.StatusAvailable)})
}
