package handler

import (
	"github.com/sanosuguru/go-seat-booking-engine/internal/application"
	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/journal"
	"github.com/sanosuguru/go-seat-booking-engine/internal/stats"
)

// BookingEngine は予約エンジンのインターフェース
type BookingEngine interface {
	Configure(in application.ConfigureInput) error
	SelectSeat(seatID string) error
	DeselectSeat(seatID string) error
	ProcessBatch(seatIDs []string, userIDFactory func() string) (int, error)
	SimulateUsers(n int) int
	CancelBooking(seatID string) (bool, error)
	Stats() stats.Counters
	Seats() []seat.Snapshot
	Journal(n int) []journal.Entry
	QueueLen() int
	Reset()
}
