package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
)

// Request は1件の予約リクエストを表す
// キューに投入されてから戦略が終了するまでの間だけ存在し、永続化されない
type Request struct {
	ID          string
	UserID      string
	SeatID      string
	RequestedAt time.Time

	// RetryCount は所有する戦略のみが更新する
	RetryCount int

	// Batch はバッチ投入された場合の進捗トラッカー（単発リクエストではnil）
	Batch *Tracker
}

// NewRequest は新しい予約リクエストを作成する
func NewRequest(userID, seatID string) *Request {
	return &Request{
		ID:          uuid.New().String(),
		UserID:      userID,
		SeatID:      seatID,
		RequestedAt: time.Now(),
	}
}

// Outcome は予約処理の終了結果の種別を表す
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeAlreadyBooked Outcome = "already_booked"
	OutcomeConflict      Outcome = "conflict"
	OutcomeLockTimeout   Outcome = "lock_timeout"
	OutcomeInvalidSeat   Outcome = "invalid_seat"
	OutcomeError         Outcome = "error"
)

// OutcomeFor は戦略の終了エラーを結果種別へ分類する
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, seat.ErrSeatAlreadyBooked):
		return OutcomeAlreadyBooked
	case errors.Is(err, seat.ErrMaxRetriesExceeded), errors.Is(err, seat.ErrVersionConflict):
		return OutcomeConflict
	case errors.Is(err, seat.ErrLockTimeout):
		return OutcomeLockTimeout
	case errors.Is(err, seat.ErrSeatNotFound):
		return OutcomeInvalidSeat
	default:
		return OutcomeError
	}
}
