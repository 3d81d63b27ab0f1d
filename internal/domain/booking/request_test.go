package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest("user-1", "A1")

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, "A1", req.SeatID)
	assert.False(t, req.RequestedAt.IsZero())
	assert.Equal(t, 0, req.RetryCount)
	assert.Nil(t, req.Batch)

	// リクエストIDは一意
	other := NewRequest("user-1", "A1")
	assert.NotEqual(t, req.ID, other.ID)
}

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Outcome
	}{
		{"成功", nil, OutcomeSuccess},
		{"予約済み", seat.ErrSeatAlreadyBooked, OutcomeAlreadyBooked},
		{"リトライ上限", seat.ErrMaxRetriesExceeded, OutcomeConflict},
		{"バージョン競合", seat.ErrVersionConflict, OutcomeConflict},
		{"ロックタイムアウト", seat.ErrLockTimeout, OutcomeLockTimeout},
		{"座席なし", seat.ErrSeatNotFound, OutcomeInvalidSeat},
		{"キャンセル", context.Canceled, OutcomeError},
		{"その他", errors.New("boom"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutcomeFor(tt.err))
		})
	}
}

func TestTracker(t *testing.T) {
	t.Run("完了率は0から100まで進む", func(t *testing.T) {
		tr := NewTracker(4)
		assert.Equal(t, 0, tr.Percent())
		assert.False(t, tr.Completed())

		assert.Equal(t, 25, tr.Done())
		assert.Equal(t, 50, tr.Done())
		assert.Equal(t, 75, tr.Done())
		assert.Equal(t, 100, tr.Done())
		assert.True(t, tr.Completed())
	})

	t.Run("件数0のバッチは常に100%", func(t *testing.T) {
		tr := NewTracker(0)
		assert.Equal(t, 100, tr.Percent())
	})
}
