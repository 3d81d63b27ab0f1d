package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/infrastructure/memstore"
	"github.com/sanosuguru/go-seat-booking-engine/internal/journal"
	"github.com/sanosuguru/go-seat-booking-engine/internal/notification"
	"github.com/sanosuguru/go-seat-booking-engine/internal/queue"
	"github.com/sanosuguru/go-seat-booking-engine/internal/stats"
)

func newTestService(t *testing.T, ids ...string) (*BookingService, *memstore.Store, *queue.Queue) {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{"A1", "A2", "B5"}
	}
	store := memstore.New(ids, nil)
	q := queue.New()
	jr := journal.New(100)
	svc := NewBookingService(store, q, stats.New(nil), jr, notification.NewJournalSink(jr), newTestSettings(t, ModeOptimistic))
	return svc, store, q
}

func TestBookingService_SelectSeat(t *testing.T) {
	t.Run("availableからselectedへ遷移する", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		require.NoError(t, svc.SelectSeat("A1"))

		snap, err := store.Snapshot("A1")
		require.NoError(t, err)
		assert.Equal(t, seat.StatusSelected, snap.Status)
		assert.Equal(t, int64(1), snap.Version)
	})

	t.Run("既にselectedなら何もしない", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		require.NoError(t, svc.SelectSeat("A1"))
		require.NoError(t, svc.SelectSeat("A1"))

		snap, err := store.Snapshot("A1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), snap.Version)
	})

	t.Run("booked座席はErrSeatNotSelectable", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		ok, err := store.CompareAndSwap("A1", 0, seat.StatusBooked, "user-1")
		require.NoError(t, err)
		require.True(t, ok)

		assert.ErrorIs(t, svc.SelectSeat("A1"), seat.ErrSeatNotSelectable)
	})

	t.Run("存在しない座席はErrSeatNotFound", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		assert.ErrorIs(t, svc.SelectSeat("Z99"), seat.ErrSeatNotFound)
	})
}

func TestBookingService_DeselectSeat(t *testing.T) {
	t.Run("selectedからavailableへ戻す", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		require.NoError(t, svc.SelectSeat("A1"))

		require.NoError(t, svc.DeselectSeat("A1"))

		snap, err := store.Snapshot("A1")
		require.NoError(t, err)
		assert.Equal(t, seat.StatusAvailable, snap.Status)
	})

	t.Run("selected以外は何もしない", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		ok, err := store.CompareAndSwap("A1", 0, seat.StatusBooked, "user-1")
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, svc.DeselectSeat("A1"))

		snap, err := store.Snapshot("A1")
		require.NoError(t, err)
		assert.Equal(t, seat.StatusBooked, snap.Status)
	})
}

func TestBookingService_ProcessBatch(t *testing.T) {
	t.Run("selected座席だけをキューへ投入する", func(t *testing.T) {
		svc, _, q := newTestService(t)
		require.NoError(t, svc.SelectSeat("A1"))
		require.NoError(t, svc.SelectSeat("A2"))
		// B5はavailableのまま

		n, err := svc.ProcessBatch([]string{"A1", "A2", "B5"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, q.Len())

		// 投入順序はFIFO
		req, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, "A1", req.SeatID)
		assert.NotNil(t, req.Batch)

		req2, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, "A2", req2.SeatID)
		// 同一バッチのトラッカーを共有する
		assert.Same(t, req.Batch, req2.Batch)
	})

	t.Run("対象なしなら即座に進捗100を通知する", func(t *testing.T) {
		store := memstore.New([]string{"A1"}, nil)
		sink := &captureSink{}
		svc := NewBookingService(store, queue.New(), stats.New(nil), journal.New(10), sink, newTestSettings(t, ModeOptimistic))

		n, err := svc.ProcessBatch([]string{"A1"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, []int{100}, sink.Progresses())
	})

	t.Run("存在しない座席はエラー", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.ProcessBatch([]string{"Z99"}, nil)
		assert.ErrorIs(t, err, seat.ErrSeatNotFound)
	})

	t.Run("ユーザーIDファクトリが使われる", func(t *testing.T) {
		svc, _, q := newTestService(t)
		require.NoError(t, svc.SelectSeat("A1"))

		i := 0
		n, err := svc.ProcessBatch([]string{"A1"}, func() string {
			i++
			return fmt.Sprintf("vip-%d", i)
		})
		require.NoError(t, err)
		require.Equal(t, 1, n)

		req, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, "vip-1", req.UserID)
	})
}

func TestBookingService_SimulateUsers(t *testing.T) {
	svc, _, q := newTestService(t)

	n := svc.SimulateUsers(20)
	assert.Equal(t, 20, n)
	assert.Equal(t, 20, q.Len())
}

func TestBookingService_CancelBooking(t *testing.T) {
	t.Run("booked座席をavailableへ戻す", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		ok, err := store.CompareAndSwap("B5", 0, seat.StatusBooked, "user-007")
		require.NoError(t, err)
		require.True(t, ok)

		cancelled, err := svc.CancelBooking("B5")
		require.NoError(t, err)
		assert.True(t, cancelled)

		snap, err := store.Snapshot("B5")
		require.NoError(t, err)
		assert.Equal(t, seat.StatusAvailable, snap.Status)
		assert.Empty(t, snap.Owner)
		assert.True(t, snap.BookedAt.IsZero())
		assert.Equal(t, int64(2), snap.Version)
	})

	t.Run("booked以外は何もせずfalse", func(t *testing.T) {
		svc, store, _ := newTestService(t)

		cancelled, err := svc.CancelBooking("A1")
		require.NoError(t, err)
		assert.False(t, cancelled)

		snap, err := store.Snapshot("A1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), snap.Version)
	})

	t.Run("存在しない座席はErrSeatNotFound", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.CancelBooking("Z99")
		assert.ErrorIs(t, err, seat.ErrSeatNotFound)
	})
}

func TestBookingService_Configure(t *testing.T) {
	t.Run("設定を反映する", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		err := svc.Configure(ConfigureInput{
			Mode:           "pessimistic",
			MaxRetries:     5,
			LockTimeoutMs:  750,
			WorkerPoolSize: 6,
		})
		require.NoError(t, err)

		s := svc.Settings()
		assert.Equal(t, ModePessimistic, s.Mode())
		assert.Equal(t, 5, s.MaxRetries())
		assert.Equal(t, 750*time.Millisecond, s.LockTimeout())
		assert.Equal(t, 6, s.WorkerPoolSize())
	})

	t.Run("不正な入力は拒否する", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		assert.Error(t, svc.Configure(ConfigureInput{Mode: "hybrid", MaxRetries: 1, LockTimeoutMs: 100, WorkerPoolSize: 1}))
		assert.Error(t, svc.Configure(ConfigureInput{Mode: "optimistic", MaxRetries: -1, LockTimeoutMs: 100, WorkerPoolSize: 1}))
		assert.Error(t, svc.Configure(ConfigureInput{Mode: "optimistic", MaxRetries: 1, LockTimeoutMs: 0, WorkerPoolSize: 1}))
		assert.Error(t, svc.Configure(ConfigureInput{Mode: "optimistic", MaxRetries: 1, LockTimeoutMs: 100, WorkerPoolSize: 0}))

		// 失敗した設定変更は何も反映しない
		assert.Equal(t, ModeOptimistic, svc.Settings().Mode())
	})
}

func TestBookingService_Reset(t *testing.T) {
	svc, store, q := newTestService(t)
	require.NoError(t, svc.SelectSeat("A1"))
	require.NoError(t, svc.SelectSeat("A2"))
	_, err := svc.ProcessBatch([]string{"A1"}, nil)
	require.NoError(t, err)

	svc.Reset()

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, stats.Counters{}, svc.Stats())
	for _, snap := range store.Seats() {
		assert.Equal(t, seat.StatusAvailable, snap.Status)
		assert.Equal(t, int64(0), snap.Version)
	}
	// リセット完了のログ1行だけが残る
	assert.Len(t, svc.Journal(0), 1)
}

func TestBookingService_Accessors(t *testing.T) {
	svc, _, _ := newTestService(t, "A1", "A2")

	assert.Len(t, svc.Seats(), 2)
	assert.Equal(t, 0, svc.QueueLen())
	assert.NotNil(t, svc.Settings())
}

// captureSink は通知を記録するテスト用Sink
type captureSink struct {
	notification.NopSink
	progresses []int
}

func (c *captureSink) OnProgress(percent int) {
	c.progresses = append(c.progresses, percent)
}

func (c *captureSink) Progresses() []int {
	return c.progresses
}
