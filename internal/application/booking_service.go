package application

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/infrastructure/memstore"
	"github.com/sanosuguru/go-seat-booking-engine/internal/journal"
	"github.com/sanosuguru/go-seat-booking-engine/internal/notification"
	"github.com/sanosuguru/go-seat-booking-engine/internal/queue"
	"github.com/sanosuguru/go-seat-booking-engine/internal/stats"
)

// BookingService は座席予約エンジンのファサード
// 呼び出し側（表示層・API）はこのサービス経由でのみエンジンを操作する
type BookingService struct {
	store    *memstore.Store
	queue    *queue.Queue
	stats    *stats.Aggregator
	journal  *journal.Journal
	sink     notification.Sink
	settings *Settings
}

// NewBookingService は予約サービスを作成する
func NewBookingService(
	store *memstore.Store,
	q *queue.Queue,
	st *stats.Aggregator,
	jr *journal.Journal,
	sink notification.Sink,
	settings *Settings,
) *BookingService {
	if sink == nil {
		sink = notification.NopSink{}
	}
	return &BookingService{
		store:    store,
		queue:    q,
		stats:    st,
		journal:  jr,
		sink:     sink,
		settings: settings,
	}
}

// ConfigureInput はエンジン設定変更の入力
type ConfigureInput struct {
	Mode           string
	MaxRetries     int
	LockTimeoutMs  int
	WorkerPoolSize int
}

// Configure はエンジン設定を変更する
// モード・リトライ予算・タイムアウトは即時、ワーカー数は次回起動から有効
func (s *BookingService) Configure(in ConfigureInput) error {
	mode, err := ParseMode(in.Mode)
	if err != nil {
		return err
	}
	if in.MaxRetries < 0 {
		return fmt.Errorf("リトライ予算が不正です: %d", in.MaxRetries)
	}
	if in.LockTimeoutMs <= 0 {
		return fmt.Errorf("ロックタイムアウトが不正です: %dms", in.LockTimeoutMs)
	}
	if in.WorkerPoolSize <= 0 {
		return fmt.Errorf("ワーカー数が不正です: %d", in.WorkerPoolSize)
	}

	s.settings.SetMode(mode)
	s.settings.SetMaxRetries(in.MaxRetries)
	s.settings.SetLockTimeout(time.Duration(in.LockTimeoutMs) * time.Millisecond)
	s.settings.SetWorkerPoolSize(in.WorkerPoolSize)

	s.sink.OnLogEvent(fmt.Sprintf("設定変更: モード=%s リトライ上限=%d ロックタイムアウト=%dms ワーカー数=%d",
		mode, in.MaxRetries, in.LockTimeoutMs, in.WorkerPoolSize))
	return nil
}

// SelectSeat は座席をavailableからselectedへ遷移させる
// 既にselectedなら何もしない
func (s *BookingService) SelectSeat(seatID string) error {
	snap, err := s.store.Snapshot(seatID)
	if err != nil {
		return err
	}
	switch snap.Status {
	case seat.StatusSelected:
		return nil
	case seat.StatusAvailable:
		ok, err := s.store.CompareAndSwap(seatID, snap.Version, seat.StatusSelected, "")
		if err != nil {
			return err
		}
		if !ok {
			return seat.ErrVersionConflict
		}
		return nil
	default:
		return seat.ErrSeatNotSelectable
	}
}

// DeselectSeat は座席をselectedからavailableへ戻す
// selectedでなければ何もしない（bookedの解除はCancelBookingのみ）
func (s *BookingService) DeselectSeat(seatID string) error {
	snap, err := s.store.Snapshot(seatID)
	if err != nil {
		return err
	}
	if snap.Status != seat.StatusSelected {
		return nil
	}
	ok, err := s.store.CompareAndSwap(seatID, snap.Version, seat.StatusAvailable, "")
	if err != nil {
		return err
	}
	if !ok {
		return seat.ErrVersionConflict
	}
	return nil
}

// ProcessBatch はselected状態の座席をリクエスト化してキューへ投入する
// 即座に戻り、処理の進捗はSink経由で非同期に報告される
// 戻り値は投入できたリクエスト数
func (s *BookingService) ProcessBatch(seatIDs []string, userIDFactory func() string) (int, error) {
	if userIDFactory == nil {
		userIDFactory = DefaultUserIDFactory
	}

	reqs := make([]*booking.Request, 0, len(seatIDs))
	for _, id := range seatIDs {
		snap, err := s.store.Snapshot(id)
		if err != nil {
			return 0, err
		}
		if snap.Status != seat.StatusSelected {
			continue
		}
		reqs = append(reqs, booking.NewRequest(userIDFactory(), id))
	}

	if len(reqs) == 0 {
		s.sink.OnProgress(100)
		return 0, nil
	}

	tracker := booking.NewTracker(len(reqs))
	enqueued := 0
	for _, req := range reqs {
		req.Batch = tracker
		if s.queue.Enqueue(req) {
			enqueued++
		}
	}

	s.sink.OnLogEvent(fmt.Sprintf("バッチ投入: %d件の予約リクエストをキューに追加", enqueued))
	return enqueued, nil
}

// SimulateUsers はランダムな座席へのリクエストをn件キューへ投入する
// 複数ユーザーが同時に予約を試みる状況の模擬用
func (s *BookingService) SimulateUsers(n int) int {
	ids := s.store.IDs()
	if len(ids) == 0 {
		return 0
	}
	enqueued := 0
	for i := 0; i < n; i++ {
		req := booking.NewRequest(DefaultUserIDFactory(), ids[rand.IntN(len(ids))])
		if s.queue.Enqueue(req) {
			enqueued++
		}
	}
	s.sink.OnLogEvent(fmt.Sprintf("模擬ユーザー: %d件の予約リクエストを投入", enqueued))
	return enqueued
}

// CancelBooking はbooked状態の座席をキャンセルしてavailableへ戻す
// booked以外の座席に対しては何もせずfalseを返す（冪等）
func (s *BookingService) CancelBooking(seatID string) (bool, error) {
	snap, err := s.store.Snapshot(seatID)
	if err != nil {
		return false, err
	}
	if snap.Status != seat.StatusBooked {
		return false, nil
	}
	ok, err := s.store.CompareAndSwap(seatID, snap.Version, seat.StatusAvailable, "")
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	s.sink.OnLogEvent(fmt.Sprintf("キャンセル: 座席=%s の予約を取り消し（予約者=%s）", seatID, snap.Owner))
	return true, nil
}

// Stats は統計カウンタのスナップショットを返す
func (s *BookingService) Stats() stats.Counters {
	return s.stats.Snapshot()
}

// Seats は全座席のスナップショットを返す
func (s *BookingService) Seats() []seat.Snapshot {
	return s.store.Seats()
}

// Journal はトランザクションログを新しい順にn件まで返す
func (s *BookingService) Journal(n int) []journal.Entry {
	return s.journal.Recent(n)
}

// QueueLen は滞留中のリクエスト数を返す
func (s *BookingService) QueueLen() int {
	return s.queue.Len()
}

// Settings は実行時設定を返す
func (s *BookingService) Settings() *Settings {
	return s.settings
}

// Reset は全座席をavailableへ戻し、キュー・統計・ジャーナルを初期化する
func (s *BookingService) Reset() {
	s.store.ResetAll()
	cleared := s.queue.Clear()
	s.stats.Reset()
	s.journal.Clear()
	s.sink.OnLogEvent(fmt.Sprintf("システムリセット完了（破棄したリクエスト: %d件）", cleared))
}

// DefaultUserIDFactory は模擬ユーザーIDを生成する
func DefaultUserIDFactory() string {
	return fmt.Sprintf("user-%03d", rand.IntN(1000))
}
