package memstore

import (
	"time"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
)

// ChangeFunc はコミットされた状態遷移ごとに呼び出されるコールバック
// 座席のクリティカルセクションの外で呼び出される
type ChangeFunc func(seatID string, status seat.Status)

// Store は全座席の正式な状態を保持するインメモリの座席ストア
// 座席への変更はすべてCASまたは排他ロック経由で行われ、
// 外部からはアトミックに見える。フィールドへの直接書き込みは存在しない
type Store struct {
	// seats は初期化後に変更されないため、マップ自体の同期は不要
	seats    map[string]*entry
	order    []string
	onChange ChangeFunc
}

// New は座席ID一覧からストアを作成する
// onChange はnilでもよい
func New(ids []string, onChange ChangeFunc) *Store {
	s := &Store{
		seats:    make(map[string]*entry, len(ids)),
		order:    make([]string, len(ids)),
		onChange: onChange,
	}
	copy(s.order, ids)
	for _, id := range ids {
		s.seats[id] = newEntry(id)
	}
	return s
}

// Snapshot は座席のある時点の状態を返す。ブロックしない
func (s *Store) Snapshot(seatID string) (seat.Snapshot, error) {
	e, ok := s.seats[seatID]
	if !ok {
		return seat.Snapshot{}, seat.ErrSeatNotFound
	}
	e.mu.Lock()
	snap := e.seat.Snapshot()
	e.mu.Unlock()
	return snap, nil
}

// CompareAndSwap は現在のバージョンがexpectedVersionと一致する場合のみ
// 状態を更新し、バージョンを+1する。不一致なら何も変更せずfalseを返す
// Ownerはbooked遷移時のみ保持し、それ以外の状態では空にする
func (s *Store) CompareAndSwap(seatID string, expectedVersion int64, newStatus seat.Status, newOwner string) (bool, error) {
	e, ok := s.seats[seatID]
	if !ok {
		return false, seat.ErrSeatNotFound
	}

	e.mu.Lock()
	if e.seat.Version != expectedVersion {
		e.mu.Unlock()
		return false, nil
	}
	e.seat.Status = newStatus
	e.seat.Version++
	if newStatus == seat.StatusBooked {
		e.seat.Owner = newOwner
		e.seat.BookedAt = time.Now()
	} else {
		e.seat.Owner = ""
		e.seat.BookedAt = time.Time{}
	}
	e.mu.Unlock()

	s.notify(seatID, newStatus)
	return true, nil
}

// Reset は座席を強制的にavailableへ戻し、バージョンを+1する
// キャンセルおよび巻き戻し用
func (s *Store) Reset(seatID string) error {
	e, ok := s.seats[seatID]
	if !ok {
		return seat.ErrSeatNotFound
	}
	e.mu.Lock()
	e.seat.Status = seat.StatusAvailable
	e.seat.Owner = ""
	e.seat.BookedAt = time.Time{}
	e.seat.Version++
	e.mu.Unlock()

	s.notify(seatID, seat.StatusAvailable)
	return nil
}

// ResetAll は全座席をavailable・バージョン0へ初期化する（システムリセット）
func (s *Store) ResetAll() {
	for _, id := range s.order {
		e := s.seats[id]
		e.mu.Lock()
		e.seat.Status = seat.StatusAvailable
		e.seat.Owner = ""
		e.seat.BookedAt = time.Time{}
		e.seat.Version = 0
		e.mu.Unlock()
		s.notify(id, seat.StatusAvailable)
	}
}

// Seats は全座席のスナップショットを初期化時の順序で返す
func (s *Store) Seats() []seat.Snapshot {
	snaps := make([]seat.Snapshot, 0, len(s.order))
	for _, id := range s.order {
		e := s.seats[id]
		e.mu.Lock()
		snaps = append(snaps, e.seat.Snapshot())
		e.mu.Unlock()
	}
	return snaps
}

// IDs は座席ID一覧を返す
func (s *Store) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Len は座席数を返す
func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) notify(seatID string, status seat.Status) {
	if s.onChange != nil {
		s.onChange(seatID, status)
	}
}
