package seat

import (
	"fmt"
	"time"
)

// Status は座席の状態を表す
type Status string

const (
	StatusAvailable  Status = "available"
	StatusSelected   Status = "selected"
	StatusProcessing Status = "processing"
	StatusBooked     Status = "booked"
)

// Seat は座席エンティティを表す
// 状態遷移: available → selected → processing → {booked | available}
// booked → available はキャンセルのみ
type Seat struct {
	ID       string
	Status   Status
	Version  int64 // 楽観的ロック用。コミットされた状態変化ごとに+1
	Owner    string
	BookedAt time.Time
}

// NewSeat は新しい座席を作成する
func NewSeat(id string) *Seat {
	return &Seat{
		ID:      id,
		Status:  StatusAvailable,
		Version: 0,
	}
}

// IsBooked は座席が予約済みかを返す
func (s *Seat) IsBooked() bool {
	return s.Status == StatusBooked
}

// Snapshot は座席の不変コピーを返す
// ストアの外には必ずこの値を渡し、内部状態への参照を漏らさない
func (s *Seat) Snapshot() Snapshot {
	return Snapshot{
		ID:       s.ID,
		Status:   s.Status,
		Version:  s.Version,
		Owner:    s.Owner,
		BookedAt: s.BookedAt,
	}
}

// Snapshot はある時点の座席状態を表す値型
// 同じVersionを持つ2つのSnapshotは必ず同じStatus/Ownerを観測している
type Snapshot struct {
	ID       string    `json:"id"`
	Status   Status    `json:"status"`
	Version  int64     `json:"version"`
	Owner    string    `json:"owner,omitempty"`
	BookedAt time.Time `json:"booked_at,omitempty"`
}

// GridIDs は劇場型の座席ID一覧を生成する（A1..A12, B1..）
func GridIDs(rows, cols int) []string {
	ids := make([]string, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ids = append(ids, fmt.Sprintf("%c%d", 'A'+r, c+1))
		}
	}
	return ids
}
