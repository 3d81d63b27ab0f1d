package journal

import (
	"sync"
	"time"
)

// Entry はトランザクションログの1行を表す
type Entry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// Journal は予約トランザクションの履歴をメモリ上に保持するリングバッファ
// 永続化はしない
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	head    int
	count   int
}

// New は最大capacity件を保持するジャーナルを作成する
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Journal{entries: make([]Entry, capacity)}
}

// Append はログを1行追記する。容量を超えたら最古の行を上書きする
func (j *Journal) Append(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	pos := (j.head + j.count) % len(j.entries)
	j.entries[pos] = Entry{At: time.Now(), Message: message}
	if j.count < len(j.entries) {
		j.count++
	} else {
		j.head = (j.head + 1) % len(j.entries)
	}
}

// Recent は新しい順にn件までを返す
func (j *Journal) Recent(n int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if n <= 0 || n > j.count {
		n = j.count
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		pos := (j.head + j.count - 1 - i) % len(j.entries)
		out[i] = j.entries[pos]
	}
	return out
}

// Len は保持中の行数を返す
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Clear は全ての行を破棄する
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.head = 0
	j.count = 0
}
