package application

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sanosuguru/go-seat-booking-engine/internal/config"
)

// Mode は並行性制御の方式を表す
type Mode string

const (
	// ModeOptimistic はバージョン検査つきCASとリトライによるロックフリー方式
	ModeOptimistic Mode = "optimistic"

	// ModePessimistic は座席単位の排他ロックによるブロッキング方式
	ModePessimistic Mode = "pessimistic"
)

// ErrUnknownMode は未知の並行性制御モード
var ErrUnknownMode = errors.New("未知の並行性制御モードです")

// ParseMode は文字列をModeへ変換する
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOptimistic, ModePessimistic:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Settings は実行中に変更可能なエンジン設定
// モード・リトライ予算・タイムアウトはリクエスト処理ごとに1回読み取られる
type Settings struct {
	mode           atomic.Value // Mode
	maxRetries     atomic.Int64
	lockTimeout    atomic.Int64 // ナノ秒
	backoffBase    atomic.Int64 // ナノ秒
	workDelay      atomic.Int64 // ナノ秒
	workerPoolSize atomic.Int64
}

// NewSettings はエンジン設定から実行時設定を作成する
func NewSettings(cfg config.EngineConfig) (*Settings, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	s := &Settings{}
	s.mode.Store(mode)
	s.maxRetries.Store(int64(cfg.MaxRetries))
	s.lockTimeout.Store(int64(cfg.LockTimeout))
	s.backoffBase.Store(int64(cfg.BackoffBase))
	s.workDelay.Store(int64(cfg.WorkDelay))
	s.workerPoolSize.Store(int64(cfg.WorkerPoolSize))
	return s, nil
}

// Mode は現在の並行性制御モードを返す
func (s *Settings) Mode() Mode {
	return s.mode.Load().(Mode)
}

// SetMode はモードを切り替える。以降のリクエストから有効
func (s *Settings) SetMode(m Mode) {
	s.mode.Store(m)
}

// MaxRetries は楽観的戦略のリトライ予算を返す
func (s *Settings) MaxRetries() int {
	return int(s.maxRetries.Load())
}

func (s *Settings) SetMaxRetries(n int) {
	s.maxRetries.Store(int64(n))
}

// LockTimeout は悲観的ロックの取得タイムアウトを返す
func (s *Settings) LockTimeout() time.Duration {
	return time.Duration(s.lockTimeout.Load())
}

func (s *Settings) SetLockTimeout(d time.Duration) {
	s.lockTimeout.Store(int64(d))
}

// BackoffBase はバックオフの基準値を返す
func (s *Settings) BackoffBase() time.Duration {
	return time.Duration(s.backoffBase.Load())
}

func (s *Settings) SetBackoffBase(d time.Duration) {
	s.backoffBase.Store(int64(d))
}

// WorkDelay は予約処理のシミュレーション遅延を返す
func (s *Settings) WorkDelay() time.Duration {
	return time.Duration(s.workDelay.Load())
}

func (s *Settings) SetWorkDelay(d time.Duration) {
	s.workDelay.Store(int64(d))
}

// WorkerPoolSize はワーカー数を返す。次回のディスパッチャー起動から有効
func (s *Settings) WorkerPoolSize() int {
	return int(s.workerPoolSize.Load())
}

func (s *Settings) SetWorkerPoolSize(n int) {
	s.workerPoolSize.Store(int64(n))
}
