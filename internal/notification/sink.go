package notification

import (
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/journal"
)

// Sink はエンジンが状態変化を報告する外部コラボレーターのインターフェース
// 表示層はこのインターフェース越しにのみ通知を受け取り、
// エンジンが表示層の状態に直接触れることはない
type Sink interface {
	// OnSeatStatusChanged はコミットされた座席の状態遷移を通知する
	OnSeatStatusChanged(seatID string, status seat.Status)

	// OnProgress はバッチ処理の完了率（0-100）を通知する
	OnProgress(percent int)

	// OnLogEvent はトランザクションログの1行を通知する
	OnLogEvent(message string)
}

// NopSink は何もしないSink。テストおよび既定値用
type NopSink struct{}

func (NopSink) OnSeatStatusChanged(string, seat.Status) {}
func (NopSink) OnProgress(int)                          {}
func (NopSink) OnLogEvent(string)                       {}

// LogSink は通知を構造化ログとして出力するSink
type LogSink struct {
	log *zap.Logger
}

// NewLogSink はzapロガーに書き出すSinkを作成する
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) OnSeatStatusChanged(seatID string, status seat.Status) {
	s.log.Debug("座席状態変更",
		zap.String("seat_id", seatID),
		zap.String("status", string(status)),
	)
}

func (s *LogSink) OnProgress(percent int) {
	s.log.Debug("バッチ進捗", zap.Int("percent", percent))
}

func (s *LogSink) OnLogEvent(message string) {
	s.log.Info(message)
}

// JournalSink はログイベントをトランザクションジャーナルへ記録するSink
type JournalSink struct {
	j *journal.Journal
}

// NewJournalSink はジャーナルに追記するSinkを作成する
func NewJournalSink(j *journal.Journal) *JournalSink {
	return &JournalSink{j: j}
}

func (s *JournalSink) OnSeatStatusChanged(string, seat.Status) {}
func (s *JournalSink) OnProgress(int)                          {}

func (s *JournalSink) OnLogEvent(message string) {
	s.j.Append(message)
}

// MultiSink は複数のSinkへ順番に通知を転送する
type MultiSink []Sink

func (m MultiSink) OnSeatStatusChanged(seatID string, status seat.Status) {
	for _, s := range m {
		s.OnSeatStatusChanged(seatID, status)
	}
}

func (m MultiSink) OnProgress(percent int) {
	for _, s := range m {
		s.OnProgress(percent)
	}
}

func (m MultiSink) OnLogEvent(message string) {
	for _, s := range m {
		s.OnLogEvent(message)
	}
}
