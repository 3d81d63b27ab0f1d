package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server ServerConfig
	Engine EngineConfig
	Redis  RedisConfig
}

// ServerConfig はHTTPサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// EngineConfig は予約エンジン設定
type EngineConfig struct {
	// 座席レイアウト（行×列）
	Rows int
	Cols int

	// 並行性制御モード: optimistic / pessimistic
	Mode string

	// 楽観的戦略のリトライ予算
	MaxRetries int

	// 悲観的戦略のロック取得タイムアウト
	LockTimeout time.Duration

	// 楽観的リトライのバックオフ基準値（実際はランダム化される）
	BackoffBase time.Duration

	// 予約処理のシミュレーション遅延
	WorkDelay time.Duration

	// ワーカープールのサイズ
	WorkerPoolSize int

	// シャットダウン時に実行中の処理を待つ猶予時間
	ShutdownGrace time.Duration

	// トランザクションジャーナルの保持行数
	JournalSize int
}

// RedisConfig は通知配信用のRedis設定
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Channel  string
}

// Load は環境変数から設定を読み込む
// カレントディレクトリに.envがあれば先に読み込む
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Engine: EngineConfig{
			Rows:           getIntEnv("SEAT_ROWS", 10),
			Cols:           getIntEnv("SEAT_COLS", 12),
			Mode:           getEnv("CONCURRENCY_MODE", "optimistic"),
			MaxRetries:     getIntEnv("MAX_RETRIES", 3),
			LockTimeout:    getDurationEnv("LOCK_TIMEOUT", 2*time.Second),
			BackoffBase:    getDurationEnv("BACKOFF_BASE", 50*time.Millisecond),
			WorkDelay:      getDurationEnv("WORK_DELAY", 100*time.Millisecond),
			WorkerPoolSize: getIntEnv("WORKER_POOL_SIZE", 10),
			ShutdownGrace:  getDurationEnv("SHUTDOWN_GRACE", 5*time.Second),
			JournalSize:    getIntEnv("JOURNAL_SIZE", 1000),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", "booking:events"),
		},
	}
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
