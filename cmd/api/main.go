package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking-engine/internal/api"
	custommw "github.com/sanosuguru/go-seat-booking-engine/internal/api/middleware"
	"github.com/sanosuguru/go-seat-booking-engine/internal/application"
	"github.com/sanosuguru/go-seat-booking-engine/internal/config"
	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/infrastructure/memstore"
	redisinfra "github.com/sanosuguru/go-seat-booking-engine/internal/infrastructure/redis"
	"github.com/sanosuguru/go-seat-booking-engine/internal/journal"
	"github.com/sanosuguru/go-seat-booking-engine/internal/notification"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/metrics"
	"github.com/sanosuguru/go-seat-booking-engine/internal/queue"
	"github.com/sanosuguru/go-seat-booking-engine/internal/stats"
	"github.com/sanosuguru/go-seat-booking-engine/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	m := metrics.Init()

	settings, err := application.NewSettings(cfg.Engine)
	if err != nil {
		logger.Error("エンジン設定の読み込みに失敗", zap.Error(err))
		os.Exit(1)
	}

	// 通知Sinkの組み立て
	jr := journal.New(cfg.Engine.JournalSize)
	sinks := notification.MultiSink{
		notification.NewLogSink(logger.Get()),
		notification.NewJournalSink(jr),
	}
	if cfg.Redis.Enabled {
		client := redisinfra.NewClient(&cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisinfra.Ping(pingCtx, client); err != nil {
			logger.Warn("Redisに接続できないため通知配信を無効化します", zap.Error(err))
		} else {
			sinks = append(sinks, redisinfra.NewStatusPublisher(client, cfg.Redis.Channel))
			logger.Info("Redis通知配信を有効化", zap.String("channel", cfg.Redis.Channel))
		}
		cancel()
	}
	var sink notification.Sink = sinks

	// エンジンの組み立て
	store := memstore.New(seat.GridIDs(cfg.Engine.Rows, cfg.Engine.Cols), sink.OnSeatStatusChanged)
	q := queue.New()
	st := stats.New(m)
	optimistic := application.NewOptimisticStrategy(store, st, settings)
	pessimistic := application.NewPessimisticStrategy(store, st, settings, m)
	service := application.NewBookingService(store, q, st, jr, sink, settings)
	dispatcher := worker.NewDispatcher(q, settings, optimistic, pessimistic, st, sink, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher.Start(ctx)

	// HTTPサーバー
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	custommw.SetupMiddleware(e)
	api.RegisterRoutes(e, service, m)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Error("サーバー起動エラー", zap.Error(err))
			stop()
		}
	}()
	logger.Info("予約エンジン起動",
		zap.String("port", cfg.Server.Port),
		zap.Int("seats", store.Len()),
		zap.String("mode", string(settings.Mode())),
		zap.Int("workers", settings.WorkerPoolSize()),
	)

	<-ctx.Done()
	logger.Info("シャットダウンを開始します")

	if err := dispatcher.Shutdown(cfg.Engine.ShutdownGrace); err != nil {
		logger.Warn("ディスパッチャー停止で猶予時間を超過", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("正常にシャットダウンしました")
}
