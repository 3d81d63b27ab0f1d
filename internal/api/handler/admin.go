package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-booking-engine/internal/application"
)

// AdminHandler はエンジン設定・リセットのハンドラー
type AdminHandler struct {
	engine BookingEngine
}

// NewAdminHandler はAdminHandlerを作成する
func NewAdminHandler(engine BookingEngine) *AdminHandler {
	return &AdminHandler{engine: engine}
}

// ConfigureRequest は設定変更のリクエスト
type ConfigureRequest struct {
	Mode           string `json:"mode" validate:"required,oneof=optimistic pessimistic"`
	MaxRetries     int    `json:"max_retries" validate:"min=0,max=100"`
	LockTimeoutMs  int    `json:"lock_timeout_ms" validate:"required,min=1"`
	WorkerPoolSize int    `json:"worker_pool_size" validate:"required,min=1,max=256"`
}

// Configure はエンジン設定を変更する
// ワーカー数は次回のディスパッチャー起動から有効になる
func (h *AdminHandler) Configure(c echo.Context) error {
	var req ConfigureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	err := h.engine.Configure(application.ConfigureInput{
		Mode:           req.Mode,
		MaxRetries:     req.MaxRetries,
		LockTimeoutMs:  req.LockTimeoutMs,
		WorkerPoolSize: req.WorkerPoolSize,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, req)
}

// Reset は全座席・キュー・統計・ジャーナルを初期化する
func (h *AdminHandler) Reset(c echo.Context) error {
	h.engine.Reset()
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}
