package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// CustomHTTPErrorHandler はドメインエラーをHTTPステータスへ対応付ける
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
	)

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	case errors.Is(err, seat.ErrSeatNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, seat.ErrSeatAlreadyBooked),
		errors.Is(err, seat.ErrSeatNotSelectable),
		errors.Is(err, seat.ErrVersionConflict):
		code = http.StatusConflict
		message = err.Error()
	}

	// 5xxのみサーバーエラーとして記録する
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{Error: message, Code: code}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
