package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-seat-booking-engine/internal/api/handler"
	custommw "github.com/sanosuguru/go-seat-booking-engine/internal/api/middleware"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/metrics"
)

// RegisterRoutes はエンジンのHTTPエンドポイントを登録する
func RegisterRoutes(e *echo.Echo, engine handler.BookingEngine, m *metrics.Metrics) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	healthHandler := handler.NewHealthHandler()
	seatHandler := handler.NewSeatHandler(engine)
	bookingHandler := handler.NewBookingHandler(engine)
	adminHandler := handler.NewAdminHandler(engine)

	v1 := e.Group("/api/v1")
	if m != nil {
		v1.Use(custommw.PrometheusMiddleware(m))
	}

	v1.GET("/health", healthHandler.Check)

	v1.GET("/seats", seatHandler.List)
	v1.POST("/seats/:id/select", seatHandler.Select)
	v1.POST("/seats/:id/deselect", seatHandler.Deselect)

	v1.POST("/bookings/process", bookingHandler.ProcessBatch)
	v1.POST("/bookings/simulate", bookingHandler.Simulate)
	v1.DELETE("/bookings/:seat_id", bookingHandler.Cancel)
	v1.GET("/stats", bookingHandler.Stats)
	v1.GET("/journal", bookingHandler.Journal)

	v1.PUT("/config", adminHandler.Configure)
	v1.POST("/reset", adminHandler.Reset)

	// Prometheusメトリクス（認証は環境変数設定時のみ）
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())
}
