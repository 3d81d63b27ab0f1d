package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-seat-booking-engine/internal/application"
)

func TestAdminHandler_Configure(t *testing.T) {
	t.Run("設定変更成功", func(t *testing.T) {
		engine := new(mockEngine)
		engine.On("Configure", application.ConfigureInput{
			Mode:           "pessimistic",
			MaxRetries:     5,
			LockTimeoutMs:  500,
			WorkerPoolSize: 8,
		}).Return(nil)
		e := newTestServer(engine)

		rec := doRequest(e, http.MethodPut, "/api/v1/config",
			`{"mode":"pessimistic","max_retries":5,"lock_timeout_ms":500,"worker_pool_size":8}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		engine.AssertExpectations(t)
	})

	t.Run("未知のモードは400", func(t *testing.T) {
		engine := new(mockEngine)
		e := newTestServer(engine)

		rec := doRequest(e, http.MethodPut, "/api/v1/config",
			`{"mode":"hybrid","max_retries":5,"lock_timeout_ms":500,"worker_pool_size":8}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		engine.AssertNotCalled(t, "Configure")
	})

	t.Run("ワーカー数0は400", func(t *testing.T) {
		engine := new(mockEngine)
		e := newTestServer(engine)

		rec := doRequest(e, http.MethodPut, "/api/v1/config",
			`{"mode":"optimistic","max_retries":5,"lock_timeout_ms":500,"worker_pool_size":0}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminHandler_Reset(t *testing.T) {
	engine := new(mockEngine)
	engine.On("Reset").Return()
	e := newTestServer(engine)

	rec := doRequest(e, http.MethodPost, "/api/v1/reset", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"reset"`)
	engine.AssertExpectations(t)
}
