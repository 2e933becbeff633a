package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltaplan/schedule-assist/internal/model"
)

type fakePublisher struct {
	msgs []model.ScheduleAssistMessage
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, msg model.ScheduleAssistMessage) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func newTestRouter(healthy bool, readyErr error, pub Publisher) http.Handler {
	return NewRouter(
		func() bool { return healthy },
		func(ctx context.Context) error { return readyErr },
		pub,
		zerolog.Nop(),
	)
}

func TestCheckHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(true, nil, nil).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"healthy"`)

	rr = httptest.NewRecorder()
	newTestRouter(false, nil, nil).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"unhealthy"`)
}

func TestCheckReady(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(true, nil, nil).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	newTestRouter(true, errors.New("nats disconnected"), nil).
		ServeHTTP(rr, httptest.NewRequest("GET", "/v1/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "nats disconnected")
}

func TestEnqueuePlan(t *testing.T) {
	pub := &fakePublisher{}
	router := newTestRouter(true, nil, pub)

	body := `{"userId":"u1","windowStartDate":"2026-01-05T00:00:00","windowEndDate":"2026-01-09T23:59:59","timezone":"America/New_York"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/assist/plan", strings.NewReader(body)))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "u1", pub.msgs[0].UserID)
}

func TestEnqueuePlan_Validation(t *testing.T) {
	pub := &fakePublisher{}
	router := newTestRouter(true, nil, pub)

	cases := map[string]string{
		"missing user": `{"windowStartDate":"2026-01-05T00:00:00","windowEndDate":"2026-01-09T23:59:59","timezone":"UTC"}`,
		"bad window":   `{"userId":"u1","windowStartDate":"2026-01-09T00:00:00","windowEndDate":"2026-01-05T00:00:00","timezone":"UTC"}`,
		"bad timezone": `{"userId":"u1","windowStartDate":"2026-01-05T00:00:00","windowEndDate":"2026-01-09T23:59:59","timezone":"Nowhere"}`,
		"bad json":     `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/assist/plan", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
	assert.Empty(t, pub.msgs)
}

func TestEnqueuePlan_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("stream gone")}
	router := newTestRouter(true, nil, pub)

	body := `{"userId":"u1","windowStartDate":"2026-01-05T00:00:00","windowEndDate":"2026-01-09T23:59:59","timezone":"UTC"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/assist/plan", strings.NewReader(body)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
