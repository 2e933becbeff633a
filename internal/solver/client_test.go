package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltaplan/schedule-assist/internal/model"
)

func TestDispatch(t *testing.T) {
	var gotPath string
	var gotBody model.PlannerRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "hunter2", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "hunter2", zerolog.Nop())
	err := c.Dispatch(context.Background(), model.PlannerRequestBody{
		SingletonID: "abc-1",
		HostID:      "h1",
		FileKey:     "h1/abc-1.json",
		Delay:       3000,
	})
	require.NoError(t, err)
	assert.Equal(t, "/timeTable/admin/solve-day", gotPath)
	assert.Equal(t, "abc-1", gotBody.SingletonID)
	assert.Equal(t, int64(3000), gotBody.Delay)
}

func TestDispatch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "solver busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "hunter2", zerolog.Nop())
	err := c.Dispatch(context.Background(), model.PlannerRequestBody{SingletonID: "abc-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
