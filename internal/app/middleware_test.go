package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWithRequestLogging_PreservesStatus(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), log, NewMetrics())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusTeapot)
	}
	if rr.Body.String() != "short and stout" {
		t.Fatalf("body=%q", rr.Body.String())
	}
}

func TestStatusClass(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{404, "4xx"},
		{503, "5xx"},
		{42, "other"},
	}
	for _, tc := range cases {
		if got := statusClass(tc.status); got != tc.want {
			t.Fatalf("statusClass(%d)=%q want=%q", tc.status, got, tc.want)
		}
	}
}

func TestCollapseRoute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want string
	}{
		{"/tasks", "/tasks"},
		{"/tasks/", "/tasks/"},
		{"/tasks/01HXYZ", "/tasks/{id}"},
		{"/auth/login", "/auth/login"},
		{"/healthz", "/healthz"},
	}
	for _, tc := range cases {
		if got := collapseRoute(tc.path); got != tc.want {
			t.Fatalf("collapseRoute(%q)=%q want=%q", tc.path, got, tc.want)
		}
	}
}

func TestMetricsHandler_Serves(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveRequest(http.MethodGet, "/tasks/01HXYZ", http.StatusOK, 12*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Fatalf("metrics body is empty")
	}
}
