package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimit(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	tb := NewTokenBucket(2)
	tb.now = func() time.Time { return clock }
	tb.lastSec = clock.Unix()
	h := Limit(tb)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	codes := make([]int, 0, 4)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect", nil))
		codes = append(codes, rec.Code)
	}
	clock = clock.Add(time.Second)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect", nil))
	codes = append(codes, rec.Code)

	want := []int{204, 204, 429, 204}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes=%v want %v", codes, want)
		}
	}
}

func TestWrapDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Wrap(inner)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d", rec.Code)
	}
}
