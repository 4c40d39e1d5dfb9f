package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/schedule"
)

// newTestServer builds a Server with a throwaway database and the given
// config, without any socket or background loops.
func newTestServer(t *testing.T, cfg *config.CronctlConfig) (*Server, *http.ServeMux) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	registry, err := schedule.NewRegistry(cfg)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	s := &Server{
		logger:   log.New(&bytes.Buffer{}, "", 0),
		db:       db,
		cfg:      cfg,
		registry: registry,
		runSlots: make(chan struct{}, 2),
	}
	s.startedAt = time.Now()

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	_, mux := newTestServer(t, &config.CronctlConfig{})

	rec := doJSON(t, mux, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var health healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("invalid health JSON: %v", err)
	}
	if health.Version == "" {
		t.Errorf("health response missing version")
	}
}

func TestHandleScheduleEvent(t *testing.T) {
	_, mux := newTestServer(t, &config.CronctlConfig{})

	nextRun := time.Now().Add(1 * time.Hour).UTC().Truncate(time.Second)
	rec := doJSON(t, mux, http.MethodPost, "/events", scheduleEventRequest{
		Hook:      "backup",
		Args:      map[string]string{"target": "s3"},
		Schedule:  "hourly",
		NextRunAt: nextRun,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created eventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid event JSON: %v", err)
	}
	if created.IntervalSeconds != 3600 {
		t.Errorf("interval = %d, want 3600 (resolved from 'hourly')", created.IntervalSeconds)
	}
	if !created.NextRunAt.Equal(nextRun) {
		t.Errorf("next run = %v, want %v", created.NextRunAt, nextRun)
	}
}

func TestHandleScheduleEvent_Rejections(t *testing.T) {
	_, mux := newTestServer(t, &config.CronctlConfig{})

	tests := []struct {
		name       string
		req        scheduleEventRequest
		wantStatus int
	}{
		{
			name:       "empty hook",
			req:        scheduleEventRequest{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad hook name",
			req:        scheduleEventRequest{Hook: "not a name"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown schedule",
			req:        scheduleEventRequest{Hook: "backup", Schedule: "fortnightly"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/events", tt.req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestHandleScheduleEvent_DuplicateConflict(t *testing.T) {
	_, mux := newTestServer(t, &config.CronctlConfig{})

	req := scheduleEventRequest{
		Hook:      "ping",
		Args:      map[string]string{"host": "a"},
		NextRunAt: time.Now().Add(5 * time.Minute),
	}
	if rec := doJSON(t, mux, http.MethodPost, "/events", req); rec.Code != http.StatusCreated {
		t.Fatalf("first schedule failed: %d", rec.Code)
	}

	// Identical event a minute later lands inside the duplicate window.
	req.NextRunAt = req.NextRunAt.Add(1 * time.Minute)
	rec := doJSON(t, mux, http.MethodPost, "/events", req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409: %s", rec.Code, rec.Body.String())
	}

	// Different args are allowed.
	req.Args = map[string]string{"host": "b"}
	rec = doJSON(t, mux, http.MethodPost, "/events", req)
	if rec.Code != http.StatusCreated {
		t.Errorf("different-args status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleListAndDeleteEvent(t *testing.T) {
	s, mux := newTestServer(t, &config.CronctlConfig{})

	created, err := s.db.CreateEvent(database.CreateEventParams{
		Hook:      "cleanup",
		NextRunAt: time.Now().Add(1 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rec := doJSON(t, mux, http.MethodGet, "/events", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var events []eventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("invalid list JSON: %v", err)
	}
	if len(events) != 1 || events[0].Hook != "cleanup" {
		t.Errorf("list = %+v", events)
	}

	// Delete by short ID.
	rec = doJSON(t, mux, http.MethodDelete, "/events/"+created.ShortID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodDelete, "/events/"+created.ShortID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestHandleSpawn_DryRun(t *testing.T) {
	s, mux := newTestServer(t, &config.CronctlConfig{})

	if _, err := s.db.CreateEvent(database.CreateEventParams{
		Hook:      "overdue",
		NextRunAt: time.Now().Add(-1 * time.Minute),
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rec := doJSON(t, mux, http.MethodPost, "/spawn?dry_run=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("spawn status = %d", rec.Code)
	}

	var resp spawnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid spawn JSON: %v", err)
	}
	if !resp.DryRun || resp.Due != 1 {
		t.Errorf("spawn response = %+v, want dry_run with 1 due", resp)
	}
	if len(resp.Results) != 0 {
		t.Errorf("dry run must not fire events, got results %+v", resp.Results)
	}
}

func TestFireAndAdvance(t *testing.T) {
	cfg := &config.CronctlConfig{
		Hooks: map[string]config.HookConfig{
			"ok":   {Command: "true"},
			"fail": {Command: "false"},
		},
	}
	s, _ := newTestServer(t, cfg)
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("recurring event advances even when the hook fails", func(t *testing.T) {
		e, err := s.db.CreateEvent(database.CreateEventParams{
			Hook:            "fail",
			Schedule:        "hourly",
			IntervalSeconds: 3600,
			NextRunAt:       now.Add(-1 * time.Minute),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		result := s.fireAndAdvance(context.Background(), e)
		if result.Success {
			t.Errorf("expected failure result for failing hook")
		}
		if result.Error == "" {
			t.Errorf("expected error message in result")
		}

		got, err := s.db.GetEvent(e.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got == nil {
			t.Fatalf("recurring event must survive a failed run")
		}
		if !got.NextRunAt.After(now) {
			t.Errorf("recurring event not advanced: next run %v", got.NextRunAt)
		}
	})

	t.Run("one-off event is removed after firing", func(t *testing.T) {
		e, err := s.db.CreateEvent(database.CreateEventParams{
			Hook:      "ok",
			NextRunAt: now.Add(-1 * time.Minute),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		result := s.fireAndAdvance(context.Background(), e)
		if !result.Success {
			t.Errorf("expected success, got error %q", result.Error)
		}

		got, err := s.db.GetEvent(e.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != nil {
			t.Errorf("one-off event should be deleted after firing")
		}
	})

	t.Run("unconfigured hook reports an error", func(t *testing.T) {
		e, err := s.db.CreateEvent(database.CreateEventParams{
			Hook:      "ghost",
			NextRunAt: now.Add(-1 * time.Minute),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		result := s.fireAndAdvance(context.Background(), e)
		if result.Success {
			t.Errorf("expected failure for unconfigured hook")
		}
		if !strings.Contains(result.Error, "no hook named") {
			t.Errorf("error = %q", result.Error)
		}
	})
}

func TestHandleListSchedules(t *testing.T) {
	cfg := &config.CronctlConfig{
		Schedules: map[string]config.ScheduleConfig{
			"every4h": {Interval: "4h"},
		},
	}
	_, mux := newTestServer(t, cfg)

	rec := doJSON(t, mux, http.MethodGet, "/schedules", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var schedules []schedule.Schedule
	if err := json.Unmarshal(rec.Body.Bytes(), &schedules); err != nil {
		t.Fatalf("invalid schedules JSON: %v", err)
	}

	names := make(map[string]bool)
	for _, s := range schedules {
		names[s.Name] = true
	}
	for _, want := range []string{"hourly", "daily", "every4h"} {
		if !names[want] {
			t.Errorf("schedule %q missing from %v", want, names)
		}
	}
}
