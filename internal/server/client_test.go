package server

import (
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
)

// startTestSocket serves the given routes on a real unix socket and returns a
// client connected to it.
func startTestSocket(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "dispatcher.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("failed to listen on test socket: %v", err)
	}

	httpServer := &http.Server{Handler: mux}
	go httpServer.Serve(listener)
	t.Cleanup(func() { httpServer.Close() })

	return NewClient(socketPath)
}

func TestClient_HealthAndListSchedules(t *testing.T) {
	cfg := &config.CronctlConfig{
		Schedules: map[string]config.ScheduleConfig{
			"every4h": {Interval: "4h", Display: "Every 4 Hours"},
		},
	}
	_, mux := newTestServer(t, cfg)
	client := startTestSocket(t, mux)

	health, err := client.Health()
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	if health.Version == "" {
		t.Errorf("health report missing version")
	}

	schedules, err := client.ListSchedules()
	if err != nil {
		t.Fatalf("list schedules failed: %v", err)
	}
	found := false
	for _, sched := range schedules {
		if sched.Name == "every4h" {
			found = true
			if sched.IntervalSeconds != 4*3600 {
				t.Errorf("every4h interval = %d, want %d", sched.IntervalSeconds, 4*3600)
			}
		}
	}
	if !found {
		t.Errorf("custom schedule missing from %v", schedules)
	}
}

func TestClient_DeleteEvent(t *testing.T) {
	s, mux := newTestServer(t, &config.CronctlConfig{})
	client := startTestSocket(t, mux)

	event, err := s.db.CreateEvent(database.CreateEventParams{
		Hook:      "cleanup",
		NextRunAt: time.Now().Add(1 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := client.DeleteEvent(event.ID); err != nil {
		t.Fatalf("delete over socket failed: %v", err)
	}

	got, err := s.db.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Errorf("event still present after delete")
	}

	if err := client.DeleteEvent(event.ID); err == nil {
		t.Errorf("deleting a missing event should fail")
	}
}

func TestClient_SpawnDryRun(t *testing.T) {
	s, mux := newTestServer(t, &config.CronctlConfig{})
	client := startTestSocket(t, mux)

	if _, err := s.db.CreateEvent(database.CreateEventParams{
		Hook:      "overdue",
		NextRunAt: time.Now().Add(-1 * time.Minute),
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := client.Spawn(true)
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if !result.DryRun || result.Due != 1 {
		t.Errorf("spawn result = %+v, want dry run with 1 due", result)
	}
}
