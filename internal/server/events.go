package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/version"
)

// duplicateWindow is how close together two events with the same hook and
// args may be scheduled before the second is rejected as a duplicate.
const duplicateWindow = 10 * time.Minute

// eventResponse is the JSON representation of an event returned by the API.
type eventResponse struct {
	ID              string            `json:"id"`
	ShortID         string            `json:"short_id"`
	Hook            string            `json:"hook"`
	Args            map[string]string `json:"args"`
	Schedule        string            `json:"schedule,omitempty"`
	IntervalSeconds int64             `json:"interval_seconds"`
	NextRunAt       time.Time         `json:"next_run_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toEventResponse(e *database.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		ShortID:         e.ShortID,
		Hook:            e.Hook,
		Args:            e.Args,
		Schedule:        e.Schedule,
		IntervalSeconds: e.IntervalSeconds,
		NextRunAt:       e.NextRunAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toEventResponses(events []*database.Event) []eventResponse {
	result := make([]eventResponse, len(events))
	for i, e := range events {
		result[i] = toEventResponse(e)
	}
	return result
}

// healthResponse is returned by GET /health.
type healthResponse struct {
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Version:       version.Version,
		UptimeSeconds: int64(time.Since(s.startedAt) / time.Second),
	})
}

// handleListEvents handles GET /events. The optional hook query param
// filters to a single hook.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var (
		events []*database.Event
		err    error
	)
	if hook := r.URL.Query().Get("hook"); hook != "" {
		events, err = s.db.GetEventsByHook(hook)
	} else {
		events, err = s.db.ListEvents()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

// scheduleEventRequest is the body of POST /events.
type scheduleEventRequest struct {
	Hook      string            `json:"hook"`
	Args      map[string]string `json:"args"`
	Schedule  string            `json:"schedule"`
	NextRunAt time.Time         `json:"next_run_at"`
}

// handleScheduleEvent handles POST /events.
func (s *Server) handleScheduleEvent(w http.ResponseWriter, r *http.Request) {
	var req scheduleEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newHTTPErrorf(http.StatusBadRequest, "invalid request body: %v", err))
		return
	}

	if err := config.ValidateName(req.Hook); err != nil {
		writeError(w, newHTTPErrorf(http.StatusBadRequest, "invalid hook: %v", err))
		return
	}

	nextRun := req.NextRunAt
	if nextRun.IsZero() {
		nextRun = time.Now()
	}

	var intervalSeconds int64
	if req.Schedule != "" {
		sched, ok := s.getRegistry().Get(req.Schedule)
		if !ok {
			writeError(w, newHTTPErrorf(http.StatusBadRequest, "unknown schedule '%s'", req.Schedule))
			return
		}
		intervalSeconds = sched.IntervalSeconds
	}

	dup, err := s.db.FindDuplicateEvent(req.Hook, req.Args, nextRun, duplicateWindow)
	if err != nil {
		writeError(w, err)
		return
	}
	if dup != nil {
		writeError(w, newHTTPErrorf(http.StatusConflict,
			"an event for hook '%s' with the same arguments already exists within %v (id %s)",
			req.Hook, duplicateWindow, dup.ShortID))
		return
	}

	event, err := s.db.CreateEvent(database.CreateEventParams{
		Hook:            req.Hook,
		Args:            req.Args,
		Schedule:        req.Schedule,
		IntervalSeconds: intervalSeconds,
		NextRunAt:       nextRun,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Printf("Scheduled event %s for hook '%s' at %s", event.ShortID, event.Hook, event.NextRunAt)
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

// resolveEvent looks up an event by full or short ID.
func (s *Server) resolveEvent(id string) (*database.Event, error) {
	event, err := s.db.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		event, err = s.db.GetEventByShortID(id)
		if err != nil {
			return nil, err
		}
	}
	if event == nil {
		return nil, newHTTPErrorf(http.StatusNotFound, "no event with ID '%s'", id)
	}
	return event, nil
}

// handleDeleteEvent handles DELETE /events/{id}.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.resolveEvent(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.db.DeleteEvent(event.ID); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Printf("Deleted event %s for hook '%s'", event.ShortID, event.Hook)
	w.WriteHeader(http.StatusNoContent)
}

// runResultResponse reports the outcome of firing an event.
type runResultResponse struct {
	ID      string `json:"id"`
	Hook    string `json:"hook"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleRunEvent handles POST /events/{id}/run: fire the event immediately,
// then reschedule (recurring) or delete (one-off) it.
func (s *Server) handleRunEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.resolveEvent(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	result := s.fireAndAdvance(r.Context(), event)
	writeJSON(w, http.StatusOK, result)
}

// handleListSchedules handles GET /schedules.
func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.getRegistry().Ordered())
}

// spawnResponse is returned by POST /spawn.
type spawnResponse struct {
	Due     int                 `json:"due"`
	DryRun  bool                `json:"dry_run"`
	Results []runResultResponse `json:"results,omitempty"`
}

// handleSpawn handles POST /spawn: fire everything currently due. With
// dry_run=true it only reports how many events are due, which is what the
// reachability probe uses.
func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	due, err := s.db.DueEvents(time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := spawnResponse{Due: len(due)}

	if r.URL.Query().Get("dry_run") == "true" {
		resp.DryRun = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	for _, event := range due {
		resp.Results = append(resp.Results, s.fireAndAdvance(r.Context(), event))
	}
	writeJSON(w, http.StatusOK, resp)
}
