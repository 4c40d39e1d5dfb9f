package server

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/odyssey/cronctl/internal/database"
)

// runDispatchLoop fires due events on every tick until ctx is cancelled. The
// first cycle runs immediately on startup so a restart doesn't delay overdue
// events by a full tick.
func (s *Server) runDispatchLoop(ctx context.Context) {
	s.runDispatchCycle(ctx)

	ticker := time.NewTicker(s.getConfig().GetDispatchTick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDispatchCycle(ctx)
		}
	}
}

// runDispatchCycle fires everything currently due.
func (s *Server) runDispatchCycle(ctx context.Context) {
	due, err := s.db.DueEvents(time.Now())
	if err != nil {
		s.logger.Printf("Dispatch: failed to query due events: %v", err)
		return
	}

	for _, event := range due {
		if ctx.Err() != nil {
			return
		}
		s.fireAndAdvance(ctx, event)
	}
}

// fireAndAdvance runs the event's hook command, then advances a recurring
// event to its next occurrence or removes a one-off. Advancing happens
// regardless of whether the hook command succeeded, so a failing hook is not
// re-fired on every tick.
func (s *Server) fireAndAdvance(ctx context.Context, event *database.Event) runResultResponse {
	result := runResultResponse{ID: event.ShortID, Hook: event.Hook}

	if err := s.runHook(ctx, event); err != nil {
		s.logger.Printf("Event %s (hook '%s') failed: %v", event.ShortID, event.Hook, err)
		result.Error = err.Error()
	} else {
		result.Success = true
	}

	if event.IsRecurring() {
		if err := s.db.RescheduleEvent(event, time.Now()); err != nil {
			s.logger.Printf("Failed to reschedule event %s: %v", event.ShortID, err)
		}
	} else {
		if _, err := s.db.DeleteEvent(event.ID); err != nil {
			s.logger.Printf("Failed to delete one-off event %s: %v", event.ShortID, err)
		}
	}

	return result
}

// runHook executes the hook command configured for the event, bounded by the
// hook's timeout and the global concurrency cap.
func (s *Server) runHook(ctx context.Context, event *database.Event) error {
	hookCfg, ok := s.getConfig().Hooks[event.Hook]
	if !ok {
		return newHTTPErrorf(http.StatusUnprocessableEntity, "no hook named '%s' is configured", event.Hook)
	}

	select {
	case s.runSlots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.runSlots }()

	runCtx, cancel := context.WithTimeout(ctx, hookCfg.GetTimeout())
	defer cancel()

	cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", hookCfg.Command)
	cmd.Env = append(os.Environ(),
		"CRONCTL_HOOK="+event.Hook,
		"CRONCTL_EVENT_ID="+event.ID,
	)
	for key, value := range event.Args {
		cmd.Env = append(cmd.Env, "CRONCTL_ARG_"+key+"="+value)
	}

	start := time.Now()
	output, err := cmd.CombinedOutput()
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		s.logger.Printf("Hook '%s' output:\n%s", event.Hook, output)
		return newHTTPErrorf(http.StatusInternalServerError, "hook command failed after %v: %v", elapsed, err)
	}

	s.logger.Printf("Hook '%s' completed in %v", event.Hook, elapsed)
	return nil
}
