package worker

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stillpoint-app/stillpoint/internal/affinity"
	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleHealth handles health check requests.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	if err := s.store.Ping(); err != nil {
		status = "unhealthy"
	}
	writeJSON(w, map[string]interface{}{
		"status":  status,
		"version": s.version,
		"uptime":  time.Since(s.startTime).String(),
	})
}

// CreateSessionRequest is the body of POST /api/sessions. The session is
// already completed; the worker records it and folds its implicit feedback
// into the affinity profile.
type CreateSessionRequest struct {
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	Discipline string    `json:"discipline,omitempty"`
	Pose       string    `json:"pose,omitempty"`
	Notes      string    `json:"notes,omitempty"`

	// PlanID links the plan this session fulfills, if any.
	PlanID string `json:"plan_id,omitempty"`
	// TemplateID names the catalog entry practiced from, if any.
	TemplateID string `json:"template_id,omitempty"`
	// SavedAfter is true when the user saved the content right after.
	SavedAfter bool `json:"saved_after,omitempty"`
	// InsightText is an optional reflection captured with the session.
	InsightText string `json:"insight_text,omitempty"`
}

// CreateSessionResponse reports what the completion changed.
type CreateSessionResponse struct {
	Session       *models.Session         `json:"session"`
	FeedbackScore float64                 `json:"feedback_score"`
	Profile       *models.AffinityProfile `json:"profile"`
	DecayRan      bool                    `json:"decay_ran"`
}

// handleCreateSession records a completed session and applies its feedback.
func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StartedAt.IsZero() || req.EndedAt.IsZero() || !req.EndedAt.After(req.StartedAt) {
		writeError(w, http.StatusBadRequest, "started_at and ended_at must form a valid interval")
		return
	}
	ctx := r.Context()

	// Lifetime average before this session feeds the long-session check.
	history, err := s.sessions.ListSessions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	lifetimeAvg := models.AverageSessionMinutes(history)

	session := &models.Session{
		ID:              uuid.NewString(),
		StartedAt:       req.StartedAt,
		EndedAt:         req.EndedAt,
		DurationMinutes: req.EndedAt.Sub(req.StartedAt).Minutes(),
		Discipline:      req.Discipline,
		Pose:            req.Pose,
		Notes:           req.Notes,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	fctx := affinity.FeedbackContext{
		SavedAfter:      req.SavedAfter,
		InsightCaptured: req.InsightText != "",
	}

	if req.PlanID != "" {
		plan, err := s.plans.GetPlan(ctx, req.PlanID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if plan != nil {
			fctx.PlannedDurationMinutes = plan.PlannedDurationMinutes
			if err := s.plans.LinkSession(ctx, plan.ID, session.ID); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}

	var template *models.ContentTemplate
	if req.TemplateID != "" {
		template, err = s.templates.GetTemplate(ctx, req.TemplateID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if template != nil {
			if err := s.templates.MarkTemplateUsed(ctx, template.ID); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		if req.SavedAfter && template != nil {
			if err := s.templates.SaveTemplate(ctx, template.ID, time.Now()); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}

	if req.InsightText != "" {
		insight := &models.Insight{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			Text:      req.InsightText,
			CreatedAt: time.Now(),
		}
		if err := s.insightStore.CreateInsight(ctx, insight); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	score := s.deriver.Derive(session, fctx, lifetimeAvg)
	profile, err := s.updater.ApplyFeedback(ctx, session, template, score)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	decayRan, err := s.decay.DecayIfDue(ctx, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if decayRan {
		// Re-read so the response reflects the decayed weights.
		if profile, err = s.profiles.GetProfile(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, CreateSessionResponse{
		Session:       session,
		FeedbackScore: score,
		Profile:       profile,
		DecayRan:      decayRan,
	})
}

// handleListSessions returns the full session history, oldest first.
func (s *Service) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, sessions)
}

// CreatePlanRequest is the body of POST /api/plans.
type CreatePlanRequest struct {
	PlannedAt              time.Time `json:"planned_at"`
	PlannedDurationMinutes float64   `json:"planned_duration_minutes,omitempty"`
	Discipline             string    `json:"discipline,omitempty"`
}

// handleCreatePlan records a planned session.
func (s *Service) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlannedAt.IsZero() {
		writeError(w, http.StatusBadRequest, "planned_at is required")
		return
	}

	plan := &models.PracticePlan{
		ID:                     uuid.NewString(),
		PlannedAt:              req.PlannedAt,
		PlannedDurationMinutes: req.PlannedDurationMinutes,
		Discipline:             req.Discipline,
	}
	if err := s.plans.CreatePlan(r.Context(), plan); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, plan)
}

// handleListPlans returns all plans, oldest first.
func (s *Service) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.ListPlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, plans)
}

// handleListTemplates returns the full catalog.
func (s *Service) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.ListTemplates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, templates)
}

// loadTemplate resolves the {id} route param to a catalog entry, writing the
// error response itself when the entry is missing.
func (s *Service) loadTemplate(w http.ResponseWriter, r *http.Request) *models.ContentTemplate {
	id := chi.URLParam(r, "id")
	template, err := s.templates.GetTemplate(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if template == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return nil
	}
	return template
}

// handleSaveTemplate saves a catalog entry for later.
func (s *Service) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	template := s.loadTemplate(w, r)
	if template == nil {
		return
	}
	if err := s.templates.SaveTemplate(r.Context(), template.ID, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "saved"})
}

// handleUnsaveTemplate removes a save.
func (s *Service) handleUnsaveTemplate(w http.ResponseWriter, r *http.Request) {
	template := s.loadTemplate(w, r)
	if template == nil {
		return
	}
	if err := s.templates.UnsaveTemplate(r.Context(), template.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "unsaved"})
}

// handleDismissTemplate applies the dismissal penalty to the profile.
func (s *Service) handleDismissTemplate(w http.ResponseWriter, r *http.Request) {
	template := s.loadTemplate(w, r)
	if template == nil {
		return
	}
	profile, err := s.updater.ApplyDismissal(r.Context(), template)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, profile)
}

// handleFollowTemplate applies the follow boost to the profile.
func (s *Service) handleFollowTemplate(w http.ResponseWriter, r *http.Request) {
	template := s.loadTemplate(w, r)
	if template == nil {
		return
	}
	profile, err := s.updater.ApplyFollow(r.Context(), template)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, profile)
}
