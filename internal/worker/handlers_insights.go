package worker

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/stillpoint-app/stillpoint/internal/insights"
	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// CreateInsightRequest is the body of POST /api/insights.
type CreateInsightRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}

// handleCreateInsight records a reflection.
func (s *Service) handleCreateInsight(w http.ResponseWriter, r *http.Request) {
	var req CreateInsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	insight := &models.Insight{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if err := s.insightStore.CreateInsight(r.Context(), insight); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, insight)
}

// handleShareInsight flags an insight as shared.
func (s *Service) handleShareInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.insightStore.MarkShared(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "shared"})
}

// InsightsBundle is the full analysis view: pattern cards, commitment stats,
// growth trajectory and suggested actions.
type InsightsBundle struct {
	Patterns   []models.PatternCard     `json:"patterns"`
	Commitment models.CommitmentStats   `json:"commitment"`
	Growth     models.GrowthTrajectory  `json:"growth"`
	Actions    []models.SuggestedAction `json:"actions"`
}

// handleInsightsBundle runs the four analyses over the current snapshot.
// Concurrent identical requests share one computation via singleflight.
func (s *Service) handleInsightsBundle(w http.ResponseWriter, r *http.Request) {
	result, err, _ := s.flight.Do("insights", func() (interface{}, error) {
		return s.buildInsightsBundle(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, result)
}

func (s *Service) buildInsightsBundle(ctx context.Context) (InsightsBundle, error) {
	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return InsightsBundle{}, err
	}
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return InsightsBundle{}, err
	}
	savedTemplates, err := s.templates.ListSavedTemplates(ctx)
	if err != nil {
		return InsightsBundle{}, err
	}
	usedIDs, err := s.templates.UsedTemplateIDs(ctx)
	if err != nil {
		return InsightsBundle{}, err
	}
	courses, err := s.templates.ListCourses(ctx)
	if err != nil {
		return InsightsBundle{}, err
	}
	insightList, err := s.insightStore.ListInsights(ctx)
	if err != nil {
		return InsightsBundle{}, err
	}

	// Resolve the sessions linked from completed plans.
	linked := make([]string, 0, len(plans))
	for _, plan := range plans {
		if plan.Completed() {
			linked = append(linked, plan.SessionID)
		}
	}
	sessionsByID, err := s.sessions.SessionsByID(ctx, linked)
	if err != nil {
		return InsightsBundle{}, err
	}

	now := time.Now()
	return InsightsBundle{
		Patterns:   s.analyzer.PracticeShape(sessions),
		Commitment: s.analyzer.CommitmentStats(plans, sessionsByID, now),
		Growth:     s.analyzer.GrowthTrajectory(sessions),
		Actions: s.analyzer.SuggestedActions(insights.SuggestionInputs{
			Sessions:        sessions,
			SavedTemplates:  savedTemplates,
			UsedTemplateIDs: usedIDs,
			Courses:         courses,
			Insights:        insightList,
		}),
	}, nil
}

// handleGetProfile returns the current affinity profile, creating a neutral
// one on first read.
func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.GetProfile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, profile)
}

// handleResetProfile discards all learned weights.
func (s *Service) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.ResetProfile(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "reset"})
}

// handleListNotifications returns milestone notifications, newest first.
func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.notifications.ListNotifications(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, notifications)
}
