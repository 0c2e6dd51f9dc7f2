package worker

import (
	"context"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/stillpoint-app/stillpoint/internal/recommend"
	"github.com/stillpoint-app/stillpoint/internal/voice"
	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// RecommendationsResponse is the ranked candidate list with the reason the
// top pick leads.
type RecommendationsResponse struct {
	Recommendations []recommend.ScoredTemplate `json:"recommendations"`
	TopReason       string                     `json:"top_reason,omitempty"`
	Patterns        recommend.PracticePatterns `json:"patterns"`
}

// handleRecommendations ranks the catalog against recent practice.
// Concurrent identical requests share one computation via singleflight.
func (s *Service) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := s.config.RecommendResults
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result, err, _ := s.flight.Do("recommendations", func() (interface{}, error) {
		return s.buildRecommendations(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := result.(RecommendationsResponse)
	if len(resp.Recommendations) > limit {
		resp.Recommendations = resp.Recommendations[:limit]
	}
	writeJSON(w, resp)
}

func (s *Service) buildRecommendations(ctx context.Context) (RecommendationsResponse, error) {
	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return RecommendationsResponse{}, err
	}
	saved, err := s.templates.ListSavedTemplates(ctx)
	if err != nil {
		return RecommendationsResponse{}, err
	}
	savedIDs, err := s.templates.SavedTemplateIDs(ctx)
	if err != nil {
		return RecommendationsResponse{}, err
	}
	catalog, err := s.templates.ListTemplates(ctx)
	if err != nil {
		return RecommendationsResponse{}, err
	}

	patterns := recommend.ExtractPatterns(sessions, saved)
	ranked := s.scorer.Rank(catalog, patterns, savedIDs)

	resp := RecommendationsResponse{Recommendations: ranked, Patterns: patterns}
	if len(ranked) > 0 && len(ranked[0].Reasons) > 0 {
		resp.TopReason = ranked[0].Reasons[0]
	}
	return resp, nil
}

// handleStruggles runs the struggle heuristics over the recent window.
func (s *Service) handleStruggles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	planned, err := s.plans.PlannedMinutesBySession(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	signals := s.detector.Detect(sessions, planned, time.Now())
	writeJSON(w, map[string]interface{}{"signals": signals})
}

// VoiceRecalculateRequest carries the community counters the local store
// cannot know. Absent fields default to zero.
type VoiceRecalculateRequest struct {
	KarmaReceived         int `json:"karma_received,omitempty"`
	ContentSavedByOthers  int `json:"content_saved_by_others,omitempty"`
	MeditationCompletions int `json:"meditation_completions,omitempty"`
	MeditationsCreated    int `json:"meditations_created,omitempty"`
	KarmaGiven            int `json:"karma_given,omitempty"`
	CompletionsPerformed  int `json:"completions_performed,omitempty"`
}

// VoiceRecalculateResponse is the fresh score with any transition fired.
type VoiceRecalculateResponse struct {
	Score             models.VoiceScore        `json:"score"`
	Tier              models.VoiceTier         `json:"tier"`
	Transition        *models.TierTransition   `json:"transition,omitempty"`
	CrossedThresholds []models.GrowthThreshold `json:"crossed_thresholds,omitempty"`
}

// handleVoiceRecalculate recomputes the voice score from local practice data
// plus caller-supplied community counters, persists the snapshot and records
// threshold notifications.
func (s *Service) handleVoiceRecalculate(w http.ResponseWriter, r *http.Request) {
	var req VoiceRecalculateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	ctx := r.Context()

	inputs, err := s.buildVoiceInputs(ctx, req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	previous, err := s.voiceStore.LastScore(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	score := s.calculator.Calculate(inputs)
	now := time.Now()
	if err := s.voiceStore.SaveScore(ctx, score.Total, now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := VoiceRecalculateResponse{
		Score: score,
		Tier:  models.TierForScore(score.Total),
	}
	if transition, ok := voice.CheckTierTransition(previous, score.Total); ok {
		resp.Transition = &transition
	}
	for _, threshold := range voice.CrossedThresholds(previous, score.Total) {
		resp.CrossedThresholds = append(resp.CrossedThresholds, threshold)
		// Duplicate titles are silently skipped by the store.
		if _, err := s.notifications.CreateUnique(ctx, models.NotifyGrowthThreshold,
			threshold.Title, threshold.Message, now); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, resp)
}

// buildVoiceInputs assembles the score inputs: practice and contribution
// counters from local stores, community counters from the request.
func (s *Service) buildVoiceInputs(ctx context.Context, req VoiceRecalculateRequest) (models.VoiceInputs, error) {
	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return models.VoiceInputs{}, err
	}
	insightList, err := s.insightStore.ListInsights(ctx)
	if err != nil {
		return models.VoiceInputs{}, err
	}
	savedIDs, err := s.templates.SavedTemplateIDs(ctx)
	if err != nil {
		return models.VoiceInputs{}, err
	}

	shared := 0
	for _, insight := range insightList {
		if insight.Shared {
			shared++
		}
	}

	// Rolling 4-week session frequency.
	cutoff := time.Now().AddDate(0, 0, -28)
	recent := 0
	for _, session := range sessions {
		if session.StartedAt.After(cutoff) {
			recent++
		}
	}

	return models.VoiceInputs{
		TotalHours:         models.TotalPracticeHours(sessions),
		TotalSessions:      len(sessions),
		AvgSessionMinutes:  models.AverageSessionMinutes(sessions),
		SessionsPerWeekAvg: float64(recent) / 4,

		PearlsShared:       shared,
		MeditationsCreated: req.MeditationsCreated,

		KarmaReceived:         req.KarmaReceived,
		ContentSavedByOthers:  req.ContentSavedByOthers,
		MeditationCompletions: req.MeditationCompletions,

		KarmaGiven:           req.KarmaGiven,
		SavesMade:            len(savedIDs),
		CompletionsPerformed: req.CompletionsPerformed,
	}, nil
}
