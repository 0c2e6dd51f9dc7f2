package worker

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint-app/stillpoint/internal/affinity"
	"github.com/stillpoint-app/stillpoint/internal/config"
	"github.com/stillpoint-app/stillpoint/internal/db/gorm"
	"github.com/stillpoint-app/stillpoint/internal/insights"
	"github.com/stillpoint-app/stillpoint/internal/recommend"
	"github.com/stillpoint-app/stillpoint/internal/struggle"
	"github.com/stillpoint-app/stillpoint/internal/voice"
	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// zeroRand removes exploration noise so rankings are deterministic.
type zeroRand struct{}

func (zeroRand) Float64() float64 { return 0 }

// newTestService wires a service against a fresh in-memory database,
// skipping catalog loading and the file watcher.
func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := gorm.NewStore(gorm.Config{Path: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := &Service{
		version:       "test",
		config:        config.Default(),
		store:         store,
		sessions:      gorm.NewSessionStore(store),
		plans:         gorm.NewPlanStore(store),
		templates:     gorm.NewTemplateStore(store),
		profiles:      gorm.NewProfileStore(store),
		notifications: gorm.NewNotificationStore(store),
		insightStore:  gorm.NewInsightStore(store),
		voiceStore:    gorm.NewVoiceStore(store),
		router:        chi.NewRouter(),
		startTime:     time.Now(),
	}
	svc.deriver = affinity.NewDeriver(nil)
	svc.updater = affinity.NewUpdater(svc.profiles, nil)
	svc.decay = affinity.NewDecayScheduler(svc.profiles, nil, svc.updater.Locker())
	svc.detector = struggle.NewDetector(struggle.DefaultConfig())
	svc.scorer = recommend.NewScorer(recommend.DefaultConfig(), zeroRand{})
	svc.calculator = voice.NewCalculator(nil)
	svc.analyzer = insights.NewAnalyzer(insights.DefaultConfig())
	svc.setupRoutes()
	return svc
}

func doJSON(t *testing.T, svc *Service, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func TestHandleCreateSession_RecordsSession(t *testing.T) {
	svc := newTestService(t)

	start := time.Now().Add(-30 * time.Minute)
	rec := doJSON(t, svc, http.MethodPost, "/api/sessions", CreateSessionRequest{
		StartedAt:  start,
		EndedAt:    start.Add(25 * time.Minute),
		Discipline: "Vipassana",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CreateSessionResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.Session)
	assert.NotEmpty(t, resp.Session.ID)
	assert.InDelta(t, 25, resp.Session.DurationMinutes, 1e-9)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, 1, resp.Profile.TotalFeedbackEvents)

	rec = doJSON(t, svc, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []*models.Session
	decodeBody(t, rec, &listed)
	assert.Len(t, listed, 1)
}

func TestHandleCreateSession_RejectsBadInterval(t *testing.T) {
	svc := newTestService(t)

	now := time.Now()
	rec := doJSON(t, svc, http.MethodPost, "/api/sessions", CreateSessionRequest{
		StartedAt: now,
		EndedAt:   now.Add(-10 * time.Minute),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionFeedbackReachesProfile(t *testing.T) {
	svc := newTestService(t)
	seedTemplate(t, svc, &models.ContentTemplate{
		ID:         "t1",
		Title:      "Morning Focus",
		Discipline: "Vipassana",
		IntentTags: models.JSONStringArray{"focus", "clarity"},
	})

	// A long session with a save: strong positive feedback.
	start := time.Now().Add(-time.Hour)
	rec := doJSON(t, svc, http.MethodPost, "/api/sessions", CreateSessionRequest{
		StartedAt:  start,
		EndedAt:    start.Add(40 * time.Minute),
		Discipline: "Vipassana",
		TemplateID: "t1",
		SavedAfter: true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CreateSessionResponse
	decodeBody(t, rec, &resp)
	assert.Greater(t, resp.FeedbackScore, 0.0)
	assert.Greater(t, resp.Profile.Disciplines["Vipassana"], 1.0)
	assert.Greater(t, resp.Profile.Tags["focus"], 1.0)
	assert.Equal(t, 1, resp.Profile.TotalFeedbackEvents)
}

func TestDismissAndFollowEndpoints(t *testing.T) {
	svc := newTestService(t)
	seedTemplate(t, svc, &models.ContentTemplate{
		ID:         "t1",
		Title:      "Evening Calm",
		Discipline: "Yoga Nidra",
		IntentTags: models.JSONStringArray{"sleep"},
		BestTime:   "evening",
	})

	rec := doJSON(t, svc, http.MethodPost, "/api/templates/t1/dismiss", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.AffinityProfile
	decodeBody(t, rec, &profile)
	assert.InDelta(t, 0.93, profile.Disciplines["Yoga Nidra"], 1e-9)
	assert.InDelta(t, 0.93, profile.TimeSlots["evening"], 1e-9)

	rec = doJSON(t, svc, http.MethodPost, "/api/templates/t1/follow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &profile)
	assert.InDelta(t, 0.98, profile.Disciplines["Yoga Nidra"], 1e-9)

	rec = doJSON(t, svc, http.MethodPost, "/api/templates/absent/dismiss", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRecommendations(t *testing.T) {
	svc := newTestService(t)
	seedTemplate(t, svc, &models.ContentTemplate{
		ID: "fit", Title: "Fit", Discipline: "Vipassana", Karma: 16,
	})
	seedTemplate(t, svc, &models.ContentTemplate{
		ID: "gated", Title: "Gated", MinExperienceHours: 1000,
	})

	start := time.Now().Add(-2 * time.Hour)
	rec := doJSON(t, svc, http.MethodPost, "/api/sessions", CreateSessionRequest{
		StartedAt:  start,
		EndedAt:    start.Add(30 * time.Minute),
		Discipline: "Vipassana",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/recommendations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendationsResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Recommendations, 1, "experience-gated entry is excluded")
	assert.Equal(t, "fit", resp.Recommendations[0].Template.ID)
	assert.NotEmpty(t, resp.TopReason)
}

func TestHandleVoiceRecalculate_NotifiesOnce(t *testing.T) {
	svc := newTestService(t)

	// Saturates the validation-received factors, worth 25 points.
	body := VoiceRecalculateRequest{KarmaReceived: 100, ContentSavedByOthers: 25, MeditationCompletions: 64}
	rec := doJSON(t, svc, http.MethodPost, "/api/voice/recalculate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp VoiceRecalculateResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 25, resp.Score.Total)
	assert.Equal(t, models.TierPractitioner, resp.Tier)
	require.Len(t, resp.CrossedThresholds, 1)
	assert.Equal(t, 20, resp.CrossedThresholds[0].Score)

	// Same score again: no new crossing, notification count unchanged.
	rec = doJSON(t, svc, http.MethodPost, "/api/voice/recalculate", body)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = VoiceRecalculateResponse{}
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.CrossedThresholds)

	rec = doJSON(t, svc, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notifications []*models.Notification
	decodeBody(t, rec, &notifications)
	assert.Len(t, notifications, 1)
}

func TestHandleProfileResetRestoresNeutral(t *testing.T) {
	svc := newTestService(t)
	seedTemplate(t, svc, &models.ContentTemplate{
		ID: "t1", Title: "One", Discipline: "Zazen",
	})

	rec := doJSON(t, svc, http.MethodPost, "/api/templates/t1/follow", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodPost, "/api/profile/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile models.AffinityProfile
	decodeBody(t, rec, &profile)
	assert.Empty(t, profile.Disciplines)
	assert.Zero(t, profile.TotalFeedbackEvents)
}

func TestHandleInsightsBundle(t *testing.T) {
	svc := newTestService(t)

	rec := doJSON(t, svc, http.MethodPost, "/api/insights", CreateInsightRequest{Text: "breath steadies the mind"})
	require.Equal(t, http.StatusOK, rec.Code)
	var insight models.Insight
	decodeBody(t, rec, &insight)

	rec = doJSON(t, svc, http.MethodPost, "/api/insights/"+insight.ID+"/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var bundle InsightsBundle
	decodeBody(t, rec, &bundle)
	assert.Equal(t, insights.TrendNew, bundle.Commitment.Trend)
	assert.Equal(t, insights.GrowthNew, bundle.Growth.Direction)
	assert.Empty(t, bundle.Patterns)
}

func TestHandleStruggles_EmptyHistory(t *testing.T) {
	svc := newTestService(t)

	rec := doJSON(t, svc, http.MethodGet, "/api/struggles", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Signals []models.StruggleSignal `json:"signals"`
	}
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.Signals)
}

func seedTemplate(t *testing.T, svc *Service, tpl *models.ContentTemplate) {
	t.Helper()
	require.NoError(t, svc.templates.UpsertTemplate(context.Background(), tpl))
}
