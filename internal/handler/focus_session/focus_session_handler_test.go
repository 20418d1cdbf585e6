package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	service "github.com/dinerozz/focus-session-backend/internal/service/focus_session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Start(ctx context.Context, userID string) (*entity.SessionStatus, error) {
	args := m.Called(ctx, userID)
	status, _ := args.Get(0).(*entity.SessionStatus)
	return status, args.Error(1)
}

func (m *mockSessionService) RecordVisit(ctx context.Context, userID string, req entity.RecordVisitRequest) (bool, error) {
	args := m.Called(ctx, userID, req)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionService) Status(ctx context.Context, userID string) entity.SessionStatus {
	return m.Called(ctx, userID).Get(0).(entity.SessionStatus)
}

func (m *mockSessionService) End(ctx context.Context, userID string) (*entity.SessionSummary, error) {
	args := m.Called(ctx, userID)
	summary, _ := args.Get(0).(*entity.SessionSummary)
	return summary, args.Error(1)
}

func (m *mockSessionService) Analyze(ctx context.Context, userID string, req entity.AnalyzeSessionRequest) (*entity.SessionSummary, error) {
	args := m.Called(ctx, userID, req)
	summary, _ := args.Get(0).(*entity.SessionSummary)
	return summary, args.Error(1)
}

func (m *mockSessionService) Rate(ctx context.Context, userID, sessionID string, req entity.RateSessionRequest) (*entity.SessionSummary, error) {
	args := m.Called(ctx, userID, sessionID, req)
	summary, _ := args.Get(0).(*entity.SessionSummary)
	return summary, args.Error(1)
}

func (m *mockSessionService) Skip(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error) {
	args := m.Called(ctx, userID, sessionID)
	summary, _ := args.Get(0).(*entity.SessionSummary)
	return summary, args.Error(1)
}

func (m *mockSessionService) Latest(ctx context.Context, userID string) (*entity.SessionSummary, error) {
	args := m.Called(ctx, userID)
	summary, _ := args.Get(0).(*entity.SessionSummary)
	return summary, args.Error(1)
}

func (m *mockSessionService) List(ctx context.Context, userID string, filter entity.SessionListFilter) ([]entity.SessionSummary, error) {
	args := m.Called(ctx, userID, filter)
	sessions, _ := args.Get(0).([]entity.SessionSummary)
	return sessions, args.Error(1)
}

func (m *mockSessionService) Get(ctx context.Context, userID, sessionID string) (*entity.SessionSummary, error) {
	args := m.Called(ctx, userID, sessionID)
	summary, _ := args.Get(0).(*entity.SessionSummary)
	return summary, args.Error(1)
}

func (m *mockSessionService) Debrief(ctx context.Context, userID, sessionID string) (*entity.SessionDebrief, error) {
	args := m.Called(ctx, userID, sessionID)
	debrief, _ := args.Get(0).(*entity.SessionDebrief)
	return debrief, args.Error(1)
}

func (m *mockSessionService) HistoryReport(ctx context.Context, userID string) (*entity.HistoricalContext, error) {
	args := m.Called(ctx, userID)
	report, _ := args.Get(0).(*entity.HistoricalContext)
	return report, args.Error(1)
}

func (m *mockSessionService) TimeOfDay(ctx context.Context, userID string) (*entity.TimeOfDayReport, error) {
	args := m.Called(ctx, userID)
	report, _ := args.Get(0).(*entity.TimeOfDayReport)
	return report, args.Error(1)
}

func (m *mockSessionService) Hourly(ctx context.Context, userID string) ([]entity.HourlyProductivity, error) {
	args := m.Called(ctx, userID)
	hourly, _ := args.Get(0).([]entity.HourlyProductivity)
	return hourly, args.Error(1)
}

func (m *mockSessionService) ActivityImpact(ctx context.Context, userID string) (*entity.ActivityReport, error) {
	args := m.Called(ctx, userID)
	report, _ := args.Get(0).(*entity.ActivityReport)
	return report, args.Error(1)
}

func (m *mockSessionService) WeeklySummary(ctx context.Context, userID string) (*entity.WeeklySummary, error) {
	args := m.Called(ctx, userID)
	summary, _ := args.Get(0).(*entity.WeeklySummary)
	return summary, args.Error(1)
}

func (m *mockSessionService) Export(ctx context.Context, userID string) (*entity.SessionExport, error) {
	args := m.Called(ctx, userID)
	file, _ := args.Get(0).(*entity.SessionExport)
	return file, args.Error(1)
}

func (m *mockSessionService) Close() {}

func newRouter(svc service.SessionService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1/extension")
	group.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("extension_user_id", userID)
		}
		c.Next()
	})
	NewFocusSessionHandler(svc).RegisterRoutes(group)
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestStartSession(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("Start", mock.Anything, "u1").Return(&entity.SessionStatus{Active: true, SessionID: "session_1"}, nil).Once()
	svc.On("Start", mock.Anything, "u1").Return(nil, service.ErrSessionAlreadyActive).Once()

	r := newRouter(svc, "u1")

	w := do(r, http.MethodPost, "/api/v1/extension/sessions/start", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)

	var status entity.SessionStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "session_1", status.SessionID)

	w = do(r, http.MethodPost, "/api/v1/extension/sessions/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, decode(t, w).Success)
	svc.AssertExpectations(t)
}

func TestRequiresExtensionUser(t *testing.T) {
	svc := new(mockSessionService)
	r := newRouter(svc, "")

	w := do(r, http.MethodGet, "/api/v1/extension/sessions/status", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
}

func TestRecordVisit(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("RecordVisit", mock.Anything, "u1", mock.MatchedBy(func(req entity.RecordVisitRequest) bool {
		return req.URL == "https://github.com"
	})).Return(true, nil)

	r := newRouter(svc, "u1")

	w := do(r, http.MethodPost, "/api/v1/extension/sessions/visits", map[string]string{"url": "https://github.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "true", string(decode(t, w).Data))

	w = do(r, http.MethodPost, "/api/v1/extension/sessions/visits", map[string]string{"title": "no url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "RecordVisit", 1)
}

func TestEndSession(t *testing.T) {
	insight := "Excellent focus session!"
	svc := new(mockSessionService)
	svc.On("End", mock.Anything, "u1").Return(&entity.SessionSummary{SessionID: "session_1", AIInsight: &insight}, nil).Once()
	svc.On("End", mock.Anything, "u1").Return(nil, service.ErrNoActiveSession).Once()
	svc.On("End", mock.Anything, "u2").Return(nil, errors.New("failed to save session: boom")).Once()

	w := do(newRouter(svc, "u1"), http.MethodPost, "/api/v1/extension/sessions/end", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var summary entity.SessionSummary
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &summary))
	assert.Equal(t, insight, *summary.AIInsight)

	w = do(newRouter(svc, "u1"), http.MethodPost, "/api/v1/extension/sessions/end", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(newRouter(svc, "u2"), http.MethodPost, "/api/v1/extension/sessions/end", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateSession(t *testing.T) {
	stars := 5
	svc := new(mockSessionService)
	svc.On("Rate", mock.Anything, "u1", "session_1", entity.RateSessionRequest{Stars: 5, Tags: []string{"deep work"}}).
		Return(&entity.SessionSummary{SessionID: "session_1", UserRating: &entity.UserRating{Stars: &stars}}, nil)
	svc.On("Rate", mock.Anything, "u1", "missing", mock.Anything).Return(nil, service.ErrSessionNotFound)
	svc.On("Rate", mock.Anything, "u1", "session_rated", mock.Anything).Return(nil, service.ErrSessionAlreadyRated)

	r := newRouter(svc, "u1")

	w := do(r, http.MethodPost, "/api/v1/extension/sessions/session_1/rating", map[string]interface{}{"stars": 5, "tags": []string{"deep work"}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/extension/sessions/session_1/rating", map[string]interface{}{"stars": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/extension/sessions/missing/rating", map[string]interface{}{"stars": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/v1/extension/sessions/session_rated/rating", map[string]interface{}{"stars": 3})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSkipRating(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("Skip", mock.Anything, "u1", "session_1").Return(&entity.SessionSummary{SessionID: "session_1", UserRating: &entity.UserRating{Skipped: true}}, nil)
	svc.On("Skip", mock.Anything, "u1", "session_2").Return(nil, service.ErrSessionAlreadyRated)

	r := newRouter(svc, "u1")

	w := do(r, http.MethodPost, "/api/v1/extension/sessions/session_1/rating/skip", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/extension/sessions/session_2/rating/skip", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	svc.AssertExpectations(t)
}

func TestGetSessions(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("List", mock.Anything, "u1", entity.SessionListFilter{RatedOnly: true, Limit: 2}).
		Return([]entity.SessionSummary{{SessionID: "b"}, {SessionID: "a"}}, nil)
	svc.On("Latest", mock.Anything, "u1").Return(&entity.SessionSummary{SessionID: "b"}, nil)
	svc.On("Get", mock.Anything, "u1", "a").Return(&entity.SessionSummary{SessionID: "a"}, nil)

	r := newRouter(svc, "u1")

	w := do(r, http.MethodGet, "/api/v1/extension/sessions?ratedOnly=true&limit=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var sessions []entity.SessionSummary
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sessions))
	assert.Len(t, sessions, 2)

	w = do(r, http.MethodGet, "/api/v1/extension/sessions/latest", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/extension/sessions/a", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHistoryUnavailable(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("HistoryReport", mock.Anything, "u1").Return(nil, service.ErrHistoryUnavailable)

	w := do(newRouter(svc, "u1"), http.MethodGet, "/api/v1/extension/history/report", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportSessions(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("Export", mock.Anything, "u1").Return(&entity.SessionExport{FileName: "focus_sessions_20240304.xlsx", Content: []byte("PK")}, nil)

	w := do(newRouter(svc, "u1"), http.MethodGet, "/api/v1/extension/sessions/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "focus_sessions_20240304.xlsx")
	assert.Equal(t, "PK", w.Body.String())
}
