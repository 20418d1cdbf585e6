package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/model/response/wrapper"
	service "github.com/dinerozz/focus-session-backend/internal/service/focus_session"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type FocusSessionHandler struct {
	service service.SessionService
}

func NewFocusSessionHandler(service service.SessionService) *FocusSessionHandler {
	return &FocusSessionHandler{
		service: service,
	}
}

func extensionUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("extension_user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{
			Message: "Extension user is not authenticated",
			Success: false,
		})
		return "", false
	}
	return userID, true
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionAlreadyActive), errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrSessionExists), errors.Is(err, service.ErrSessionAlreadyRated):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRating), errors.Is(err, service.ErrInvalidTimeRange):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrHistoryUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, wrapper.ErrorWrapper{
		Message: err.Error(),
		Success: false,
	})
}

// StartSession godoc
// @Summary      Start focus session
// @Description  Start tracking a new focus session for the extension user
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      201        {object}  wrapper.ResponseWrapper{data=entity.SessionStatus}
// @Failure      401        {object}  wrapper.ErrorWrapper
// @Failure      409        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/start [post]
func (h *FocusSessionHandler) StartSession(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	status, err := h.service.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, wrapper.ResponseWrapper{
		Data:    status,
		Success: true,
	})
}

// RecordVisit godoc
// @Summary      Record visit
// @Description  Append a page visit to the active session. Browser-internal pages are ignored.
// @Tags         /api/v1/extension/sessions
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header    string                     true  "Extension API key"
// @Param        visit      body      entity.RecordVisitRequest  true  "Visit"
// @Success      200        {object}  wrapper.ResponseWrapper{data=bool}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      409        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/visits [post]
func (h *FocusSessionHandler) RecordVisit(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	var req entity.RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	recorded, err := h.service.RecordVisit(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    recorded,
		Success: true,
	})
}

// GetStatus godoc
// @Summary      Session status
// @Description  Active flag, session ID and elapsed seconds of the current session
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionStatus}
// @Router       /extension/sessions/status [get]
func (h *FocusSessionHandler) GetStatus(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    h.service.Status(c.Request.Context(), userID),
		Success: true,
	})
}

// EndSession godoc
// @Summary      End focus session
// @Description  Finalize the active session: metrics, focus analysis, insight, archive
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionSummary}
// @Failure      409        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/end [post]
func (h *FocusSessionHandler) EndSession(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	summary, err := h.service.End(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    summary,
		Success: true,
	})
}

// AnalyzeSession godoc
// @Summary      Analyze buffered session
// @Description  Finalize a session from a visit log buffered by the extension
// @Tags         /api/v1/extension/sessions
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header    string                        true  "Extension API key"
// @Param        session    body      entity.AnalyzeSessionRequest  true  "Visit log"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionSummary}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      409        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/analyze [post]
func (h *FocusSessionHandler) AnalyzeSession(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	var req entity.AnalyzeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	summary, err := h.service.Analyze(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    summary,
		Success: true,
	})
}

// GetLatestSession godoc
// @Summary      Latest session
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionSummary}
// @Failure      404        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/latest [get]
func (h *FocusSessionHandler) GetLatestSession(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	summary, err := h.service.Latest(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    summary,
		Success: true,
	})
}

// GetSessions godoc
// @Summary      Session archive
// @Description  Archived sessions, newest first
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true   "Extension API key"
// @Param        ratedOnly  query     bool    false  "Only rated sessions"
// @Param        limit      query     int     false  "Maximum number of sessions"
// @Success      200        {object}  wrapper.ResponseWrapper{data=[]entity.SessionSummary}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions [get]
func (h *FocusSessionHandler) GetSessions(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	var filter entity.SessionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid query parameters: " + err.Error(),
			Success: false,
		})
		return
	}

	sessions, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    sessions,
		Success: true,
	})
}

// GetSession godoc
// @Summary      Session by ID
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionSummary}
// @Failure      404        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/{sessionId} [get]
func (h *FocusSessionHandler) GetSession(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	summary, err := h.service.Get(c.Request.Context(), userID, c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    summary,
		Success: true,
	})
}

// GetDebrief godoc
// @Summary      Session debrief
// @Description  Session record with focus insights and comparison against earlier sessions
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionDebrief}
// @Failure      404        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/{sessionId}/debrief [get]
func (h *FocusSessionHandler) GetDebrief(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	debrief, err := h.service.Debrief(c.Request.Context(), userID, c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    debrief,
		Success: true,
	})
}

// RateSession godoc
// @Summary      Rate session
// @Tags         /api/v1/extension/sessions
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header    string                     true  "Extension API key"
// @Param        sessionId  path      string                     true  "Session ID"
// @Param        rating     body      entity.RateSessionRequest  true  "Rating"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionSummary}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      404        {object}  wrapper.ErrorWrapper
// @Failure      409        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/{sessionId}/rating [post]
func (h *FocusSessionHandler) RateSession(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	var req entity.RateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	summary, err := h.service.Rate(c.Request.Context(), userID, c.Param("sessionId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    summary,
		Success: true,
	})
}

// SkipRating godoc
// @Summary      Skip rating
// @Tags         /api/v1/extension/sessions
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SessionSummary}
// @Failure      404        {object}  wrapper.ErrorWrapper
// @Failure      409        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/{sessionId}/rating/skip [post]
func (h *FocusSessionHandler) SkipRating(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	summary, err := h.service.Skip(c.Request.Context(), userID, c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    summary,
		Success: true,
	})
}

// ExportSessions godoc
// @Summary      Export archive
// @Description  Download the session archive as an xlsx workbook
// @Tags         /api/v1/extension/sessions
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {file}    file
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /extension/sessions/export [get]
func (h *FocusSessionHandler) ExportSessions(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	file, err := h.service.Export(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.FileName))
	c.Data(http.StatusOK, xlsxContentType, file.Content)
}

// GetHistoryReport godoc
// @Summary      History report
// @Description  Trends, best and weak patterns, correlations, time of day, recommendations
// @Tags         /api/v1/extension/history
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.HistoricalContext}
// @Failure      503        {object}  wrapper.ErrorWrapper
// @Router       /extension/history/report [get]
func (h *FocusSessionHandler) GetHistoryReport(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	report, err := h.service.HistoryReport(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    report,
		Success: true,
	})
}

// GetTimeOfDay godoc
// @Summary      Time of day performance
// @Tags         /api/v1/extension/history
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.TimeOfDayReport}
// @Router       /extension/history/time-of-day [get]
func (h *FocusSessionHandler) GetTimeOfDay(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	report, err := h.service.TimeOfDay(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    report,
		Success: true,
	})
}

// GetHourly godoc
// @Summary      Productivity by hour
// @Tags         /api/v1/extension/history
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=[]entity.HourlyProductivity}
// @Router       /extension/history/hourly [get]
func (h *FocusSessionHandler) GetHourly(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	hourly, err := h.service.Hourly(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    hourly,
		Success: true,
	})
}

// GetActivityImpact godoc
// @Summary      Activity impact
// @Description  Domains that help or hurt session ratings, with an action plan
// @Tags         /api/v1/extension/history
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.ActivityReport}
// @Router       /extension/history/activity-impact [get]
func (h *FocusSessionHandler) GetActivityImpact(c *gin.Context) {
	userID, ok := extensionUserID(c)
	if !ok {
		return
	}

	report, err := h.service.ActivityImpact(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    report,
		Success: true,
	})
}

func (h *FocusSessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("/start", h.StartSession)
		sessions.POST("/visits", h.RecordVisit)
		sessions.GET("/status", h.GetStatus)
		sessions.POST("/end", h.EndSession)
		sessions.POST("/analyze", h.AnalyzeSession)
		sessions.GET("/latest", h.GetLatestSession)
		sessions.GET("/export", h.ExportSessions)
		sessions.GET("", h.GetSessions)
		sessions.GET("/:sessionId", h.GetSession)
		sessions.GET("/:sessionId/debrief", h.GetDebrief)
		sessions.POST("/:sessionId/rating", h.RateSession)
		sessions.POST("/:sessionId/rating/skip", h.SkipRating)
	}

	history := router.Group("/history")
	{
		history.GET("/report", h.GetHistoryReport)
		history.GET("/time-of-day", h.GetTimeOfDay)
		history.GET("/hourly", h.GetHourly)
		history.GET("/activity-impact", h.GetActivityImpact)
	}
}
