package ai_analytics

import (
	"context"
	"net/http"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/model/response/wrapper"
	"github.com/dinerozz/focus-session-backend/internal/service/insight"
	"github.com/gin-gonic/gin"
)

type AIAnalyticsHandler struct {
	weekly  WeeklySummaryService
	decider InsightDecider
}

type WeeklySummaryService interface {
	WeeklySummary(ctx context.Context, userID string) (*entity.WeeklySummary, error)
}

type InsightDecider interface {
	Decide(summary entity.SessionSummary, recentRated []entity.SessionSummary, totalSessions int) insight.Decision
}

type InsightPreviewRequest struct {
	Session       entity.SessionSummary   `json:"session" binding:"required"`
	RecentRated   []entity.SessionSummary `json:"recentRated"`
	TotalSessions int                     `json:"totalSessions" binding:"min=0"`
}

type InsightPreview struct {
	Decision     insight.Decision `json:"decision"`
	LocalInsight string           `json:"localInsight"`
}

func NewAIAnalyticsHandler(weekly WeeklySummaryService, decider InsightDecider) *AIAnalyticsHandler {
	return &AIAnalyticsHandler{weekly: weekly, decider: decider}
}

// GetWeeklySummary godoc
// @Summary      Weekly summary
// @Description  Narrative summary of the last seven days. Falls back to a local summary when the model is unavailable or fewer than three sessions are rated.
// @Tags         /api/v1/extension/ai-analytics
// @Produce      json
// @Param        X-API-Key  header    string  true  "Extension API key"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.WeeklySummary}
// @Failure      401        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /extension/ai-analytics/weekly-summary [get]
func (h *AIAnalyticsHandler) GetWeeklySummary(c *gin.Context) {
	userID := c.GetString("extension_user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{
			Message: "Extension user is not authenticated",
			Success: false,
		})
		return
	}

	summary, err := h.weekly.WeeklySummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    summary,
		Success: true,
	})
}

// PreviewInsight godoc
// @Summary      Preview insight routing
// @Description  Show whether a session would be sent to the model and the local insight it would get otherwise
// @Tags         /api/v1/extension/ai-analytics
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header    string                 true  "Extension API key"
// @Param        request    body      InsightPreviewRequest  true  "Session and history"
// @Success      200        {object}  wrapper.ResponseWrapper{data=InsightPreview}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Router       /extension/ai-analytics/insight-preview [post]
func (h *AIAnalyticsHandler) PreviewInsight(c *gin.Context) {
	var req InsightPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	preview := InsightPreview{
		Decision:     h.decider.Decide(req.Session, req.RecentRated, req.TotalSessions),
		LocalInsight: insight.GenerateLocalInsight(req.Session),
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    preview,
		Success: true,
	})
}

func (h *AIAnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/ai-analytics")
	{
		analytics.GET("/weekly-summary", h.GetWeeklySummary)
		analytics.POST("/insight-preview", h.PreviewInsight)
	}
}
