package ai_analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dinerozz/focus-session-backend/config"
	"github.com/dinerozz/focus-session-backend/internal/entity"
)

var (
	ErrNotConfigured = errors.New("ai api key is not configured")
	ErrRateLimited   = errors.New("ai rate limit exceeded")
	ErrEmptyResponse = errors.New("no response from AI")
)

// InsightError is returned for every failed insight call. Callers treat it as
// recoverable and fall back to a local insight.
type InsightError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *InsightError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: AI API returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InsightError) Unwrap() error {
	return e.Err
}

// RateLimiter counts calls per key inside a window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type AIAnalyticsService struct {
	apiKey            string
	baseURL           string
	model             string
	temperature       float64
	weeklyTemperature float64
	maxTokens         int
	rateLimit         int
	httpClient        *http.Client
	limiter           RateLimiter
	logger            *slog.Logger
}

type OpenAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message Message `json:"message"`
}

// NewAIAnalyticsService builds the client. limiter may be nil, which disables rate limiting.
func NewAIAnalyticsService(cfg config.AIConfig, limiter RateLimiter, logger *slog.Logger) *AIAnalyticsService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AIAnalyticsService{
		apiKey:            cfg.APIKey,
		baseURL:           cfg.BaseURL,
		model:             cfg.Model,
		temperature:       cfg.Temperature,
		weeklyTemperature: cfg.WeeklyTemp,
		maxTokens:         cfg.MaxTokens,
		rateLimit:         cfg.RateLimitPerHour,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// GenerateInsight asks the model for a narrative insight on one finished session.
func (s *AIAnalyticsService) GenerateInsight(ctx context.Context, userID string, summary entity.SessionSummary, recent []entity.SessionSummary) (string, error) {
	const op = "generate insight"

	if err := s.allow(ctx, userID); err != nil {
		return "", &InsightError{Op: op, Err: err}
	}

	text, err := s.complete(ctx, BuildPrompt(summary, recent), s.temperature)
	if err != nil {
		return "", wrapInsightError(op, err)
	}

	s.logger.Info("ai insight generated", slog.String("session_id", summary.SessionID))
	return text, nil
}

// GenerateWeeklySummary asks the model for a weekly narrative. It needs at
// least three rated sessions.
func (s *AIAnalyticsService) GenerateWeeklySummary(ctx context.Context, userID string, sessions []entity.SessionSummary) (string, error) {
	const op = "generate weekly summary"

	stats := ComputeWeeklyStats(sessions)
	if stats == nil {
		return "", &InsightError{Op: op, Err: errors.New("not enough rated sessions")}
	}

	if err := s.allow(ctx, userID); err != nil {
		return "", &InsightError{Op: op, Err: err}
	}

	text, err := s.complete(ctx, BuildWeeklyPrompt(*stats), s.weeklyTemperature)
	if err != nil {
		return "", wrapInsightError(op, err)
	}

	return text, nil
}

func (s *AIAnalyticsService) allow(ctx context.Context, userID string) error {
	if s.apiKey == "" {
		return ErrNotConfigured
	}
	if s.limiter == nil || s.rateLimit <= 0 {
		return nil
	}

	ok, err := s.limiter.CheckRateLimit(ctx, fmt.Sprintf("ai_rate:%s", userID), s.rateLimit, time.Hour)
	if err != nil {
		// a broken limiter store should not block insights
		s.logger.Warn("failed to check ai rate limit", slog.String("error", err.Error()))
		return nil
	}
	if !ok {
		return ErrRateLimited
	}
	return nil
}

func (s *AIAnalyticsService) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	request := OpenAIRequest{
		Model: s.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: temperature,
		MaxTokens:   s.maxTokens,
	}

	text, err := s.callOpenAI(ctx, request)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return http.StatusText(e.code)
}

func wrapInsightError(op string, err error) *InsightError {
	var se *statusError
	if errors.As(err, &se) {
		return &InsightError{Op: op, StatusCode: se.code, Err: err}
	}
	return &InsightError{Op: op, Err: err}
}

func (s *AIAnalyticsService) callOpenAI(ctx context.Context, request OpenAIRequest) (string, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode}
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", fmt.Errorf("failed to decode AI response: %w", err)
	}

	if len(openAIResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return openAIResp.Choices[0].Message.Content, nil
}
