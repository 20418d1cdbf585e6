package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dinerozz/focus-session-backend/config"
	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/repository"
	"github.com/dinerozz/focus-session-backend/internal/service/categorizer"
	"github.com/dinerozz/focus-session-backend/internal/service/focus_analyzer"
	service "github.com/dinerozz/focus-session-backend/internal/service/focus_session"
	"github.com/dinerozz/focus-session-backend/internal/service/insight"
	"github.com/dinerozz/focus-session-backend/internal/service/kvstore"
	metricsService "github.com/dinerozz/focus-session-backend/internal/service/metrics_service"
	"github.com/dinerozz/focus-session-backend/internal/service/pattern_analyzer"
	"github.com/spf13/cobra"
)

// offlineUser keys the archive used by the command.
const offlineUser = "offline"

// GetAnalyzeCmd runs the session pipeline on a visit log without the server.
// Insights are always local.
func GetAnalyzeCmd(cfg config.AnalyticsConfig, logger *slog.Logger) *cobra.Command {
	var (
		file        string
		start       string
		end         string
		archivePath string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a visit log offline and print the session summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(file)
			if err != nil {
				return err
			}
			if err := applyRange(&req, start, end); err != nil {
				return err
			}

			store, err := kvstore.NewSQLiteStore(archivePath)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := service.NewSessionService(service.Dependencies{
				Categorizer: categorizer.NewDefaultClassifier(),
				Summarizer:  metricsService.NewMetricsService(cfg.TopDomainsLimit),
				Focus:       focus_analyzer.NewAnalyzer(),
				History:     pattern_analyzer.NewAnalyzer(),
				Dispatcher:  insight.NewDispatcher(insight.PolicyFromConfig(cfg), nil, logger),
				Archive:     repository.NewSessionArchiveRepository(store, cfg.ArchiveLimit),
				Config:      cfg,
				Logger:      logger,
			})
			defer svc.Close()

			summary, err := svc.Analyze(context.Background(), offlineUser, req)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON visit log: an array of visits or {sessionId, startTime, endTime, visits}")
	cmd.Flags().StringVar(&start, "start", "", "Session start (RFC3339), defaults to the first visit")
	cmd.Flags().StringVar(&end, "end", "", "Session end (RFC3339), defaults to the last visit")
	cmd.Flags().StringVar(&archivePath, "archive", ":memory:", "SQLite file that keeps the offline session history")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func loadRequest(path string) (entity.AnalyzeSessionRequest, error) {
	var req entity.AnalyzeSessionRequest

	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read visit log: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &req.Visits)
	} else {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return req, fmt.Errorf("failed to parse visit log: %w", err)
	}

	return req, nil
}

func applyRange(req *entity.AnalyzeSessionRequest, start, end string) error {
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		req.StartTime = t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		req.EndTime = t
	}

	// visits only fill in the bounds that neither the flags nor the file set
	fillStart, fillEnd := req.StartTime.IsZero(), req.EndTime.IsZero()
	for _, v := range req.Visits {
		if v.Timestamp.IsZero() {
			continue
		}
		if fillStart && (req.StartTime.IsZero() || v.Timestamp.Before(req.StartTime)) {
			req.StartTime = v.Timestamp
		}
		if fillEnd && (req.EndTime.IsZero() || v.Timestamp.After(req.EndTime)) {
			req.EndTime = v.Timestamp
		}
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return errors.New("session range is unknown: pass --start and --end or timestamped visits")
	}
	return nil
}
