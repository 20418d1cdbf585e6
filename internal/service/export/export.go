package export

import (
	"fmt"
	"strings"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const (
	sessionsSheet = "Sessions"
	domainsSheet  = "Domains"
)

var sessionHeaders = []string{
	"Session ID", "Start", "End", "Duration", "Minutes",
	"Total Visits", "Productive", "Distracting", "Neutral",
	"Productive %", "Distracting %", "Focus Switches",
	"Rating", "Tags", "Notes", "AI Insight",
}

var domainHeaders = []string{"Session ID", "Rank", "Domain", "Visits"}

// WriteSessionsXLSX renders the archive as a workbook with one row per session
// and a second sheet with the top domains of each session.
func WriteSessionsXLSX(sessions []entity.SessionSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sessionsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(domainsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, sessionsSheet, 1, toCells(sessionHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, domainsSheet, 1, toCells(domainHeaders)); err != nil {
		return nil, err
	}

	domainRow := 2
	for i, s := range sessions {
		if err := writeRow(f, sessionsSheet, i+2, sessionRow(s)); err != nil {
			return nil, err
		}

		for rank, d := range s.TopDomains {
			row := []interface{}{s.SessionID, rank + 1, d.Domain, d.Count}
			if err := writeRow(f, domainsSheet, domainRow, row); err != nil {
				return nil, err
			}
			domainRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func sessionRow(s entity.SessionSummary) []interface{} {
	m := s.Metrics

	var rating interface{} = ""
	var tags, notes string
	if s.UserRating != nil {
		if s.IsRated() {
			rating = s.Stars()
		} else if s.UserRating.Skipped {
			rating = "skipped"
		}
		tags = strings.Join(s.UserRating.Tags, ", ")
		notes = s.UserRating.Notes
	}

	insight := ""
	if s.AIInsight != nil {
		insight = *s.AIInsight
	}

	return []interface{}{
		s.SessionID,
		utils.FormatLocalDefault(s.StartTime),
		utils.FormatLocalDefault(s.EndTime),
		s.Duration.Formatted,
		s.Duration.Minutes,
		m.TotalVisits,
		m.ProductiveVisits,
		m.DistractingVisits,
		m.NeutralVisits,
		m.ProductivePercentage,
		m.DistractingPercentage,
		m.FocusSwitches,
		rating,
		tags,
		notes,
		insight,
	}
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
