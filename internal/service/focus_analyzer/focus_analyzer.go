package focus_analyzer

import (
	"math"
	"time"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
)

const (
	maxEpisodeMinutes     = 60.0
	deepFocusMinMinutes   = 5.0
	minVisitsForRecovery  = 3
	minVisitsForDeepFocus = 2
)

// Analyzer detects recovery, deep focus and distraction runs in a categorized
// visit sequence. It is stateless.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func minutesBetween(from, to time.Time) float64 {
	return to.Sub(from).Minutes()
}

// validEpisode rejects clock skew and long gaps.
func validEpisode(minutes float64) bool {
	return minutes > 0 && minutes < maxEpisodeMinutes
}

// CalculateFocusRecoveryTime measures the time from the latest distracting visit
// to the next productive one.
func (a *Analyzer) CalculateFocusRecoveryTime(visits []entity.CategorizedVisit) *entity.FocusRecovery {
	if len(visits) < minVisitsForRecovery {
		return nil
	}

	var instances []entity.RecoveryInstance
	lastDistraction := -1

	for i, current := range visits {
		switch current.Category {
		case entity.CategoryDistracting:
			lastDistraction = i
		case entity.CategoryProductive:
			if lastDistraction < 0 {
				continue
			}
			source := visits[lastDistraction]
			minutes := minutesBetween(source.Timestamp, current.Timestamp)
			if validEpisode(minutes) {
				instances = append(instances, entity.RecoveryInstance{
					DistractionURL:    source.URL,
					DistractionDomain: source.Domain,
					RecoveryMinutes:   utils.RoundToOneDecimal(minutes),
					ReturnURL:         current.URL,
					ReturnDomain:      current.Domain,
				})
			}
			lastDistraction = -1
		}
	}

	if len(instances) == 0 {
		return nil
	}

	total, maxRecovery, minRecovery := 0.0, 0.0, math.MaxFloat64
	for _, inst := range instances {
		total += inst.RecoveryMinutes
		maxRecovery = math.Max(maxRecovery, inst.RecoveryMinutes)
		minRecovery = math.Min(minRecovery, inst.RecoveryMinutes)
	}

	return &entity.FocusRecovery{
		AverageRecoveryMinutes: utils.RoundToOneDecimal(total / float64(len(instances))),
		MaxRecoveryMinutes:     utils.RoundToOneDecimal(maxRecovery),
		MinRecoveryMinutes:     utils.RoundToOneDecimal(minRecovery),
		RecoveryCount:          len(instances),
		RecoveryInstances:      instances,
		TotalTimeLost:          utils.RoundToOneDecimal(total),
	}
}

// DetectDeepFocusPeriods finds maximal productive runs spanning at least five
// minutes from their first to their last visit.
func (a *Analyzer) DetectDeepFocusPeriods(visits []entity.CategorizedVisit) *entity.DeepFocus {
	if len(visits) < minVisitsForDeepFocus {
		return nil
	}

	var periods []entity.DeepFocusPeriod
	var run []entity.CategorizedVisit

	closeRun := func() {
		if len(run) == 0 {
			return
		}
		start, end := run[0].Timestamp, run[len(run)-1].Timestamp
		minutes := minutesBetween(start, end)
		if minutes >= deepFocusMinMinutes {
			periods = append(periods, entity.DeepFocusPeriod{
				StartTime:       start,
				EndTime:         end,
				DurationMinutes: utils.RoundToOneDecimal(minutes),
				URLCount:        len(run),
				Domains:         distinctDomains(run),
			})
		}
		run = nil
	}

	for _, v := range visits {
		if v.Category == entity.CategoryProductive {
			run = append(run, v)
			continue
		}
		closeRun()
	}
	closeRun()

	if len(periods) == 0 {
		return nil
	}

	total, longest := 0.0, 0.0
	for _, p := range periods {
		total += p.DurationMinutes
		longest = math.Max(longest, p.DurationMinutes)
	}

	return &entity.DeepFocus{
		PeriodCount:           len(periods),
		TotalDeepFocusMinutes: utils.RoundToOneDecimal(total),
		AveragePeriodMinutes:  utils.RoundToOneDecimal(total / float64(len(periods))),
		LongestPeriodMinutes:  utils.RoundToOneDecimal(longest),
		Periods:               periods,
	}
}

// MeasureDistractionImpact sums distracting runs. A run ends at the timestamp of
// the visit that follows it, or at its own last visit when the session ends
// mid-run.
func (a *Analyzer) MeasureDistractionImpact(visits []entity.CategorizedVisit, totalMinutes int) *entity.DistractionImpact {
	if len(visits) == 0 || totalMinutes <= 0 {
		return nil
	}

	distracting := 0.0
	runs := 0
	runStart := -1

	closeRun := func(end time.Time) {
		minutes := minutesBetween(visits[runStart].Timestamp, end)
		if validEpisode(minutes) {
			distracting += minutes
			runs++
		}
		runStart = -1
	}

	for i, v := range visits {
		if v.Category == entity.CategoryDistracting {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			closeRun(v.Timestamp)
		}
	}
	if runStart >= 0 {
		closeRun(visits[len(visits)-1].Timestamp)
	}

	average := 0.0
	if runs > 0 {
		average = utils.RoundToOneDecimal(distracting / float64(runs))
	}

	return &entity.DistractionImpact{
		TotalDistractionMinutes:  utils.RoundToOneDecimal(distracting),
		DistractionPercentage:    utils.RoundToInt(distracting / float64(totalMinutes) * 100),
		ProductiveMinutes:        utils.RoundToOneDecimal(float64(totalMinutes) - distracting),
		DistractionSessionCount:  runs,
		AverageDistractionLength: average,
	}
}

// CountContextSwitches counts every category change, neutral included.
func CountContextSwitches(visits []entity.CategorizedVisit) int {
	switches := 0
	for i := 1; i < len(visits); i++ {
		if visits[i].Category != visits[i-1].Category {
			switches++
		}
	}
	return switches
}

func (a *Analyzer) GenerateContextSwitchReport(visits []entity.CategorizedVisit, totalMinutes int) *entity.FocusAnalysisReport {
	if len(visits) == 0 {
		return nil
	}

	recovery := a.CalculateFocusRecoveryTime(visits)
	deepFocus := a.DetectDeepFocusPeriods(visits)

	return &entity.FocusAnalysisReport{
		TotalContextSwitches: CountContextSwitches(visits),
		FocusRecovery:        recovery,
		DeepFocus:            deepFocus,
		DistractionImpact:    a.MeasureDistractionImpact(visits, totalMinutes),
		HasSignificantData:   recovery != nil || deepFocus != nil,
	}
}

func distinctDomains(visits []entity.CategorizedVisit) []string {
	seen := make(map[string]struct{}, len(visits))
	domains := make([]string, 0, len(visits))
	for _, v := range visits {
		if _, ok := seen[v.Domain]; ok {
			continue
		}
		seen[v.Domain] = struct{}{}
		domains = append(domains, v.Domain)
	}
	return domains
}
