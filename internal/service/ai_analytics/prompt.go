package ai_analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
)

const systemPrompt = `You are an empathetic productivity coach for students and knowledge workers.
You receive anonymized browsing statistics from focus sessions: domains and categories, never page contents.
Answer in plain prose without markdown, headings or bullet points.`

const promptDomainsLimit = 5

// BuildPrompt renders the session metrics, the focus analysis and, when there
// is rated history, a short historical comparison. recent is ordered newest first.
func BuildPrompt(session entity.SessionSummary, recent []entity.SessionSummary) string {
	var b strings.Builder

	b.WriteString("Analyze this browsing session and provide a personalized, narrative insight in 2-3 paragraphs. Be encouraging, specific, and actionable.\n\n")
	b.WriteString("Session Data:\n")
	fmt.Fprintf(&b, "- Duration: %s (%d minutes)\n", session.Duration.Formatted, session.Duration.Minutes)
	fmt.Fprintf(&b, "- Total sites visited: %d\n", session.Metrics.TotalVisits)
	fmt.Fprintf(&b, "- Productive sites: %d (%d%%)\n", session.Metrics.ProductiveVisits, session.Metrics.ProductivePercentage)
	fmt.Fprintf(&b, "- Distracting sites: %d (%d%%)\n", session.Metrics.DistractingVisits, session.Metrics.DistractingPercentage)
	fmt.Fprintf(&b, "- Neutral sites: %d\n", session.Metrics.NeutralVisits)
	fmt.Fprintf(&b, "- Focus switches: %d\n", session.Metrics.FocusSwitches)
	fmt.Fprintf(&b, "- Top domains: %s", formatTopDomains(session.TopDomains))

	b.WriteString(focusSection(session.FocusAnalysis))

	history := historySection(session, recent)
	b.WriteString(history)

	hasHistory := history != ""
	b.WriteString("\n\nWrite a personalized insight that:\n")
	if hasHistory {
		b.WriteString("1. Acknowledges their session pattern with empathy and historical context\n")
	} else {
		b.WriteString("1. Acknowledges their session pattern with empathy\n")
	}
	b.WriteString("2. Highlights what they did well (especially if focus recovery time < 12 min or deep focus periods)\n")
	if hasHistory {
		b.WriteString("3. Compares to their typical performance and notes trends\n")
		b.WriteString("4. Offers specific recommendations based on their history\n")
	} else {
		b.WriteString("3. Offers 1-2 specific, actionable recommendations\n")
		b.WriteString("4. Mention the 12-minute focus recovery principle if relevant\n")
	}
	b.WriteString("5. Ends with encouragement\n\n")
	b.WriteString("Keep it conversational, warm, and under 150 words. Don't use bullet points. Write in natural paragraphs.")

	return b.String()
}

func formatTopDomains(domains []entity.DomainCount) string {
	if len(domains) == 0 {
		return "none recorded"
	}
	if len(domains) > promptDomainsLimit {
		domains = domains[:promptDomainsLimit]
	}

	parts := make([]string, len(domains))
	for i, d := range domains {
		parts[i] = fmt.Sprintf("%s (%d visits)", d.Domain, d.Count)
	}
	return strings.Join(parts, ", ")
}

func focusSection(report *entity.FocusAnalysisReport) string {
	if report == nil || !report.HasSignificantData {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nFocus & Context Switching:")

	if r := report.FocusRecovery; r != nil {
		fmt.Fprintf(&b, "\n- Average focus recovery time: %v minutes (after %d distractions)", r.AverageRecoveryMinutes, r.RecoveryCount)
		fmt.Fprintf(&b, "\n- Total time lost to recovery: %v minutes", r.TotalTimeLost)
	}
	if d := report.DeepFocus; d != nil {
		fmt.Fprintf(&b, "\n- Deep focus periods: %d (longest: %v min)", d.PeriodCount, d.LongestPeriodMinutes)
		fmt.Fprintf(&b, "\n- Total deep focus time: %v minutes", d.TotalDeepFocusMinutes)
	}
	if di := report.DistractionImpact; di != nil {
		fmt.Fprintf(&b, "\n- Time on distractions: %v minutes (%d%%)", di.TotalDistractionMinutes, di.DistractionPercentage)
	}
	fmt.Fprintf(&b, "\n- Total context switches: %d", report.TotalContextSwitches)

	return b.String()
}

func historySection(session entity.SessionSummary, recent []entity.SessionSummary) string {
	var rated []entity.SessionSummary
	for _, s := range recent {
		if s.IsRated() {
			rated = append(rated, s)
		}
	}
	if len(rated) == 0 {
		return ""
	}

	var ratingSum, minutesSum, productivitySum int
	for _, s := range rated {
		ratingSum += s.Stars()
		minutesSum += s.Duration.Minutes
		productivitySum += s.Metrics.ProductivePercentage
	}
	n := float64(len(rated))
	avgRating := float64(ratingSum) / n

	var b strings.Builder
	fmt.Fprintf(&b, "\n\nHistorical Context (Last %d Sessions):", len(rated))
	fmt.Fprintf(&b, "\n- Average rating: %.1f stars", avgRating)
	fmt.Fprintf(&b, "\n- Average duration: %d minutes", utils.RoundToInt(float64(minutesSum)/n))
	fmt.Fprintf(&b, "\n- Average productivity: %d%%", utils.RoundToInt(float64(productivitySum)/n))

	if len(rated) >= 3 {
		latest := 0
		for _, s := range rated[:3] {
			latest += s.Stars()
		}
		recentAvg := float64(latest) / 3

		switch {
		case recentAvg > avgRating+0.3:
			fmt.Fprintf(&b, "\n- Trend: Improving! (recent avg: %.1f stars)", recentAvg)
		case recentAvg < avgRating-0.3:
			fmt.Fprintf(&b, "\n- Trend: Declining (recent avg: %.1f stars)", recentAvg)
		default:
			b.WriteString("\n- Trend: Stable")
		}
	}

	if session.IsRated() {
		current := float64(session.Stars())
		if current > avgRating+0.5 {
			fmt.Fprintf(&b, "\n- This session: Above your average! (%d vs %.1f)", session.Stars(), avgRating)
		} else if current < avgRating-0.5 {
			fmt.Fprintf(&b, "\n- This session: Below your average (%d vs %.1f)", session.Stars(), avgRating)
		}
	}

	return b.String()
}

// WeeklyStats is the digest of one week of sessions sent to the model.
type WeeklyStats struct {
	TotalSessions        int
	RatedSessions        int
	TotalMinutes         int
	AverageRating        float64
	AverageProductivity  float64
	AverageFocusSwitches float64
	Trend                string
	Best                 entity.SessionSummary
	Worst                entity.SessionSummary
	TopDomains           []string
}

const (
	minRatedForWeekly   = 3
	weeklyDomainsLimit  = 3
	weeklyStrongTrend   = 0.5
	weeklyTrendMinDelta = 0.2
)

// ComputeWeeklyStats returns nil when fewer than three sessions are rated.
func ComputeWeeklyStats(sessions []entity.SessionSummary) *WeeklyStats {
	var rated []entity.SessionSummary
	for _, s := range sessions {
		if s.IsRated() {
			rated = append(rated, s)
		}
	}
	if len(rated) < minRatedForWeekly {
		return nil
	}

	stats := &WeeklyStats{
		TotalSessions: len(sessions),
		RatedSessions: len(rated),
		Trend:         "stable",
		Best:          rated[0],
		Worst:         rated[0],
	}

	var productivity, switches int
	for _, s := range sessions {
		stats.TotalMinutes += s.Duration.Minutes
		productivity += s.Metrics.ProductivePercentage
		switches += s.Metrics.FocusSwitches
	}
	stats.AverageProductivity = float64(productivity) / float64(len(sessions))
	stats.AverageFocusSwitches = float64(switches) / float64(len(sessions))

	stars := 0
	for _, s := range rated {
		stars += s.Stars()
		if s.Stars() > stats.Best.Stars() {
			stats.Best = s
		}
		if s.Stars() < stats.Worst.Stars() {
			stats.Worst = s
		}
	}
	stats.AverageRating = float64(stars) / float64(len(rated))

	if len(rated) >= 4 {
		half := len(rated) / 2
		first, second := averageStars(rated[:half]), averageStars(rated[half:])
		switch {
		case second > first+weeklyStrongTrend:
			stats.Trend = "improving significantly"
		case second > first+weeklyTrendMinDelta:
			stats.Trend = "improving"
		case second < first-weeklyStrongTrend:
			stats.Trend = "declining significantly"
		case second < first-weeklyTrendMinDelta:
			stats.Trend = "declining"
		}
	}

	stats.TopDomains = weeklyTopDomains(sessions)
	return stats
}

func averageStars(sessions []entity.SessionSummary) float64 {
	total := 0
	for _, s := range sessions {
		total += s.Stars()
	}
	return float64(total) / float64(len(sessions))
}

func weeklyTopDomains(sessions []entity.SessionSummary) []string {
	counts := entity.NewDomainCounts()
	for _, s := range sessions {
		for _, d := range s.TopDomains {
			counts.AddN(d.Domain, d.Count)
		}
	}

	entries := counts.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	domains := make([]string, 0, weeklyDomainsLimit)
	for i := 0; i < len(entries) && i < weeklyDomainsLimit; i++ {
		domains = append(domains, entries[i].Domain)
	}
	return domains
}

func BuildWeeklyPrompt(stats WeeklyStats) string {
	var b strings.Builder

	b.WriteString("Analyze this week's study sessions and provide a comprehensive weekly summary in 3-4 paragraphs. Be insightful, encouraging, and strategic.\n\n")
	b.WriteString("Weekly Overview:\n")
	fmt.Fprintf(&b, "- Total sessions: %d\n", stats.TotalSessions)
	fmt.Fprintf(&b, "- Rated sessions: %d\n", stats.RatedSessions)
	fmt.Fprintf(&b, "- Total study time: %s\n", utils.FormatHoursMinutes(stats.TotalMinutes))
	fmt.Fprintf(&b, "- Average rating: %.1f ⭐\n", stats.AverageRating)
	fmt.Fprintf(&b, "- Average productivity: %d%%\n", utils.RoundToInt(stats.AverageProductivity))
	fmt.Fprintf(&b, "- Average focus switches: %.1f\n", stats.AverageFocusSwitches)
	fmt.Fprintf(&b, "- Trend: %s\n\n", stats.Trend)

	b.WriteString("Session Highlights:\n")
	fmt.Fprintf(&b, "- Best session: %d⭐ with %d%% productivity\n", stats.Best.Stars(), stats.Best.Metrics.ProductivePercentage)
	fmt.Fprintf(&b, "- Worst session: %d⭐ with %d%% productivity\n", stats.Worst.Stars(), stats.Worst.Metrics.ProductivePercentage)
	fmt.Fprintf(&b, "- Most used domains: %s\n\n", strings.Join(stats.TopDomains, ", "))

	b.WriteString("Write a comprehensive weekly summary that:\n")
	b.WriteString("1. Celebrates wins and progress (be specific about what's working)\n")
	b.WriteString("2. Identifies patterns - what made your best sessions successful vs what held back weaker ones\n")
	fmt.Fprintf(&b, "3. Notes the trend direction and what it means (%s)\n", stats.Trend)
	b.WriteString("4. Provides 2-3 strategic recommendations for next week based on the data\n")
	b.WriteString("5. Ends with personalized encouragement and actionable next steps\n\n")
	b.WriteString("Keep it conversational yet insightful, around 200-250 words. Make it feel like a personal check-in from a supportive mentor who's been watching your progress all week.")

	return b.String()
}

// WeeklyFallbackSummary is used when the model is unavailable or the week has
// too little rated data.
func WeeklyFallbackSummary(sessions []entity.SessionSummary) string {
	var rated []entity.SessionSummary
	for _, s := range sessions {
		if s.IsRated() {
			rated = append(rated, s)
		}
	}
	if len(rated) == 0 {
		return "Keep tracking your sessions! Rate them to unlock personalized weekly summaries and deeper insights about your study patterns."
	}

	totalMinutes := 0
	for _, s := range sessions {
		totalMinutes += s.Duration.Minutes
	}
	avgRating := averageStars(rated)

	habit := "You're tracking your progress - that's the first step to improvement."
	if avgRating >= 3.5 {
		habit = "Great consistency! You're building strong study habits."
	}

	return fmt.Sprintf("This week you completed %d study sessions totaling %s with an average rating of %.1f stars. %s Keep rating your sessions to unlock deeper AI-powered insights about what helps you focus best.",
		len(sessions), utils.FormatHoursMinutes(totalMinutes), avgRating, habit)
}
