package ledger

import (
	"sort"
	"time"

	"github.com/username/attendance-planner/pkg/dateutil"
	"go.uber.org/zap"
)

// RollingPolicy defines the long-horizon attendance requirement: a
// total number of in-office days over the best-scoring weeks of a
// trailing window. The default mirrors the upstream policy of 24 days
// over the best 8 of the prior 12 weeks.
type RollingPolicy struct {
	RequiredDays int
	WindowWeeks  int
	BestWeeks    int
	WeekStart    time.Weekday
}

// DefaultRollingPolicy returns the default rolling policy
func DefaultRollingPolicy() RollingPolicy {
	return RollingPolicy{
		RequiredDays: 24,
		WindowWeeks:  12,
		BestWeeks:    8,
		WeekStart:    time.Monday,
	}
}

// WeekCount is the in-office day count for a single week
type WeekCount struct {
	WeekStart    time.Time
	InOfficeDays int
}

// RollingStatus summarizes standing against a rolling policy as of a
// reference week.
type RollingStatus struct {
	ReferenceWeek  time.Time
	BestWeekTotal  int         // in-office days summed over the best window weeks
	BestWeeks      []WeekCount // the weeks counted, ascending by week start
	PlannedDays    int         // in-office days marked on or after the reference week start
	ProjectedTotal int
	Aligned        bool
	DaysNeeded     int
}

// PlanWeek is a per-week suggestion of office days to attend
type PlanWeek struct {
	WeekStart     time.Time
	SuggestedDays int
}

// Plan is a chronological schedule of suggested office days that
// closes a rolling-policy shortfall.
type Plan struct {
	Weeks       []PlanWeek
	AlignedWeek time.Time // zero when the shortfall does not close within the plan
	Aligned     bool
}

// Suggestion caps carried over from the upstream policy: never suggest
// more than 3 office days in a week, out of 5 weekdays less any days
// already marked out of office.
const (
	maxSuggestedPerWeek = 3
	weekdaysPerWeek     = 5
)

// RollingStatus computes standing against a rolling policy as of the
// week containing reference. The window is the WindowWeeks weeks
// immediately preceding the reference week; the BestWeeks
// highest-scoring of them are summed, and in-office days marked from
// the reference week onward count toward the projected total.
func (l *Ledger) RollingStatus(reference time.Time, policy RollingPolicy) RollingStatus {
	refWeek := dateutil.WeekStartOn(reference, policy.WeekStart)

	counts := make([]WeekCount, 0, policy.WindowWeeks)
	for w := 1; w <= policy.WindowWeeks; w++ {
		week := refWeek.AddDate(0, 0, -7*w)
		c := l.WeeklyCompliance(week, Policy{WeekStart: policy.WeekStart})
		if c.InOfficeDays > 0 {
			counts = append(counts, WeekCount{WeekStart: week, InOfficeDays: c.InOfficeDays})
		}
	}

	// Best weeks first, then trim to the policy's count
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].InOfficeDays > counts[j].InOfficeDays
	})
	if len(counts) > policy.BestWeeks {
		counts = counts[:policy.BestWeeks]
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].WeekStart.Before(counts[j].WeekStart)
	})

	total := 0
	for _, c := range counts {
		total += c.InOfficeDays
	}

	planned := 0
	for key, status := range l.days {
		if status != StatusInOffice {
			continue
		}
		day, err := dateutil.ParseDate(key)
		if err != nil {
			continue
		}
		if !day.Before(refWeek) {
			planned++
		}
	}

	status := RollingStatus{
		ReferenceWeek:  refWeek,
		BestWeekTotal:  total,
		BestWeeks:      counts,
		PlannedDays:    planned,
		ProjectedTotal: total + planned,
	}
	status.Aligned = status.ProjectedTotal >= policy.RequiredDays
	status.DaysNeeded = policy.RequiredDays - status.ProjectedTotal
	if status.DaysNeeded < 0 {
		status.DaysNeeded = 0
	}

	l.logger.Debug("Rolling status computed",
		zap.String("reference_week", dateutil.FormatDate(refWeek)),
		zap.Int("best_week_total", total),
		zap.Int("planned_days", planned),
		zap.Bool("aligned", status.Aligned))

	return status
}

// SuggestPlan builds a chronological per-week schedule of suggested
// office days from the week containing today through five weeks past
// the reference week, closing the shortfall against the rolling
// policy. Weeks already carrying out-of-office marks have their
// suggestion capacity reduced accordingly.
func (l *Ledger) SuggestPlan(reference, today time.Time, policy RollingPolicy) Plan {
	status := l.RollingStatus(reference, policy)
	shortfall := policy.RequiredDays - status.BestWeekTotal
	if shortfall < 0 {
		shortfall = 0
	}

	startWeek := dateutil.WeekStartOn(today, policy.WeekStart)
	endWeek := dateutil.WeekStartOn(reference, policy.WeekStart).AddDate(0, 0, 7*5)

	plan := Plan{}
	running := status.BestWeekTotal
	for week := startWeek; !week.After(endWeek); week = week.AddDate(0, 0, 7) {
		c := l.WeeklyCompliance(week, Policy{WeekStart: policy.WeekStart})

		available := weekdaysPerWeek - c.OOODays
		if available > maxSuggestedPerWeek {
			available = maxSuggestedPerWeek
		}
		if available < 0 {
			available = 0
		}

		suggested := available
		if suggested > shortfall {
			suggested = shortfall
		}
		shortfall -= suggested
		running += suggested

		plan.Weeks = append(plan.Weeks, PlanWeek{WeekStart: week, SuggestedDays: suggested})

		if !plan.Aligned && running >= policy.RequiredDays {
			plan.Aligned = true
			plan.AlignedWeek = week
		}
	}

	l.logger.Debug("Plan suggested",
		zap.String("start_week", dateutil.FormatDate(startWeek)),
		zap.String("end_week", dateutil.FormatDate(endWeek)),
		zap.Int("weeks", len(plan.Weeks)),
		zap.Bool("aligned", plan.Aligned))

	return plan
}
