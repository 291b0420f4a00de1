package ledger

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/username/attendance-planner/pkg/dateutil"
	"go.uber.org/zap"
)

// ErrInvalidPeriod is returned when a projection is requested for a
// week that has already fully elapsed.
var ErrInvalidPeriod = errors.New("week has already elapsed")

// Policy defines the weekly attendance requirement. It is supplied per
// query and never stored alongside the records.
type Policy struct {
	RequiredDaysPerWeek int
	WeekStart           time.Weekday
}

// DefaultPolicy returns the default weekly policy: 3 in-office days,
// weeks starting on Monday.
func DefaultPolicy() Policy {
	return Policy{
		RequiredDaysPerWeek: 3,
		WeekStart:           time.Monday,
	}
}

// ComplianceResult describes a single policy week.
type ComplianceResult struct {
	WeekStart    time.Time
	InOfficeDays int
	OOODays      int
	UnmarkedDays int
	Compliant    bool
	DaysShort    int
}

// ProjectionResult describes whether a not-yet-elapsed week can still
// meet policy.
type ProjectionResult struct {
	WeekStart     time.Time
	RemainingDays int
	DaysShort     int
	Feasible      bool
}

// Store persists the full date -> status mapping. Load-all / save-all
// only, no partial updates.
type Store interface {
	LoadAll() (map[string]Status, error)
	SaveAll(map[string]Status) error
}

// Ledger owns the date -> status mapping and answers compliance and
// projection queries. Dates are keyed by their YYYY-MM-DD string.
type Ledger struct {
	days   map[string]Status
	store  Store
	logger *zap.Logger
}

// New creates an empty ledger backed by the given store
func New(store Store, logger *zap.Logger) *Ledger {
	return &Ledger{
		days:   make(map[string]Status),
		store:  store,
		logger: logger,
	}
}

// Load replaces the ledger contents with the persisted state
func (l *Ledger) Load() error {
	days, err := l.store.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	if days == nil {
		days = make(map[string]Status)
	}
	l.days = days

	l.logger.Info("Ledger loaded",
		zap.Int("marked_days", len(l.days)))

	return nil
}

// Mark sets or overwrites the status for a date and persists the
// ledger. Any date is valid, past or future; re-marking overwrites.
func (l *Ledger) Mark(date time.Time, status Status) error {
	key := dateutil.FormatDate(date)
	l.days[key] = status

	if err := l.store.SaveAll(l.days); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	l.logger.Info("Date marked",
		zap.String("date", key),
		zap.String("status", status.String()))

	return nil
}

// Unmark removes the entry for a date, returning it to unmarked, and
// persists the ledger. Unmarking an absent date is a no-op.
func (l *Ledger) Unmark(date time.Time) error {
	key := dateutil.FormatDate(date)
	if _, ok := l.days[key]; !ok {
		return nil
	}
	delete(l.days, key)

	if err := l.store.SaveAll(l.days); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	l.logger.Info("Date unmarked",
		zap.String("date", key))

	return nil
}

// StatusOn returns the status for a date. The second return is false
// when the date is unmarked.
func (l *Ledger) StatusOn(date time.Time) (Status, bool) {
	status, ok := l.days[dateutil.FormatDate(date)]
	return status, ok
}

// MarkedDays returns the number of marked dates in the ledger
func (l *Ledger) MarkedDays() int {
	return len(l.days)
}

// WeeklyCompliance computes the compliance summary for the policy week
// containing date. Pure read: counts in-office, out-of-office and
// unmarked days over the 7-day window and compares against the policy.
func (l *Ledger) WeeklyCompliance(date time.Time, policy Policy) ComplianceResult {
	weekStart := dateutil.WeekStartOn(date, policy.WeekStart)

	result := ComplianceResult{WeekStart: weekStart}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		switch status, ok := l.StatusOn(day); {
		case !ok:
			result.UnmarkedDays++
		case status == StatusInOffice:
			result.InOfficeDays++
		case status == StatusOutOfOffice:
			result.OOODays++
		}
	}

	result.Compliant = result.InOfficeDays >= policy.RequiredDaysPerWeek
	result.DaysShort = policy.RequiredDaysPerWeek - result.InOfficeDays
	if result.DaysShort < 0 {
		result.DaysShort = 0
	}

	return result
}

// ProjectRequirement answers whether the policy week containing date
// can still meet policy as of today. Remaining days are the currently
// unmarked dates from today (or the week start, whichever is later)
// through the end of the week. Fails with ErrInvalidPeriod when the
// week has fully elapsed.
func (l *Ledger) ProjectRequirement(date time.Time, policy Policy, today time.Time) (ProjectionResult, error) {
	weekStart := dateutil.WeekStartOn(date, policy.WeekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	if weekEnd.Before(dateutil.StartOfDay(today)) {
		return ProjectionResult{}, fmt.Errorf("projection for week of %s: %w",
			dateutil.FormatDate(weekStart), ErrInvalidPeriod)
	}

	from := dateutil.StartOfDay(today)
	if from.Before(weekStart) {
		from = weekStart
	}

	remaining := 0
	for day := from; !day.After(weekEnd); day = day.AddDate(0, 0, 1) {
		if _, ok := l.StatusOn(day); !ok {
			remaining++
		}
	}

	compliance := l.WeeklyCompliance(date, policy)

	result := ProjectionResult{
		WeekStart:     weekStart,
		RemainingDays: remaining,
		DaysShort:     compliance.DaysShort,
		Feasible:      compliance.DaysShort <= remaining,
	}

	l.logger.Debug("Projection computed",
		zap.String("week_start", dateutil.FormatDate(weekStart)),
		zap.Int("remaining_days", result.RemainingDays),
		zap.Int("days_short", result.DaysShort),
		zap.Bool("feasible", result.Feasible))

	return result, nil
}

// Summarize yields one ComplianceResult per policy week fully or
// partially inside [from, to], in ascending week order. Boundary weeks
// keep their full 7-day window even where it extends outside the
// range. The sequence is lazy and restartable.
func (l *Ledger) Summarize(from, to time.Time, policy Policy) iter.Seq[ComplianceResult] {
	return func(yield func(ComplianceResult) bool) {
		if to.Before(from) {
			return
		}
		first := dateutil.WeekStartOn(from, policy.WeekStart)
		last := dateutil.WeekStartOn(to, policy.WeekStart)

		for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
			if !yield(l.WeeklyCompliance(week, policy)) {
				return
			}
		}
	}
}
