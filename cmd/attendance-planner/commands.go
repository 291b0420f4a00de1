package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/attendance-planner/internal/ledger"
	"github.com/username/attendance-planner/pkg/dateutil"
)

func markCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <date> <office|ooo>",
		Short: "Mark a date as in-office or out-of-office",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateutil.ParseDate(args[0])
			if err != nil {
				return err
			}

			var status ledger.Status
			switch args[1] {
			case "office", "in_office":
				status = ledger.StatusInOffice
			case "ooo", "wfh":
				status = ledger.StatusOutOfOffice
			default:
				return fmt.Errorf("invalid status %q (expected office or ooo)", args[1])
			}

			led, _, err := openLedger()
			if err != nil {
				return err
			}

			if err := led.Mark(date, status); err != nil {
				return err
			}

			fmt.Printf("✅ %s marked as %s\n", dateutil.FormatDate(date), status)
			return nil
		},
	}
}

func unmarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unmark <date>",
		Short: "Clear the marking for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateutil.ParseDate(args[0])
			if err != nil {
				return err
			}

			led, _, err := openLedger()
			if err != nil {
				return err
			}

			if err := led.Unmark(date); err != nil {
				return err
			}

			fmt.Printf("✅ %s unmarked\n", dateutil.FormatDate(date))
			return nil
		},
	}
}

func weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [date]",
		Short: "Show weekly policy compliance for the week containing a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := argDate(args, 0)
			if err != nil {
				return err
			}

			led, cfg, err := openLedger()
			if err != nil {
				return err
			}

			result := led.WeeklyCompliance(date, weeklyPolicy(cfg))
			printCompliance(result, cfg.Policy.RequiredDaysPerWeek)
			return nil
		},
	}
}

func projectCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "project [date]",
		Short: "Check whether the week containing a date can still meet policy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := argDate(args, 0)
			if err != nil {
				return err
			}

			today := dateutil.Today()
			if asOf != "" {
				if today, err = dateutil.ParseDate(asOf); err != nil {
					return err
				}
			}

			led, cfg, err := openLedger()
			if err != nil {
				return err
			}

			result, err := led.ProjectRequirement(date, weeklyPolicy(cfg), today)
			if err != nil {
				return err
			}

			fmt.Printf("📅 Week of %s\n", dateutil.FormatDate(result.WeekStart))
			fmt.Printf("  Days short:     %d\n", result.DaysShort)
			fmt.Printf("  Remaining days: %d unmarked through end of week\n", result.RemainingDays)
			if result.Feasible {
				fmt.Println("  ✅ Policy can still be met this week")
			} else {
				fmt.Println("  ⚠️ Policy can no longer be met this week")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Treat this date as today (YYYY-MM-DD)")

	return cmd
}

func summaryCmd() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-week compliance over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := dateutil.ParseDate(fromStr)
			if err != nil {
				return err
			}
			to, err := dateutil.ParseDate(toStr)
			if err != nil {
				return err
			}

			led, cfg, err := openLedger()
			if err != nil {
				return err
			}

			fmt.Println("  Week       | Office | OOO | Unmarked | Status")
			fmt.Println("-------------+--------+-----+----------+--------")
			for result := range led.Summarize(from, to, weeklyPolicy(cfg)) {
				status := "short " + fmt.Sprint(result.DaysShort)
				if result.Compliant {
					status = "ok"
				}
				fmt.Printf("  %s |   %d    |  %d  |    %d     | %s\n",
					dateutil.FormatDate(result.WeekStart),
					result.InOfficeDays,
					result.OOODays,
					result.UnmarkedDays,
					status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "Range end (YYYY-MM-DD)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [reference-week-start]",
		Short: "Project rolling-policy alignment and suggest office days per week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, cfg, err := openLedger()
			if err != nil {
				return err
			}

			today := dateutil.Today()
			weekStart := cfg.Policy.GetWeekStart()

			// Default reference: start of next week
			reference := dateutil.WeekStartOn(today, weekStart).AddDate(0, 0, 7)
			if len(args) == 1 {
				if reference, err = dateutil.ParseDate(args[0]); err != nil {
					return err
				}
				if reference.Weekday() != weekStart {
					return fmt.Errorf("reference date %s is not a %s", args[0], weekStart)
				}
			}

			policy := rollingPolicy(cfg)
			status := led.RollingStatus(reference, policy)

			fmt.Printf("📊 Rolling policy: %d days over best %d of %d weeks\n",
				policy.RequiredDays, policy.BestWeeks, policy.WindowWeeks)
			fmt.Printf("  Best weeks total:  %d days\n", status.BestWeekTotal)
			fmt.Printf("  Planned days:      %d (marked from %s)\n",
				status.PlannedDays, dateutil.FormatDate(status.ReferenceWeek))
			fmt.Printf("  Projected total:   %d days\n", status.ProjectedTotal)
			if status.Aligned {
				fmt.Println("  ✅ Aligned with policy by the reference week")
			} else {
				fmt.Printf("  ⚠️ %d more day(s) needed by %s\n",
					status.DaysNeeded, dateutil.FormatDate(status.ReferenceWeek))
			}

			plan := led.SuggestPlan(reference, today, policy)
			fmt.Println("\n📅 Suggested office days per week:")
			for _, week := range plan.Weeks {
				fmt.Printf("  Week of %s: %d day(s)\n",
					dateutil.FormatDate(week.WeekStart), week.SuggestedDays)
			}
			if plan.Aligned {
				fmt.Printf("\n✅ Aligned with policy starting the week of %s\n",
					dateutil.FormatDate(plan.AlignedWeek))
			} else {
				fmt.Println("\n⚠️ Not projected to align within the planned weeks")
			}
			return nil
		},
	}
}

func argDate(args []string, i int) (time.Time, error) {
	if len(args) <= i {
		return dateutil.Today(), nil
	}
	return dateutil.ParseDate(args[i])
}

func printCompliance(result ledger.ComplianceResult, required int) {
	fmt.Printf("📅 Week of %s\n", dateutil.FormatDate(result.WeekStart))
	fmt.Printf("  In office: %d / %d required\n", result.InOfficeDays, required)
	fmt.Printf("  OOO:       %d\n", result.OOODays)
	fmt.Printf("  Unmarked:  %d\n", result.UnmarkedDays)
	if result.Compliant {
		fmt.Println("  ✅ Compliant")
	} else {
		fmt.Printf("  ⚠️ %d day(s) short\n", result.DaysShort)
	}
}
