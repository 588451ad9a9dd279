package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/lunalog/internal/i18n"
	"github.com/terraincognita07/lunalog/internal/models"
	"github.com/terraincognita07/lunalog/internal/services"
)

type predictOptions struct {
	cycleLength int
	today       string
	upcoming    int
	icsPath     string
	language    string
}

func newPredictCommand(env *environment) *cobra.Command {
	options := predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Show cycle predictions from the local period log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd.OutOrStdout(), env, options)
		},
	}
	cmd.Flags().IntVar(&options.cycleLength, "cycle-length", 0, "average cycle length used until two periods are logged")
	cmd.Flags().StringVar(&options.today, "today", "", "evaluate as of this day, YYYY-MM-DD")
	cmd.Flags().IntVar(&options.upcoming, "upcoming", 0, "also list this many projected cycles")
	cmd.Flags().StringVar(&options.icsPath, "ics", "", "write projected cycles to this iCalendar file")
	cmd.Flags().StringVar(&options.language, "lang", "", "calendar label language (en, ru); defaults to the reminder language")
	return cmd
}

func runPredict(out io.Writer, env *environment, options predictOptions) error {
	location := env.cfg.Location()
	now := env.now()
	if strings.TrimSpace(options.today) != "" {
		day, err := services.ParseDay(options.today, location)
		if err != nil {
			return fmt.Errorf("invalid --today %q", options.today)
		}
		now = day
	}

	var settings *models.UserSettings
	if options.cycleLength != 0 {
		if !services.IsValidCycleLength(options.cycleLength) {
			return fmt.Errorf("--cycle-length must be between %d and %d", services.MinCycleLength, services.MaxCycleLength)
		}
		settings = &models.UserSettings{AverageCycleLength: options.cycleLength}
	}

	store, err := env.openStore()
	if err != nil {
		return err
	}
	logs := store.Load()

	summary, err := services.BuildCycleSummary(logs, settings, now, location)
	if errors.Is(err, services.ErrInsufficientData) {
		fmt.Fprintln(out, warnStyle.Render("Insufficient data: log a period first with `lunalog log add`."))
		return nil
	}
	if err != nil {
		return err
	}
	renderSummary(out, summary)

	count := options.upcoming
	if count <= 0 && options.icsPath == "" {
		return nil
	}
	cycles, err := services.ProjectUpcomingCycles(summary.LastPeriodStart, summary.CycleLength, services.ClampProjectionCount(count))
	if err != nil {
		return err
	}
	if options.upcoming > 0 {
		renderUpcoming(out, cycles)
	}
	if options.icsPath != "" {
		language := options.language
		if language == "" {
			language = env.cfg.Reminders.Language
		}
		labels := services.LocalizedCalendarLabels(i18n.Default(), language)
		feed := services.BuildCalendarFeed(cycles, labels, "local", now)
		if err := os.WriteFile(options.icsPath, []byte(feed), 0o600); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}
		fmt.Fprintln(out, mutedStyle.Render("Calendar written to "+options.icsPath))
	}
	return nil
}

func renderSummary(out io.Writer, summary services.CycleSummary) {
	source := "settings"
	if summary.ObservedAverage {
		source = "observed"
	}

	fmt.Fprintln(out, headerStyle.Render("Cycle overview"))
	fmt.Fprintln(out, row("Last period", services.FormatDay(summary.LastPeriodStart)))
	if summary.CurrentCycleDay > 0 {
		fmt.Fprintln(out, row("Cycle day", fmt.Sprintf("%d", summary.CurrentCycleDay)))
	}
	fmt.Fprintln(out, row("Cycle length", fmt.Sprintf("%d days (%s, avg %.1f)", summary.CycleLength, source, summary.AverageCycleLength)))
	fmt.Fprintln(out, row("Phase", summary.CurrentPhase))
	fmt.Fprintln(out, row("Fertile window", fertileStyle.Render(formatWindow(summary.FertileWindow))))
	fmt.Fprintln(out, row("Ovulation", services.FormatDay(summary.OvulationDate)))
	fmt.Fprintln(out, row("Next period", periodStyle.Render(formatWindow(summary.NextPeriod))))
	if summary.Stale {
		fmt.Fprintln(out, warnStyle.Render("Your last logged period is more than a week overdue; predictions may be stale."))
	}
}

func renderUpcoming(out io.Writer, cycles []services.ProjectedCycle) {
	fmt.Fprintln(out, headerStyle.Render("Upcoming"))
	for _, cycle := range cycles {
		fmt.Fprintf(out, "%2d. %s  %s\n",
			cycle.Index,
			periodStyle.Render("period "+formatWindow(cycle.Period)),
			fertileStyle.Render("fertile "+formatWindow(cycle.FertileWindow)),
		)
	}
}

func formatWindow(window services.PredictedWindow) string {
	return services.FormatDay(window.Start) + " to " + services.FormatDay(window.End)
}
