package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/lunalog/internal/logstore"
	"github.com/terraincognita07/lunalog/internal/models"
	"github.com/terraincognita07/lunalog/internal/services"
)

func newLogCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage the local period log",
	}
	cmd.AddCommand(
		newLogAddCommand(env),
		newLogListCommand(env),
		newLogDeleteCommand(env),
	)
	return cmd
}

func newLogAddCommand(env *environment) *cobra.Command {
	input := services.PeriodInput{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(input.EndDate) == "" {
				input.EndDate = input.StartDate
			}
			entry, err := services.ValidatePeriodInput(input, env.now(), env.cfg.Location())
			if err != nil {
				return err
			}

			store, err := env.openStore()
			if err != nil {
				return err
			}
			entry.CreatedAt = env.now().UTC()
			if _, err := store.Add(entry); err != nil {
				switch {
				case errors.Is(err, services.ErrPeriodOverlap):
					return fmt.Errorf("%s to %s overlaps an existing period", input.StartDate, input.EndDate)
				case errors.Is(err, logstore.ErrStorageUnavailable):
					return fmt.Errorf("period not saved: %w", err)
				default:
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged period %s (%s to %s)\n",
				entry.ID, services.FormatDay(entry.StartDate), services.FormatDay(entry.EndDate))
			return nil
		},
	}
	cmd.Flags().StringVar(&input.StartDate, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&input.EndDate, "end", "", "last day, YYYY-MM-DD (defaults to --start)")
	cmd.Flags().StringVar(&input.Flow, "flow", "", "none, light, medium or heavy")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newLogListCommand(env *environment) *cobra.Command {
	var sortFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, ok := services.ParseSortOrder(strings.ToLower(strings.TrimSpace(sortFlag)))
			if !ok {
				return fmt.Errorf("unknown sort order %q (use recent or oldest)", sortFlag)
			}
			store, err := env.openStore()
			if err != nil {
				return err
			}
			renderPeriodList(cmd.OutOrStdout(), store.Sorted(order))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortFlag, "sort", "recent", "recent or oldest")
	return cmd
}

func newLogDeleteCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a logged period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.openStore()
			if err != nil {
				return err
			}
			before := len(store.Load())
			remaining, err := store.Delete(args[0])
			if err != nil {
				return err
			}
			if len(remaining) == before {
				fmt.Fprintf(cmd.OutOrStdout(), "No period with id %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted period %s\n", args[0])
			return nil
		},
	}
}

func renderPeriodList(out io.Writer, logs []models.PeriodLog) {
	if len(logs) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No periods logged yet."))
		return
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d logged period(s)", len(logs))))
	for _, entry := range logs {
		days := services.CalendarDaysBetween(entry.StartDate, entry.EndDate) + 1
		line := fmt.Sprintf("%s  %s to %s  %d day(s)",
			entry.ID,
			services.FormatDay(entry.StartDate),
			services.FormatDay(entry.EndDate),
			days,
		)
		if entry.Flow != "" && entry.Flow != models.FlowNone {
			line += "  " + entry.Flow
		}
		fmt.Fprintln(out, periodStyle.Render(line))
	}
}
