package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/service"
)

const weekHeader = "Su Mo Tu We Th Fr Sa"

var statusColors = map[model.Status]*color.Color{
	model.StatusDone:    color.New(color.FgBlack, color.BgGreen),
	model.StatusPartial: color.New(color.FgBlack, color.BgYellow),
	model.StatusMissed:  color.New(color.FgWhite, color.BgRed),
	model.StatusPlanned: color.New(color.FgCyan, color.Bold),
}

var todayColor = color.New(color.ReverseVideo)

// renderCalendar prints the twelve months of view as week rows, days colored by status.
func renderCalendar(w io.Writer, view *service.YearView) {
	for m := time.January; m <= time.December; m++ {
		fmt.Fprintf(w, "%s %d\n%s\n", m, view.Year, weekHeader)

		cells := view.Calendar[int(m)]
		for start := 0; start < len(cells); start += 7 {
			end := start + 7
			if end > len(cells) {
				end = len(cells)
			}
			row := make([]string, 0, 7)
			for _, cell := range cells[start:end] {
				row = append(row, renderCell(cell))
			}
			fmt.Fprintln(w, strings.Join(row, " "))
		}
		fmt.Fprintln(w)
	}

	legend := make([]string, 0, len(statusColors))
	for _, st := range []model.Status{model.StatusPlanned, model.StatusDone, model.StatusPartial, model.StatusMissed} {
		legend = append(legend, statusColors[st].Sprint(string(st)))
	}
	fmt.Fprintf(w, "Legend: %s\n", strings.Join(legend, " "))
	fmt.Fprintf(w, "Plans %d, tasks %d, done %d (%d%%)\n",
		view.Stats.TotalPlans, view.Stats.TotalAssigned, view.Stats.Completed, view.Stats.CompletionRate)
	fmt.Fprintf(w, "Days %d, passed %d, remaining %d, with tasks %d\n",
		view.Summary.Total, view.Summary.Passed, view.Summary.Remain, view.Summary.Planned)
}

func renderCell(cell *planner.DayCell) string {
	if cell == nil {
		return "  "
	}
	day := cell.Date[len(cell.Date)-2:]
	if day[0] == '0' {
		day = " " + day[1:]
	}
	if c, ok := statusColors[cell.Status]; ok {
		day = c.Sprint(day)
	}
	if cell.IsToday {
		day = todayColor.Sprint(day)
	}
	return day
}

// CalendarCmd returns the calendar command.
func CalendarCmd() *cobra.Command {
	var (
		name   string
		year   int
		planID uint
	)

	cmd := &cobra.Command{
		Use:     "calendar",
		Short:   "Print a user's year calendar",
		Example: `  studyplanner calendar --user kim --year 2025 --plan 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp("CALENDAR : ")
			if err != nil {
				return err
			}
			defer a.close()

			usr, err := a.users.GetByName(cmd.Context(), name)
			if err != nil {
				return err
			}
			today := time.Now().In(a.cfg.Location)
			if year == 0 {
				year = today.Year()
			}
			view, err := a.calendar.Year(cmd.Context(), usr, year, planID, today)
			if err != nil {
				return err
			}
			renderCalendar(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "user", "u", "", "user name")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "calendar year (default current year)")
	cmd.Flags().UintVarP(&planID, "plan", "p", 0, "only show this plan")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
