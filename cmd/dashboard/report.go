package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/video-task-dashboard/internal/dto"
	"github.com/yukikurage/video-task-dashboard/internal/middleware"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

func tasksCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print the ordered task list of one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := resolveDay(a, date)
			if err != nil {
				return err
			}

			response := dto.ToDayViewResponse(a.views.ForDay(day), a.cfg.Editors)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), response)
			}
			return writeDayView(cmd.OutOrStdout(), response, a.cfg.Location)
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to show (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")

	return cmd
}

func analyticsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print completion metrics for every task or one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := selectTasks(a, date)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), services.ComputeAnalytics(tasks, a.cfg.Editors))
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "restrict to one day (YYYY-MM-DD)")

	return cmd
}

func recommendCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the model for workload recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := selectTasks(a, date)
			if err != nil {
				return err
			}

			rec, err := a.aiService.Recommend(cmd.Context(), tasks, a.cfg.Editors)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task Ordering\n%s\n\n", rec.TaskOrdering)
			fmt.Fprintf(out, "Bottleneck Alerts\n%s\n\n", rec.BottleneckAlerts)
			fmt.Fprintf(out, "Workload Balance\n%s\n", rec.WorkloadBalance)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "restrict to one day (YYYY-MM-DD)")

	return cmd
}

func resolveDay(a *app, date string) (string, error) {
	if date == "" {
		return a.views.Today(), nil
	}
	if !middleware.IsValidDay(date) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

// selectTasks returns every task, or the view of one day when date is set
func selectTasks(a *app, date string) ([]models.Task, error) {
	if date == "" {
		return a.tasks.Tasks(), nil
	}
	day, err := resolveDay(a, date)
	if err != nil {
		return nil, err
	}
	return a.views.ForDay(day).Tasks, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDayView(w io.Writer, view dto.DayViewResponse, loc *time.Location) error {
	if len(view.Tasks) == 0 {
		_, err := fmt.Fprintf(w, "No tasks for %s\n", view.Day)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TITLE\tEDITOR\tPRIORITY\tFLAGS\tPROGRESS\tDEADLINE\tID\n")
	for _, task := range view.Tasks {
		editor := task.EditorName
		if editor == "" {
			editor = "Unassigned"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%s\t%s\n",
			task.Title,
			editor,
			task.Priority,
			taskFlags(task),
			task.Progress,
			task.Deadline.In(loc).Format("2006-01-02 15:04"),
			task.ID,
		)
	}
	return tw.Flush()
}

func taskFlags(task dto.TaskDTO) string {
	switch {
	case task.Status == models.TaskStatusDone:
		return "done"
	case task.IsUrgent && task.IsOverdue:
		return "urgent,overdue"
	case task.IsUrgent:
		return "urgent"
	case task.IsOverdue:
		return "overdue"
	default:
		return "-"
	}
}
