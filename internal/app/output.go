package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"tasksource/internal/models"
	"tasksource/internal/pdf"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// WriteTasks renders tasks to w in the given format.
func WriteTasks(w io.Writer, format, source string, tasks []models.Task, reports pdf.Generator) error {
	switch format {
	case FormatText, "":
		return writeText(w, tasks)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatPDF:
		return reports.WriteTaskReport(w, pdf.TaskReportData{
			Title:     "Task report",
			Source:    source,
			Tasks:     tasks,
			CreatedAt: time.Now(),
		})
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeText(w io.Writer, tasks []models.Task) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION\tDUE\tPRIO\tSTATUS\tASSIGNEE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			optInt(t.ID), dash(t.Title), t.Description, t.DueDate, t.Priority, t.Status, optInt(t.AssignedTo))
	}
	return tw.Flush()
}

func optInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
