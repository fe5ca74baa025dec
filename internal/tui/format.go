// Package tui renders run and health reports for the console.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/dockhand/internal/domain/execution"
	"github.com/felixgeelhaar/dockhand/internal/domain/health"
	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/tui/ui"
)

// FormatRunReport renders the installer's step results and, if the run was
// unwound, the rollback summary.
func FormatRunReport(report execution.RunReport) string {
	styles := ui.DefaultStyles()
	var b strings.Builder

	b.WriteString(styles.Title.Render("Install steps"))
	b.WriteString("\n")

	for _, res := range report.Results {
		var marker, note string
		switch res.Status() {
		case step.StatusSatisfied:
			marker = styles.Success.Render("✓")
			if res.Duration() > 0 {
				note = styles.Muted.Render(fmt.Sprintf("(%s)", res.Duration().Round(time.Millisecond)))
			}
		case step.StatusFailed:
			marker = styles.Error.Render("✗")
			note = styles.Error.Render(res.Error().Error())
		case step.StatusSkipped:
			marker = styles.Muted.Render("-")
			note = styles.Muted.Render("skipped")
		default:
			marker = styles.Warning.Render("?")
		}

		fmt.Fprintf(&b, "  %s %-16s %s\n", marker, res.StepID().String(), note)
	}

	if report.Unwound {
		b.WriteString("\n")
		b.WriteString(styles.Title.Render("Rollback"))
		b.WriteString("\n")
		for _, res := range report.UnwindResults {
			var line string
			switch res.Outcome {
			case execution.OutcomeCompensated:
				line = styles.Success.Render("rolled back")
			case execution.OutcomeCannotUndo:
				line = styles.Warning.Render("cannot undo")
			case execution.OutcomeFailed:
				line = styles.Error.Render("rollback failed: " + res.Err.Error())
			}
			fmt.Fprintf(&b, "  %-16s %s\n", res.StepID.String(), line)
		}
	}

	return b.String()
}

// FormatHealthReport renders the per-service classification, recent logs
// for failing services, and the aggregate verdict.
func FormatHealthReport(report health.Report) string {
	styles := ui.DefaultStyles()
	var b strings.Builder

	b.WriteString(styles.Title.Render("Service health"))
	b.WriteString("\n")

	for _, svc := range report.Services {
		marker := statusMarker(styles, svc.Status)
		fmt.Fprintf(&b, "  %s %-16s %-16s %s\n",
			marker, svc.Service.Name, svc.Status.String(), styles.Muted.Render(svc.Detail))

		if svc.Usage != "" {
			fmt.Fprintf(&b, "      %s\n", styles.Muted.Render(svc.Usage))
		}
		if svc.LogNote != "" {
			fmt.Fprintf(&b, "      %s\n", styles.Muted.Render(svc.LogNote))
		}
		if svc.Status.Failing() && len(svc.Logs) > 0 {
			for _, line := range svc.Logs {
				fmt.Fprintf(&b, "      %s\n", styles.Muted.Render(line))
			}
		}
	}

	b.WriteString("\n")
	if report.Healthy() {
		b.WriteString(styles.Success.Render("All services healthy"))
	} else {
		b.WriteString(styles.Error.Render(fmt.Sprintf("%d service(s) unhealthy", len(report.Failing()))))
	}
	b.WriteString("\n")

	return b.String()
}

func statusMarker(styles ui.Styles, status health.Status) string {
	switch status {
	case health.StatusOK:
		return styles.Success.Render("✓")
	case health.StatusOKUnmonitored:
		return styles.Success.Render("•")
	case health.StatusDegraded:
		return styles.Warning.Render("!")
	case health.StatusStopped, health.StatusNotFound:
		return styles.Error.Render("✗")
	}
	return "?"
}
