package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/pkg/errors"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func colorStatus(s models.RunStatus) string {
	switch s {
	case models.RunStatusPassed:
		return green(string(s))
	case models.RunStatusFailed:
		return red(string(s))
	default:
		return yellow(string(s))
	}
}

func colorOutcome(o models.StepOutcome) string {
	switch o {
	case models.StepOutcomePassed:
		return green("PASS")
	case models.StepOutcomeFailed:
		return red("FAIL")
	case models.StepOutcomePrecondition:
		return yellow("PRE ")
	default:
		return red("ERR ")
	}
}

// PrintRuns writes one line per run, newest first as given.
func PrintRuns(w io.Writer, runs []models.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tGROUPS\tPASSED\tFAILED\tSTARTED\tDURATION")
	for _, r := range runs {
		duration := "-"
		if r.Finished() {
			duration = r.Duration().Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID,
			colorStatus(r.Status),
			strings.Join(r.Groups, ","),
			r.Passed,
			r.Failed,
			r.StartedAt.Local().Format(time.DateTime),
			duration,
		)
	}
	return tw.Flush()
}

// PrintRun writes the run header followed by its steps grouped as journaled.
// Failed steps carry their error and the model changes they made.
func PrintRun(w io.Writer, run models.Run, steps []models.Step) error {
	fmt.Fprintf(w, "%s %s  %s passed, %s failed\n",
		bold("run "+run.ID), colorStatus(run.Status), green(run.Passed), red(run.Failed))
	if run.Error != "" {
		fmt.Fprintf(w, "  %s\n", yellow(run.Error))
	}

	group := ""
	for _, s := range steps {
		if s.Group != group {
			group = s.Group
			fmt.Fprintf(w, "\n%s\n", bold(group))
		}
		fmt.Fprintf(w, "  %s %s %s\n", colorOutcome(s.Outcome), s.Name, faint(s.Duration.Round(time.Millisecond)))
		if s.Outcome == models.StepOutcomePassed {
			continue
		}
		if s.Error != "" {
			for _, line := range strings.Split(s.Error, "\n") {
				fmt.Fprintf(w, "       %s\n", line)
			}
		}
		for _, d := range s.Changes {
			fmt.Fprintf(w, "       %s\n", faint(d.String()))
		}
	}
	return nil
}

// PrintDifferences writes one line per difference, marking additions and
// removals the way a diff does.
func PrintDifferences(w io.Writer, diffs []errors.Difference) error {
	if len(diffs) == 0 {
		_, err := fmt.Fprintln(w, green("models are equivalent"))
		return err
	}
	for _, d := range diffs {
		var line string
		switch d.Kind {
		case "added":
			line = green("+ " + d.String())
		case "removed":
			line = red("- " + d.String())
		default:
			line = yellow("~ " + d.String())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
