package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"showsync/internal/api"
	"showsync/internal/preflight"
)

var titleCaser = cases.Title(language.English)

func renderStatus(status *api.DaemonStatus) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Daemon: running (pid %d)\n", status.PID)
	if status.SyncActive {
		b.WriteString("Sync: active\n")
	} else {
		b.WriteString("Sync: idle\n")
	}

	rows := [][]string{
		{"Database", status.DatabasePath},
		{"Lock file", status.LockFilePath},
		{"Auto sync", onOff(status.AutoSyncEnabled)},
		{"Last sync", formatLastSync(status.LastSyncAt)},
		{"Failed runs", strconv.Itoa(status.FailedCounter)},
		{"Tracked shows", strconv.Itoa(status.ShowCount)},
	}
	if status.ImageBaseURL != "" {
		rows = append(rows, []string{"Image base URL", status.ImageBaseURL})
	}

	b.WriteString(renderTable(
		[]string{"Field", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
	b.WriteString("\n")
	return b.String()
}

func renderChecks(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		state := "ok"
		if !result.Passed {
			state = "failed"
		}
		rows = append(rows, []string{titleCaser.String(result.Name), state, result.Detail})
	}

	var b strings.Builder
	b.WriteString("Preflight checks:\n")
	b.WriteString(renderTable(
		[]string{"Check", "State", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
	b.WriteString("\n")
	return b.String()
}

func formatLastSync(at time.Time) string {
	if at.IsZero() {
		return "never"
	}
	return fmt.Sprintf("%s (%s ago)", at.Local().Format("2006-01-02 15:04"), formatAge(time.Since(at)))
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "moments"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
