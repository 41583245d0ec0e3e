package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/tokenkeep/internal/core"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()

	greenCheck = color.GreenString("✔")
	redCross   = color.RedString("✘")
)

// BeQuietError signals that the error was already reported to the user.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "error already reported"
}

// logError reports a failed remote call including its correlation id and returns a BeQuietError.
func logError(err error, correlation, msg string) error {
	if correlation != "" {
		log.Error().Msgf("%s %s (correlation ID: %s)", redCross, msg, correlation)
	} else {
		log.Error().Msgf("%s %s", redCross, msg)
	}
	log.Error().Msgf("error: %v", err)
	return BeQuietError{}
}

func logSuccess(format string, args ...any) {
	log.Info().Msgf("%s %s", greenCheck, fmt.Sprintf(format, args...))
}

func logWarn(format string, args ...any) {
	log.Warn().Msgf(format, args...)
}

func applyTableFormat(t table.Writer) {
	s := table.StyleRounded
	s.Format.Header = text.FormatDefault
	t.SetStyle(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func statusString(status core.Status) string {
	switch status {
	case core.StatusActive:
		return color.GreenString(string(status))
	case core.StatusExpired:
		return color.RedString(string(status))
	default:
		return string(status)
	}
}

// relative describes t relative to now, e.g. "in 3d" or "12h ago".
func relative(t, now time.Time) string {
	d := t.Sub(now)
	suffix := ""
	prefix := "in "
	if d < 0 {
		d = -d
		prefix = ""
		suffix = " ago"
	}
	var s string
	switch {
	case d >= 48*time.Hour:
		s = fmt.Sprintf("%dd", int(d.Hours()/24))
	case d >= time.Hour:
		s = fmt.Sprintf("%dh", int(d.Hours()))
	default:
		s = d.Round(time.Minute).String()
	}
	return prefix + s + suffix
}
