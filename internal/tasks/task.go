package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/tokenkeep/internal/logging"
	"github.com/darmiel/tokenkeep/internal/service"
)

const (
	// MaxLogsPerTask bounds the log buffer kept for each task.
	MaxLogsPerTask = 1000

	// RunTimeout bounds a single run.
	RunTimeout = 5 * time.Minute
)

var (
	ErrUnknownTask = errors.New("unknown task")
	ErrTaskRunning = errors.New("task is already running")
)

// UnknownTaskError names the task that was asked for. It matches ErrUnknownTask.
type UnknownTaskError struct {
	Name string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("no task named '%s'", e.Name)
}

func (e *UnknownTaskError) Is(target error) bool {
	return target == ErrUnknownTask
}

// Func is the unit of work. The returned report is kept on the task status
// until the next run. A failed run keeps it only if it carries a summary.
type Func func(ctx context.Context, logger logging.InternalLogger) (Report, error)

// Report is the outcome of a run as shown by `tasks list`.
type Report struct {
	Summary string         `json:"summary,omitempty"`
	Stats   *service.Stats `json:"stats,omitempty"`
	Flagged []FlaggedToken `json:"flagged,omitempty"`
}

// FlaggedToken is a token a report wants the user to look at.
type FlaggedToken struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"serviceName"`
	ExpiryDate  time.Time `json:"expiryDate"`
}

type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

type Status struct {
	Name         string        `json:"name"`
	Interval     time.Duration `json:"interval,omitempty"`
	Running      bool          `json:"running,omitempty"`
	Runs         int           `json:"runs"`
	LastRun      time.Time     `json:"last_run"`
	LastDuration time.Duration `json:"last_duration,omitempty"`
	Outcome      Outcome       `json:"outcome,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
	LastReport   *Report       `json:"last_report,omitempty"`
	NextRun      time.Time     `json:"next_run"`
}

type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level,omitempty"`
	Message string    `json:"message,omitempty"`
}

type job struct {
	name     string
	interval time.Duration
	fn       Func
	since    time.Time

	mu       sync.RWMutex
	running  bool
	runs     int
	lastRun  time.Time
	duration time.Duration
	lastErr  error
	report   *Report
	logs     []LogEntry
}

// run executes fn once. A run that overlaps another run of the same job
// returns ErrTaskRunning without calling fn.
func (j *job) run(parent context.Context) error {
	l := log.With().Str("task", j.name).Logger()

	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		l.Warn().Msg("task is already running, skipping")
		return ErrTaskRunning
	}
	j.running = true
	j.logs = j.logs[:0]
	j.mu.Unlock()

	logger := logging.NewMultiLogger(logging.NewZLogger(l), bufferLogger{j})

	ctx, cancel := context.WithTimeout(parent, RunTimeout)
	defer cancel()

	start := time.Now()
	report, err := j.fn(ctx, logger)
	took := time.Since(start)

	j.mu.Lock()
	j.running = false
	j.runs++
	j.lastRun = start
	j.duration = took
	j.lastErr = err
	j.report = nil
	if err == nil || report.Summary != "" {
		j.report = &report
	}
	j.mu.Unlock()

	if err != nil {
		logger.Error("failed after %s: %v", took, err)
		return err
	}
	logger.Debug("done in %s", took)
	return nil
}

func (j *job) status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()

	s := Status{
		Name:         j.name,
		Interval:     j.interval,
		Running:      j.running,
		Runs:         j.runs,
		LastRun:      j.lastRun,
		LastDuration: j.duration,
	}
	if j.runs > 0 {
		s.Outcome = OutcomeOK
		if j.lastErr != nil {
			s.Outcome = OutcomeFailed
			s.LastError = j.lastErr.Error()
		}
		if j.report != nil {
			r := *j.report
			r.Flagged = slices.Clone(r.Flagged)
			s.LastReport = &r
		}
	}
	if j.interval > 0 {
		from := j.since
		if !j.lastRun.IsZero() {
			from = j.lastRun
		}
		s.NextRun = from.Add(j.interval)
	}
	return s
}

func (j *job) logEntries() []LogEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]LogEntry, len(j.logs))
	copy(out, j.logs)
	return out
}

func (j *job) appendLog(level, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.logs = append(j.logs, LogEntry{Time: time.Now(), Level: level, Message: msg})
	if over := len(j.logs) - MaxLogsPerTask; over > 0 {
		j.logs = slices.Delete(j.logs, 0, over)
	}
}

// bufferLogger writes into the log buffer of a job.
type bufferLogger struct {
	j *job
}

var _ logging.InternalLogger = bufferLogger{}

func (b bufferLogger) Debug(format string, args ...any) { b.j.appendLog("debug", fmt.Sprintf(format, args...)) }
func (b bufferLogger) Info(format string, args ...any)  { b.j.appendLog("info", fmt.Sprintf(format, args...)) }
func (b bufferLogger) Warn(format string, args ...any)  { b.j.appendLog("warn", fmt.Sprintf(format, args...)) }
func (b bufferLogger) Error(format string, args ...any) { b.j.appendLog("error", fmt.Sprintf(format, args...)) }
