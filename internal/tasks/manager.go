package tasks

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Manager runs named tasks on an interval and on demand.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:   make(map[string]*job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a task. An interval of 0 disables scheduling, the task can still be triggered.
func (m *Manager) Register(name string, interval time.Duration, fn Func) {
	j := &job{
		name:     name,
		interval: interval,
		fn:       fn,
		since:    time.Now(),
	}

	m.mu.Lock()
	m.jobs[name] = j
	m.mu.Unlock()

	if interval > 0 {
		m.wg.Add(1)
		go m.schedule(j)
	}
	log.Debug().Str("task", name).Dur("interval", interval).Msg("registered task")
}

// Trigger starts a run in the background and returns immediately.
func (m *Manager) Trigger(name string) error {
	j, err := m.lookup(name)
	if err != nil {
		return err
	}
	if j.status().Running {
		return ErrTaskRunning
	}
	go func() { _ = j.run(m.ctx) }()
	return nil
}

// RunNow runs the task synchronously and returns the error of the run.
func (m *Manager) RunNow(ctx context.Context, name string) error {
	j, err := m.lookup(name)
	if err != nil {
		return err
	}
	return j.run(ctx)
}

// ListStatus returns the status of every task, ordered by name.
func (m *Manager) ListStatus() []Status {
	m.mu.RLock()
	list := make([]Status, 0, len(m.jobs))
	for _, j := range m.jobs {
		list = append(list, j.status())
	}
	m.mu.RUnlock()

	slices.SortFunc(list, func(a, b Status) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return list
}

func (m *Manager) GetLogs(name string) ([]LogEntry, error) {
	j, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return j.logEntries(), nil
}

// Stop ends all schedulers and waits for them to return.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) lookup(name string) (*job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[name]
	if !ok {
		return nil, &UnknownTaskError{Name: name}
	}
	return j, nil
}

func (m *Manager) schedule(j *job) {
	defer m.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			_ = j.run(m.ctx)
		}
	}
}
