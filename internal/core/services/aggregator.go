package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wiserse/toolbox/internal/domain"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

// ResultSource is the slice of the result store the aggregator reads.
type ResultSource interface {
	FetchByDomains(ctx context.Context, domains []string) ([]domain.DomainCheck, error)
}

// UpdateHandler receives normalized task updates. Handlers run on the poll
// goroutine; panics are recovered per handler so one bad subscriber cannot
// starve the others or kill the loop.
type UpdateHandler func(update domain.TaskUpdate)

// Aggregator reconciles the shared result store into in-memory task state on
// a fixed interval and fans updates out to subscribers. Each instance owns
// its task map, its subscriber set and its poll loop; nothing here is
// process-global.
//
// The loop only runs while at least one task is active: it starts lazily on
// the first StartCheck and shuts itself down on the first tick that finds the
// active set empty.
type Aggregator struct {
	store         ResultSource
	log           *logger.Logger
	interval      time.Duration
	evictionDelay time.Duration

	mu      sync.RWMutex
	tasks   map[string]*domain.Task
	subs    map[int]UpdateHandler
	nextSub int
	polling bool
	gen     int // bumped on every loop stop; stale fetches check it before applying
}

type AggregatorConfig struct {
	Store         ResultSource
	Logger        *logger.Logger
	Interval      time.Duration
	EvictionDelay time.Duration
}

func NewAggregator(cfg AggregatorConfig) *Aggregator {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	evictionDelay := cfg.EvictionDelay
	if evictionDelay <= 0 {
		evictionDelay = 10 * time.Second
	}
	return &Aggregator{
		store:         cfg.Store,
		log:           cfg.Logger,
		interval:      interval,
		evictionDelay: evictionDelay,
		tasks:         make(map[string]*domain.Task),
		subs:          make(map[int]UpdateHandler),
	}
}

// NewTaskID builds a correlation id for a submitted job.
func NewTaskID() string {
	return fmt.Sprintf("task_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

// StartCheck registers a task for the domain and ensures the poll loop is
// running. Returns the task id (generated when empty). The job submission
// itself happens elsewhere; this only tracks its progress.
func (a *Aggregator) StartCheck(checkDomain string, checks []string, taskID string) string {
	if taskID == "" {
		taskID = NewTaskID()
	}

	a.mu.Lock()
	a.tasks[taskID] = &domain.Task{
		TaskID:    taskID,
		Domain:    checkDomain,
		Status:    domain.CheckStatusInProgress,
		Progress:  0,
		StartTime: time.Now(),
	}
	startLoop := !a.polling
	if startLoop {
		a.polling = true
	}
	gen := a.gen
	a.mu.Unlock()

	a.log.Infow("aggregator_task_registered", "task_id", taskID, "domain", checkDomain, "checks", len(checks))

	if startLoop {
		a.log.Infow("aggregator_polling_started", "interval", a.interval)
		go a.pollLoop(gen)
	}
	return taskID
}

// Subscribe registers an update handler and returns a function that removes
// it. The fan-out order across handlers is unspecified.
func (a *Aggregator) Subscribe(handler UpdateHandler) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = handler
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// GetTaskStatus returns a copy of the task, or false when it is unknown or
// already evicted.
func (a *Aggregator) GetTaskStatus(taskID string) (domain.Task, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	task, ok := a.tasks[taskID]
	if !ok {
		return domain.Task{}, false
	}
	return *task, true
}

// ActiveTasks snapshots every tracked task, including terminal ones awaiting
// eviction.
func (a *Aggregator) ActiveTasks() []domain.Task {
	a.mu.RLock()
	defer a.mu.RUnlock()
	tasks := make([]domain.Task, 0, len(a.tasks))
	for _, task := range a.tasks {
		tasks = append(tasks, *task)
	}
	return tasks
}

// CancelTask flips the task to error locally. The remote job is not aborted;
// its eventual writes are ignored once the task is evicted.
func (a *Aggregator) CancelTask(taskID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	task, ok := a.tasks[taskID]
	if !ok {
		return false
	}
	now := time.Now()
	task.Status = domain.CheckStatusError
	task.EndTime = &now
	a.scheduleEvictionLocked(taskID)
	a.log.Infow("aggregator_task_cancelled", "task_id", taskID, "domain", task.Domain)
	return true
}

// Polling reports whether the poll loop is currently scheduled.
func (a *Aggregator) Polling() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.polling
}

// Stop halts the poll loop. In-flight fetches are not cancelled; their
// results are discarded by the generation check instead of resurrecting a
// stopped cycle.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *Aggregator) stopLocked() {
	if !a.polling {
		return
	}
	a.polling = false
	a.gen++
	a.log.Infow("aggregator_polling_stopped")
}

func (a *Aggregator) pollLoop(gen int) {
	// First tick fires immediately, mirroring a submit that wants feedback
	// on the very next render.
	if !a.pollOnce(gen) {
		return
	}
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for range ticker.C {
		if !a.pollOnce(gen) {
			return
		}
	}
}

// pollOnce runs a single tick. Returns false when the loop should exit,
// either because the active set drained or because Stop superseded this
// generation.
func (a *Aggregator) pollOnce(gen int) bool {
	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return false
	}
	active := make([]domain.Task, 0, len(a.tasks))
	for _, task := range a.tasks {
		if task.Active() {
			active = append(active, *task)
		}
	}
	if len(active) == 0 {
		// Idle invariant: never keep a timer running with nothing to poll.
		a.stopLocked()
		a.mu.Unlock()
		return false
	}
	a.mu.Unlock()

	seen := make(map[string]struct{}, len(active))
	domains := make([]string, 0, len(active))
	for _, task := range active {
		if _, ok := seen[task.Domain]; ok {
			continue
		}
		seen[task.Domain] = struct{}{}
		domains = append(domains, task.Domain)
	}

	rows, err := a.store.FetchByDomains(context.Background(), domains)
	if err != nil {
		// Transient; skip this tick and try again on the next one.
		a.log.Warnw("aggregator_poll_fetch_failed", "domains", len(domains), "error", err)
		return true
	}
	if len(rows) == 0 {
		// The workflow engine may not have written yet.
		return true
	}

	// Rows arrive newest-first; the first row per domain is the one to apply.
	latest := make(map[string]domain.DomainCheck, len(domains))
	for _, row := range rows {
		if _, ok := latest[row.Domain]; !ok {
			latest[row.Domain] = row
		}
	}

	for _, task := range active {
		row, ok := latest[task.Domain]
		if !ok {
			continue
		}
		a.applyRow(gen, task.TaskID, row)
	}
	return true
}

func (a *Aggregator) applyRow(gen int, taskID string, row domain.DomainCheck) {
	results := domain.DecodeResults(row.Results)
	progress := results.Progress()

	update := domain.TaskUpdate{
		TaskID:    taskID,
		Domain:    row.Domain,
		Status:    row.Status,
		Results:   results,
		Progress:  progress,
		Timestamp: row.UpdatedAt,
	}

	a.mu.Lock()
	if a.gen != gen {
		// A late fetch result after Stop; drop it.
		a.mu.Unlock()
		return
	}
	task, ok := a.tasks[taskID]
	if !ok || !task.Active() {
		// Evicted or cancelled between the snapshot and the fetch returning.
		a.mu.Unlock()
		return
	}
	task.Status = row.Status
	task.Progress = progress
	task.DBRecordID = row.ID
	if row.Status.Terminal() {
		endTime := row.UpdatedAt
		task.EndTime = &endTime
		a.scheduleEvictionLocked(taskID)
	}
	handlers := make([]UpdateHandler, 0, len(a.subs))
	for _, handler := range a.subs {
		handlers = append(handlers, handler)
	}
	a.mu.Unlock()

	for _, handler := range handlers {
		a.notify(handler, update)
	}
}

func (a *Aggregator) notify(handler UpdateHandler, update domain.TaskUpdate) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorw("aggregator_subscriber_panic", "task_id", update.TaskID, "panic", r)
		}
	}()
	handler(update)
}

// scheduleEvictionLocked removes the task a fixed delay after it reached a
// terminal status. Callers hold a.mu.
func (a *Aggregator) scheduleEvictionLocked(taskID string) {
	time.AfterFunc(a.evictionDelay, func() {
		a.mu.Lock()
		delete(a.tasks, taskID)
		a.mu.Unlock()
		a.log.Infow("aggregator_task_evicted", "task_id", taskID)
	})
}
