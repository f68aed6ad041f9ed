// Package board owns the authoritative task and column collections and the
// filtered view derived from them. All mutation goes through Store methods;
// every method leaves the derived view consistent before it returns.
package board

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/taskboard/internal/filter"
	"github.com/sandeepkv93/taskboard/internal/model"
)

var ErrUnknownStatus = errors.New("board: status does not reference a column")

const defaultEventBuffer = 64

type Option func(*Store)

// WithColumns replaces the default four columns. An empty list is ignored.
func WithColumns(cols []model.Column) Option {
	return func(s *Store) {
		if len(cols) == 0 {
			return
		}
		s.columns = append([]model.Column(nil), cols...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithEventBuffer(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.eventBuffer = size
		}
	}
}

type Store struct {
	mu         sync.RWMutex
	tasks      []model.Task
	columns    []model.Column
	searchTerm string
	filters    model.Filters
	filtered   []model.Task
	seq        uint64

	now         func() time.Time
	newID       func() string
	eventBuffer int

	subsMu  sync.Mutex
	subs    map[chan Event]struct{}
	dropped uint64
}

// Snapshot is a consistent, copied view of the whole store.
type Snapshot struct {
	Tasks         []model.Task
	Columns       []model.Column
	SearchTerm    string
	Filters       model.Filters
	FilteredTasks []model.Task
}

func New(opts ...Option) *Store {
	s := &Store{
		tasks:       []model.Task{},
		columns:     model.DefaultColumns(),
		filters:     model.DefaultFilters(),
		filtered:    []model.Task{},
		now:         time.Now,
		newID:       newUUID,
		eventBuffer: defaultEventBuffer,
		subs:        make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// AddTask appends a task built from draft with a fresh id and creation time.
// The draft status must name a live column.
func (s *Store) AddTask(draft model.TaskDraft) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasColumnLocked(draft.Status) {
		return model.Task{}, fmt.Errorf("%w: %q", ErrUnknownStatus, draft.Status)
	}
	task := model.Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Status:      draft.Status,
		CreatedAt:   s.now(),
		Assignee:    draft.Assignee,
	}
	if draft.DueDate != nil {
		due := *draft.DueDate
		task.DueDate = &due
	}
	s.tasks = append(s.tasks, task)
	s.recomputeLocked()
	s.publish(EventTaskAdded, task.ID, task.Status, task.Title)
	return task.Clone(), nil
}

// UpdateTask merges patch onto the task with id. Unknown ids are a silent no-op.
func (s *Store) UpdateTask(id string, patch model.TaskPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndexLocked(id)
	if idx < 0 || patch.IsEmpty() {
		return nil
	}
	if patch.Status != nil && !s.hasColumnLocked(*patch.Status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, *patch.Status)
	}
	s.tasks[idx] = patch.Apply(s.tasks[idx])
	s.recomputeLocked()
	s.publish(EventTaskUpdated, id, s.tasks[idx].Status, "")
	return nil
}

// DeleteTask removes the task with id and reports whether it existed.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndexLocked(id)
	if idx < 0 {
		return false
	}
	removed := s.tasks[idx]
	s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	s.recomputeLocked()
	s.publish(EventTaskDeleted, id, removed.Status, removed.Title)
	return true
}

// MoveTask sets the status of taskID. Unknown tasks are a silent no-op;
// a status that is not a live column is rejected.
func (s *Store) MoveTask(taskID, newStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.moveTaskLocked(taskID, newStatus)
	return err
}

func (s *Store) moveTaskLocked(taskID, newStatus string) (bool, error) {
	idx := s.taskIndexLocked(taskID)
	if idx < 0 {
		return false, nil
	}
	if !s.hasColumnLocked(newStatus) {
		return false, fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}
	from := s.tasks[idx].Status
	if from == newStatus {
		return false, nil
	}
	s.tasks[idx].Status = newStatus
	s.recomputeLocked()
	s.publish(EventTaskMoved, taskID, newStatus, from+" -> "+newStatus)
	return true, nil
}

func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
	s.recomputeLocked()
	s.publish(EventSearchChanged, "", "", term)
}

// SetFilters replaces the whole filters record; it does not merge.
func (s *Store) SetFilters(filters model.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters.Clone()
	s.recomputeLocked()
	s.publish(EventFiltersChanged, "", "", describeFilters(s.filters))
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

func (s *Store) FilteredTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.filtered)
}

func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

func (s *Store) Filters() model.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.taskIndexLocked(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Tasks:         cloneTasks(s.tasks),
		Columns:       append([]model.Column{}, s.columns...),
		SearchTerm:    s.searchTerm,
		Filters:       s.filters.Clone(),
		FilteredTasks: cloneTasks(s.filtered),
	}
}

// OrphanedTasks lists tasks whose status no longer names a live column.
func (s *Store) OrphanedTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0)
	for _, task := range s.tasks {
		if !s.hasColumnLocked(task.Status) {
			out = append(out, task.Clone())
		}
	}
	return out
}

func (s *Store) recomputeLocked() {
	s.filtered = filter.ComputeFilteredTasks(s.tasks, s.searchTerm, s.filters)
}

func (s *Store) taskIndexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Clone())
	}
	return out
}

func describeFilters(f model.Filters) string {
	due := "none"
	if f.DueDate != nil {
		due = f.DueDate.Format("2006-01-02")
	}
	status, priority := f.Status, string(f.Priority)
	if f.MatchesAllStatuses() {
		status = model.AllStatuses
	}
	if f.MatchesAllPriorities() {
		priority = string(model.AllPriorities)
	}
	return fmt.Sprintf("status=%s priority=%s due=%s", status, priority, due)
}
