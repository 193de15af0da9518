// Package host is a minimal in-process stand-in for the workflow engine which
// would normally drive the task lifecycle. It raises the assignment event when
// a task is started or reassigned and keeps the resolved identity links with
// the task. Everything else a real engine does (process definitions, execution
// state, persistence) is out of scope here.
package host

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openwebflow/assign/core"
)

// A Task is one unit of work, frozen with the candidate set that was resolved
// when it was created or last reassigned. Later rule or delegation changes do
// not touch it.
type Task struct {
	ID                  string
	ProcessDefinitionID string
	StepID              string
	Created             time.Time

	// the process definition's defaults, kept for reassignment
	DefaultCandidateUsers  []string
	DefaultCandidateGroups []string

	Assignment core.Assignment
}

// copy detaches the task from the stored one, which Reassign mutates under the
// host's lock. Handed-out tasks are always copies.
func (task *Task) copy() *Task {
	var c = *task
	c.Assignment = task.Assignment.Copy()
	return &c
}

type Host struct {
	engine *core.Engine

	mu    sync.RWMutex
	tasks map[string]*Task
}

func New(engine *core.Engine) *Host {
	return &Host{
		engine: engine,
		tasks:  make(map[string]*Task),
	}
}

// StartTask creates a task for the given step and resolves its candidate set.
func (h *Host) StartTask(procDefID, stepID string, defaultUsers, defaultGroups []string) *Task {

	var task = &Task{
		ID:                     uuid.New().String(),
		ProcessDefinitionID:    procDefID,
		StepID:                 stepID,
		Created:                time.Now(),
		DefaultCandidateUsers:  defaultUsers,
		DefaultCandidateGroups: defaultGroups,
	}

	task.Assignment = h.engine.Resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:    procDefID,
		StepID:                 stepID,
		TaskInstanceID:         task.ID,
		DefaultCandidateUsers:  defaultUsers,
		DefaultCandidateGroups: defaultGroups,
	})

	h.mu.Lock()
	h.tasks[task.ID] = task
	var c = task.copy()
	h.mu.Unlock()

	return c
}

// Reassign raises the assignment event again for an existing task. This is
// how a task-instance-specific rule, added after the task was started, becomes
// effective.
func (h *Host) Reassign(taskID string) (*Task, error) {

	h.mu.Lock()
	defer h.mu.Unlock()

	task, ok := h.tasks[taskID]
	if !ok {
		return nil, core.ErrNotFound
	}

	task.Assignment = h.engine.Resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:    task.ProcessDefinitionID,
		StepID:                 task.StepID,
		TaskInstanceID:         task.ID,
		DefaultCandidateUsers:  task.DefaultCandidateUsers,
		DefaultCandidateGroups: task.DefaultCandidateGroups,
	})

	return task.copy(), nil
}

func (h *Host) GetTask(taskID string) (*Task, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	task, ok := h.tasks[taskID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return task.copy(), nil
}

func (h *Host) DeleteTask(taskID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tasks[taskID]; !ok {
		return core.ErrNotFound
	}
	delete(h.tasks, taskID)
	return nil
}

// GetAllTasks returns copies of the tasks, ordered by creation time.
func (h *Host) GetAllTasks() []*Task {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var tasks = make([]*Task, 0, len(h.tasks))
	for _, task := range h.tasks {
		tasks = append(tasks, task.copy())
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Created.Before(tasks[j].Created)
	})
	return tasks
}

// CountByCandidateUser counts tasks the user may claim, with candidate groups
// expanded through the membership directory at query time.
func (h *Host) CountByCandidateUser(userID string) (int, error) {
	tasks, err := h.TasksFor(userID)
	return len(tasks), err
}

// CountByCandidateGroup counts tasks which name the group as a candidate.
func (h *Host) CountByCandidateGroup(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var count int
	for _, task := range h.tasks {
		if _, ok := task.Assignment.CandidateGroups[groupID]; ok {
			count++
		}
	}
	return count
}

// TasksFor returns the tasks the user may claim, ordered by creation time.
func (h *Host) TasksFor(userID string) ([]*Task, error) {
	var result = []*Task{}
	for _, task := range h.GetAllTasks() {
		ok, err := h.engine.IsUserCandidate(userID, task.Assignment)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, task)
		}
	}
	return result, nil
}
