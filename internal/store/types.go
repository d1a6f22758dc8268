package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// InvalidID is the id ParseID returns for input that is not a positive
// integer. Callers check ParseID's ok result instead of matching on it.
const InvalidID = 0

// Task represents a single entry in the task file.
type Task struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Status is the display status of a task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Status returns the display status for the task.
func (t Task) Status() Status {
	if t.Completed {
		return StatusCompleted
	}
	return StatusPending
}

// Entry returns the listing row for the task.
func (t Task) Entry() Entry {
	return Entry{ID: t.ID, Description: t.Description, Status: t.Status()}
}

// Entry is one row of a task listing.
type Entry struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Status      Status `json:"status" yaml:"status"`
}

// String formats the entry the way the menu prints it: "1. buy milk [Pending]".
func (e Entry) String() string {
	return fmt.Sprintf("%d. %s [%s]", e.ID, e.Description, e.Status)
}

// IDPolicy selects how the next task id is computed.
type IDPolicy string

const (
	// IDPolicyMax uses the largest id in the file plus one.
	IDPolicyMax IDPolicy = "max"
	// IDPolicyLast uses the id of the last task in the file plus one.
	IDPolicyLast IDPolicy = "last"
)

// ParseIDPolicy parses a policy name. The empty string selects IDPolicyMax.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDPolicyMax:
		return IDPolicyMax, nil
	case IDPolicyLast:
		return IDPolicyLast, nil
	default:
		return "", fmt.Errorf("invalid id policy %q, must be one of: max, last", s)
	}
}

// NextID computes the id for a new task appended to tasks.
func NextID(tasks []Task, policy IDPolicy) int {
	if len(tasks) == 0 {
		return 1
	}
	if policy == IDPolicyLast {
		return tasks[len(tasks)-1].ID + 1
	}
	highest := tasks[0].ID
	for _, t := range tasks[1:] {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

// ParseID converts user input into a task id.
// Input that is not a positive integer yields InvalidID and false.
func ParseID(s string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return InvalidID, false
	}
	return id, true
}
