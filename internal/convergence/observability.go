package convergence

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer receives structured events while the engine works.
type Observer interface {
	// Event emits a structured convergence event.
	Event(event Event)

	// Progress reports completed vs total actions for the current apply.
	Progress(current, total int)
}

// Event represents a structured convergence event.
type Event struct {
	Type      EventType
	Message   string
	Resource  string
	Timestamp time.Time
	Fields    map[string]string
}

// EventType represents the type of convergence event.
type EventType string

const (
	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceUpdating indicates a resource is being updated.
	EventResourceUpdating EventType = "resource.updating"
	// EventResourceUpdated indicates a resource was updated successfully.
	EventResourceUpdated EventType = "resource.updated"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceFailed indicates an action on a resource failed.
	EventResourceFailed EventType = "resource.failed"
	// EventResourceSkipped indicates an action was skipped because a
	// dependency failed.
	EventResourceSkipped EventType = "resource.skipped"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]", event.Type)
	if event.Resource != "" {
		fmt.Fprintf(&sb, " %s", event.Resource)
	}
	if event.Message != "" {
		fmt.Fprintf(&sb, ": %s", event.Message)
	}
	for k, v := range event.Fields {
		fmt.Fprintf(&sb, " %s=%s", k, v)
	}
	log.Print(sb.String())
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(current, total int) {
	if total == 0 {
		return
	}
	log.Printf("Progress: %d/%d (%d%%)", current, total, (current*100)/total)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Event(Event)       {}
func (NopObserver) Progress(int, int) {}
