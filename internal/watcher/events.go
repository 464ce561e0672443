package watcher

import (
	"slices"
	"time"
)

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

type FileEvent struct {
	Path      string
	Type      EventType
	Timestamp time.Time
}

// DayResolver reports which puzzle day an input path belongs to.
type DayResolver func(path string) (int, bool)

type EventClassifier struct {
	resolve DayResolver
}

func NewEventClassifier(resolve DayResolver) *EventClassifier {
	return &EventClassifier{resolve: resolve}
}

// Days returns the distinct days touched by a batch, ascending. Deletes and
// paths that are not puzzle inputs are dropped.
func (c *EventClassifier) Days(events []FileEvent) []int {
	seen := make(map[int]bool)
	days := make([]int, 0, len(events))

	for _, event := range events {
		if event.Type == EventDelete || event.Type == EventRename {
			continue
		}
		day, ok := c.resolve(event.Path)
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}

	slices.Sort(days)
	return days
}
