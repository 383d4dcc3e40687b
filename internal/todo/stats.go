package todo

import (
	"math"
	"time"
)

const (
	newTaskWindow = 24 * time.Hour
	oldTaskAge    = 7 * 24 * time.Hour
)

// Stats is a derived summary of a task list.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	CompletionRate int `json:"completionRate"` // percent, rounded
	CreatedToday   int `json:"createdToday"`   // same calendar date as now, in now's zone
	New            int `json:"new"`            // created less than 24h ago
	Old            int `json:"old"`            // created more than 7 days ago
}

// ComputeStats summarizes tasks as of now.
//
// CreatedToday compares calendar dates while New uses a rolling 24 hour
// window; a task created late yesterday counts as New but not as
// CreatedToday.
func ComputeStats(tasks []Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)

	ny, nm, nd := now.Date()
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}

		created := t.Created().In(now.Location())
		if y, m, d := created.Date(); y == ny && m == nm && d == nd {
			s.CreatedToday++
		}

		age := now.Sub(created)
		if age < newTaskWindow {
			s.New++
		}
		if age > oldTaskAge {
			s.Old++
		}
	}

	s.Active = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
