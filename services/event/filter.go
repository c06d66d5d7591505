package event

import (
	"strings"

	"marche/models"
)

// matchesEvent applies f to e. today is YYYY-MM-DD and hides past events
// unless f.IncludePast is set.
func matchesEvent(e models.Event, f models.EventFilter, today string) bool {
	if !f.IncludePast && e.Date < today {
		return false
	}
	if f.StartDate != "" && e.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Date > f.EndDate {
		return false
	}
	if p := strings.TrimSpace(f.Prefecture); p != "" {
		if e.Prefecture != p && !strings.Contains(e.Location, p) {
			return false
		}
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		hay := strings.ToLower(e.Name + " " + e.Description + " " + e.Location)
		if !strings.Contains(hay, kw) {
			return false
		}
	}
	return true
}

func filterEvents(events []models.Event, f models.EventFilter, today string) []models.Event {
	out := []models.Event{}
	for _, e := range events {
		if matchesEvent(e, f, today) {
			out = append(out, e)
		}
	}
	return out
}
