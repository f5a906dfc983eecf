package httpapi

import (
	"net/http"
	"time"

	"github.com/janegov/notesapi/internal/common"
	"github.com/janegov/notesapi/internal/server/models"
)

const dateOnly = "2006-01-02"

// parseNoteFilter reads the optional search, fromDate, and toDate query
// parameters. Dates accept RFC3339 or a bare date; a bare toDate is widened
// to the end of that day so the upper bound stays inclusive.
func parseNoteFilter(r *http.Request) (models.NoteFilter, error) {
	q := r.URL.Query()
	filter := models.NoteFilter{Search: q.Get("search")}

	if v := q.Get("fromDate"); v != "" {
		t, _, err := parseDate(v)
		if err != nil {
			ve := &common.ValidationError{}
			return models.NoteFilter{}, ve.Add("fromDate", "Invalid date format")
		}
		filter.FromDate = &t
	}

	if v := q.Get("toDate"); v != "" {
		t, bare, err := parseDate(v)
		if err != nil {
			ve := &common.ValidationError{}
			return models.NoteFilter{}, ve.Add("toDate", "Invalid date format")
		}
		if bare {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.ToDate = &t
	}

	return filter, nil
}

func parseDate(v string) (t time.Time, bare bool, err error) {
	if t, err = time.Parse(dateOnly, v); err == nil {
		return t.UTC(), true, nil
	}
	if t, err = time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, err
}
