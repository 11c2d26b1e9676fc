package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
)

// DateLayout is the ISO-8601 calendar date format used by every date argument.
const DateLayout = "2006-01-02"

// Limit describes a bounded count argument.
type Limit struct {
	Default int
	Max     int
}

// Resolve returns Default when v is unset and otherwise clamps v into [1, Max].
func (l Limit) Resolve(v *Int) int {
	if v == nil {
		return l.Default
	}
	return Clamp(int(*v), 1, l.Max)
}

// ID is an identifier argument. Callers send ids as JSON strings or numbers;
// both decode to the same text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

// Int is an integer argument that also accepts a numeric string.
type Int int

// IntOf returns a pointer to v as an Int.
func IntOf(v int) *Int {
	n := Int(v)
	return &n
}

func (n *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	text := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("%s is not an integer", b)
	}
	*n = Int(v)
	return nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Require fails with a MissingArgument error when value is blank.
func Require(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apierr.MissingArgument(name)
	}
	return value, nil
}

// ParseDate parses a YYYY-MM-DD argument in loc. A blank value returns the
// zero time and no error.
func ParseDate(name, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, apierr.InvalidArgument(name, "must be in YYYY-MM-DD format")
	}
	return t, nil
}

// Today truncates now to midnight in its own location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Window is an inclusive calendar date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// String renders the window the way tool results label it.
func (w Window) String() string {
	return w.Start.Format(DateLayout) + " to " + w.End.Format(DateLayout)
}

// Ordered fails when the window runs backwards.
func (w Window) Ordered() error {
	if w.End.Before(w.Start) {
		return apierr.InvalidArgument("start_date", "must not be after end_date")
	}
	return nil
}

// TrailingWindow resolves a window that defaults to the days before its end:
// end falls back to today and start to end minus days.
func TrailingWindow(start, end string, today time.Time, days int) (Window, error) {
	e, err := ParseDate("end_date", end, today.Location())
	if err != nil {
		return Window{}, err
	}
	if e.IsZero() {
		e = today
	}
	s, err := ParseDate("start_date", start, today.Location())
	if err != nil {
		return Window{}, err
	}
	if s.IsZero() {
		s = e.AddDate(0, 0, -days)
	}
	w := Window{Start: s, End: e}
	return w, w.Ordered()
}

// AroundWindow resolves a window whose bounds default independently to
// today minus back and today plus forward.
func AroundWindow(start, end string, today time.Time, back, forward int) (Window, error) {
	s, err := ParseDate("start_date", start, today.Location())
	if err != nil {
		return Window{}, err
	}
	if s.IsZero() {
		s = today.AddDate(0, 0, -back)
	}
	e, err := ParseDate("end_date", end, today.Location())
	if err != nil {
		return Window{}, err
	}
	if e.IsZero() {
		e = today.AddDate(0, 0, forward)
	}
	w := Window{Start: s, End: e}
	return w, w.Ordered()
}
