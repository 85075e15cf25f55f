package reqlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vedsharma/soar/internal/model"
)

var methods = []string{"GET", "POST", "PATCH", "PUT", "DELETE"}

// Filter narrows a list of request log entries. Zero fields match everything.
type Filter struct {
	From   time.Time
	Method string
	App    bool
	Client bool
	Raw    bool
}

// Apply returns the entries matching every set field, in input order
func (f Filter) Apply(logs []model.ReqLog) []model.ReqLog {
	method := strings.ToUpper(f.Method)
	from := f.From.UnixMilli()

	out := make([]model.ReqLog, 0, len(logs))
	for _, l := range logs {
		if !f.From.IsZero() && l.Date < from {
			continue
		}
		if method != "" && l.Method != method {
			continue
		}
		if f.App && !strings.Contains(l.Path, "application") {
			continue
		}
		if f.Client && !strings.Contains(l.Path, "client") {
			continue
		}
		if f.Raw && l.Type == model.LogTypeDirect {
			continue
		}
		out = append(out, l)
	}

	return out
}

// NormalizeMethod upper-cases a method name and checks the panel accepts it
func NormalizeMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	for _, known := range methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid method %q: expected one of %s", method, strings.Join(methods, ", "))
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	time.RFC3339,
}

// ParseDate accepts epoch milliseconds, 2006-01-02, 01/02/2006 or RFC3339
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q: use epoch milliseconds, YYYY-MM-DD, MM/DD/YYYY or RFC3339", s)
}
