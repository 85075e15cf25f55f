// Package reqlog reads and appends the local request log, a pipe-delimited
// audit trail of every panel request soar has made.
package reqlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vedsharma/soar/internal/model"
	"github.com/vedsharma/soar/internal/version"
)

const (
	// Dir is the log directory inside the soar library
	Dir = "logs"
	// File is the request log file name
	File = "requests.log"

	fieldCount = 7
	dirMode    = 0755
	fileMode   = 0644
)

// ErrMissingConfigLocation is returned when no library directory is known
var ErrMissingConfigLocation = errors.New("missing config location: the request log directory could not be resolved")

// Warner receives write failures
type Warner interface {
	Warn(kind string, lines ...string)
}

// Entry is a request to be logged. Date and Ref are filled in by Append.
type Entry struct {
	Method   string
	Response int
	Type     string
	Domain   string
	Path     string
}

// Log is the request log of one library directory
type Log struct {
	path   string
	warner Warner
	now    func() time.Time

	mu sync.Mutex
}

// Open resolves the request log for a library directory. The file itself is
// created lazily by Append and ReadAll.
func Open(libraryPath string, warner Warner) (*Log, error) {
	if libraryPath == "" {
		return nil, ErrMissingConfigLocation
	}

	return &Log{
		path:   filepath.Join(libraryPath, Dir, File),
		warner: warner,
		now:    time.Now,
	}, nil
}

// Path returns the log file path
func (l *Log) Path() string {
	return l.path
}

func (l *Log) ensure() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.path), dirMode); err != nil {
		return err
	}

	return os.WriteFile(l.path, []byte(header()), fileMode)
}

func header() string {
	return "#" + version.Version + "\n"
}

// Append writes one entry to the end of the log. Failures are reported to the
// warner unless ignoreWriteWarnings is set and are never returned.
func (l *Log) Append(e Entry, ignoreWriteWarnings bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.append(e); err != nil && !ignoreWriteWarnings && l.warner != nil {
		l.warner.Warn("Request Log", fmt.Sprintf("couldn't write to %s: %v", l.path, err))
	}
}

func (l *Log) append(e Entry) error {
	if err := l.ensure(); err != nil {
		return err
	}

	ref := l.lastRef()

	typ := e.Type
	if typ == "" {
		typ = model.LogTypeDirect
	}

	line := strings.Join([]string{
		strconv.FormatInt(l.now().UnixMilli(), 10),
		strings.ToUpper(e.Method),
		strconv.Itoa(e.Response),
		typ,
		stripScheme(e.Domain),
		e.Path,
		ref,
	}, "|")

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return err
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// lastRef returns the date token of the last well formed data line, or "0"
func (l *Log) lastRef() string {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "0"
	}

	lines := strings.Split(string(bytes.TrimRight(data, "\n")), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := parseLine(line); !ok {
			continue
		}
		token, _, _ := strings.Cut(line, "|")
		return token
	}

	return "0"
}

func stripScheme(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	return strings.TrimPrefix(domain, "http://")
}

// ReadAll returns every well formed entry in file order. An absent log is
// created empty.
func (l *Log) ReadAll() ([]model.ReqLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensure(); err != nil {
		return nil, fmt.Errorf("failed to create request log: %w", err)
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open request log: %w", err)
	}
	defer f.Close()

	var logs []model.ReqLog
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if entry, ok := parseLine(line); ok {
			logs = append(logs, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read request log: %w", err)
	}

	return logs, nil
}

func parseLine(line string) (model.ReqLog, bool) {
	fields := strings.Split(line, "|")
	if len(fields) != fieldCount {
		return model.ReqLog{}, false
	}

	date, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return model.ReqLog{}, false
	}
	status, err := strconv.Atoi(fields[2])
	if err != nil {
		return model.ReqLog{}, false
	}
	if fields[1] == "" || fields[3] == "" {
		return model.ReqLog{}, false
	}

	return model.ReqLog{
		Date:     date,
		Method:   fields[1],
		Response: status,
		Type:     fields[3],
		Domain:   fields[4],
		Path:     fields[5],
		Ref:      fields[6],
	}, true
}
