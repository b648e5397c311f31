package logger

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TailLogs streams the last backlog entries of the current category log, then every
// entry appended to it, until stop is closed. Backlog and live entries are read through
// one file handle, so nothing written in between is lost. A new day's file is followed
// from its first line.
func (lr *LogReader) TailLogs(category LogCategory, backlog int, entries chan<- LogEntry, stop <-chan struct{}) error {
	if err := os.MkdirAll(lr.logsDir, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(lr.logsDir); err != nil {
		return err
	}

	t := &tailFile{path: CategoryLogPath(lr.logsDir, category, time.Now())}
	defer t.close()
	if err := t.open(); err != nil {
		return err
	}

	if t.file != nil {
		existing := t.readLines()
		if len(existing) > backlog {
			existing = existing[len(existing)-backlog:]
		}
		if !sendLines(existing, category, entries, stop) {
			return nil
		}
	}

	for {
		select {
		case <-stop:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if current := CategoryLogPath(lr.logsDir, category, time.Now()); current != t.path {
				t.close()
				t.path = current
			}
			if filepath.Clean(event.Name) != t.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if t.file == nil {
				if err := t.open(); err != nil {
					return err
				}
			}

			if !sendLines(t.readLines(), category, entries, stop) {
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// sendLines reports false when stop closed before every line was delivered
func sendLines(lines []string, category LogCategory, entries chan<- LogEntry, stop <-chan struct{}) bool {
	for _, line := range lines {
		select {
		case entries <- parseEntry(line, category):
		case <-stop:
			return false
		}
	}
	return true
}

// tailFile reads complete lines appended to one file
type tailFile struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	partial string
}

// open opens the file from its start if it exists
func (t *tailFile) open() error {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	t.file = f
	t.reader = bufio.NewReader(f)
	t.partial = ""
	return nil
}

func (t *tailFile) readLines() []string {
	var lines []string
	for {
		chunk, err := t.reader.ReadString('\n')
		if err != nil {
			t.partial += chunk
			return lines
		}
		line := strings.TrimSpace(t.partial + chunk)
		t.partial = ""
		if line != "" {
			lines = append(lines, line)
		}
	}
}

func (t *tailFile) close() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
		t.reader = nil
	}
}
