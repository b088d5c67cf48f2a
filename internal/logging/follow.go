package logging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// followPollInterval is the fallback cadence for filesystems that drop
// change notifications.
const followPollInterval = 500 * time.Millisecond

// Follow calls onLine for every line appended to the log file at path until
// ctx is canceled. Reading starts at the current end of the file. When a
// RotatingWriter renames the file away, the rest of the old file is read and
// following continues from the start of the new one.
func Follow(ctx context.Context, path string, onLine func(string)) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create log watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: the file itself is replaced on rotation.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	t := &tail{path: path, onLine: onLine}
	if err := t.open(io.SeekEnd); err != nil {
		return err
	}
	defer t.close()

	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if err := t.handle(ev.Op); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("log watcher failed: %w", err)

		case <-ticker.C:
			if err := t.poll(); err != nil {
				return err
			}
		}
	}
}

// tail reads one log file at a time, carrying an unterminated last line
// until its newline arrives.
type tail struct {
	path    string
	onLine  func(string)
	file    *os.File
	reader  *bufio.Reader
	partial string
}

func (t *tail) open(whence int) error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if _, err := f.Seek(0, whence); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to seek log file: %w", err)
	}
	t.file = f
	t.reader = bufio.NewReader(f)
	return nil
}

func (t *tail) close() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
		t.reader = nil
	}
}

func (t *tail) handle(op fsnotify.Op) error {
	switch {
	case op.Has(fsnotify.Create):
		return t.reopen()
	case op.Has(fsnotify.Write):
		return t.drain()
	case op.Has(fsnotify.Rename), op.Has(fsnotify.Remove):
		// The old handle stays readable until the new file shows up.
		return t.drain()
	}
	return nil
}

// drain emits every complete line available in the open file.
func (t *tail) drain() error {
	if t.reader == nil {
		return nil
	}
	for {
		line, err := t.reader.ReadString('\n')
		if err == io.EOF {
			t.partial += line
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading log file: %w", err)
		}
		t.emit(t.partial + line)
		t.partial = ""
	}
}

func (t *tail) emit(line string) {
	if line = strings.TrimSpace(line); line != "" {
		t.onLine(line)
	}
}

// reopen switches to the file now at path if it is not the one already
// open. The old file is read to its end first.
func (t *tail) reopen() error {
	if t.isCurrent() {
		return t.drain()
	}

	if err := t.drain(); err != nil {
		return err
	}
	t.emit(t.partial)
	t.partial = ""
	t.close()

	if err := t.open(io.SeekStart); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return t.drain()
}

func (t *tail) isCurrent() bool {
	if t.file == nil {
		return false
	}
	cur, err := t.file.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(t.path)
	if err != nil {
		// Renamed away with no replacement yet.
		return true
	}
	return os.SameFile(cur, onDisk)
}

// poll catches up on changes whose notifications were lost.
func (t *tail) poll() error {
	if _, err := os.Stat(t.path); err != nil {
		return t.drain()
	}
	return t.reopen()
}
