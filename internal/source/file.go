package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileOptions configure a file follow.
type FileOptions struct {
	// FromStart replays the existing file contents before following new
	// writes. The default starts at the current end of file.
	FromStart bool
}

const reopenInterval = 250 * time.Millisecond

// OpenFile follows a local log file, delivering appended bytes as they are
// written. Rotation (rename or removal followed by recreation) is handled by
// reopening the path from the beginning. The returned reader blocks between
// writes; Close stops the follow and unblocks a pending read.
func OpenFile(path string, opts FileOptions) (io.ReadCloser, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if !opts.FromStart {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("seek log file: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so renames and recreations are visible.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = file.Close()
		_ = watcher.Close()
		return nil, fmt.Errorf("watch log directory: %w", err)
	}

	pr, pw := io.Pipe()
	ft := &fileTail{reader: pr, done: make(chan struct{})}
	go ft.follow(file, watcher, pw, abs)
	return ft, nil
}

// fileTail adapts the follow goroutine to io.ReadCloser. Close signals the
// goroutine through done and breaks the pipe so both sides unblock.
type fileTail struct {
	reader *io.PipeReader
	done   chan struct{}
	once   sync.Once
}

func (f *fileTail) Read(p []byte) (int, error) {
	return f.reader.Read(p)
}

func (f *fileTail) Close() error {
	f.once.Do(func() { close(f.done) })
	return f.reader.Close()
}

func (f *fileTail) follow(file *os.File, watcher *fsnotify.Watcher, pw *io.PipeWriter, path string) {
	defer func() {
		if file != nil {
			_ = file.Close()
		}
		_ = watcher.Close()
	}()

	copyNew := func() error {
		if file == nil {
			return nil
		}
		_, err := io.Copy(pw, file)
		return err
	}

	// Replay whatever is already readable from the current offset.
	if err := copyNew(); err != nil {
		_ = pw.CloseWithError(err)
		return
	}

	reopen := time.NewTicker(reopenInterval)
	defer reopen.Stop()
	needReopen := false

	for {
		select {
		case <-f.done:
			_ = pw.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				_ = pw.Close()
				return
			}
			if event.Name != path {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write):
				if err := copyNew(); err != nil {
					_ = pw.CloseWithError(err)
					return
				}
			case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
				// Rotated away: keep draining the old handle until the
				// path reappears.
				if err := copyNew(); err != nil {
					_ = pw.CloseWithError(err)
					return
				}
				if file != nil {
					_ = file.Close()
					file = nil
				}
				needReopen = true
			case event.Op.Has(fsnotify.Create):
				if file == nil {
					needReopen = true
				}
			}
			if needReopen {
				if reopened, err := os.Open(path); err == nil {
					file = reopened
					needReopen = false
					if err := copyNew(); err != nil {
						_ = pw.CloseWithError(err)
						return
					}
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				_ = pw.Close()
				return
			}
			_ = pw.CloseWithError(fmt.Errorf("watch log file: %w", err))
			return

		case <-reopen.C:
			if !needReopen {
				continue
			}
			reopened, err := os.Open(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				_ = pw.CloseWithError(fmt.Errorf("reopen log file: %w", err))
				return
			}
			file = reopened
			needReopen = false
			if err := copyNew(); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
		}
	}
}
