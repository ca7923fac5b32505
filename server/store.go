package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reoring/jeomja"
)

const reloadDebounce = 100 * time.Millisecond

// TableStore holds the table set used by request handlers. A reload builds a
// new immutable set and swaps it in; requests in flight keep the set they
// started with.
type TableStore struct {
	path string
	log  *slog.Logger
	cur  atomic.Pointer[tableSnapshot]
}

type tableSnapshot struct {
	tables *jeomja.Tables
	data   jeomja.TableData
}

// NewTableStore loads path, or the embedded tables when path is empty.
func NewTableStore(path string, log *slog.Logger) (*TableStore, error) {
	s := &TableStore{path: path, log: log}
	if path == "" {
		s.cur.Store(&tableSnapshot{tables: jeomja.DefaultTables(), data: jeomja.DefaultTableData()})
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Tables returns the current set.
func (s *TableStore) Tables() *jeomja.Tables { return s.cur.Load().tables }

// Data returns the declarative form of the current set.
func (s *TableStore) Data() jeomja.TableData { return s.cur.Load().data }

// Reload rereads the table file. On error the previous set stays active.
func (s *TableStore) Reload() error {
	if s.path == "" {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("server: open tables: %w", err)
	}
	defer f.Close()

	d, err := jeomja.ParseTableData(f)
	if err != nil {
		return fmt.Errorf("server: parse %s: %w", s.path, err)
	}
	ts, err := jeomja.Build(d)
	if err != nil {
		return fmt.Errorf("server: build %s: %w", s.path, err)
	}
	s.cur.Store(&tableSnapshot{tables: ts, data: d})
	s.log.Info("tables loaded", "path", s.path, "name", ts.Name())
	return nil
}

// Watch reloads the table file whenever it is written, until ctx is done.
// It returns once the watcher is running.
func (s *TableStore) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("server: no table file to watch")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: create watcher: %w", err)
	}
	// Editors replace files by rename, so watch the directory.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("server: watch directory: %w", err)
	}
	go s.watchLoop(ctx, w)
	return nil
}

func (s *TableStore) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	defer w.Close()
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(s.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				if err := s.Reload(); err != nil {
					s.log.Warn("table reload failed, keeping previous set", "path", s.path, "err", err)
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("table watcher", "err", err)
		}
	}
}
