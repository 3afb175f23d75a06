package config

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	validatorpkg "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validatorpkg.New()

// Loader reads Tuning from a YAML file and keeps an in-memory snapshot
// fresh by watching the file for writes, per spec's requirement that
// mainTuning be "observable at runtime".
type Loader struct {
	path    string
	logger  logr.Logger
	current atomic.Pointer[Tuning]
	watcher *fsnotify.Watcher
}

// NewLoader creates a Loader for the YAML file at path and performs an
// initial load.
func NewLoader(path string, logger logr.Logger) (*Loader, error) {
	l := &Loader{path: path, logger: logger}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Current returns the most recently loaded Tuning snapshot. Callers must
// treat the returned value as immutable.
func (l *Loader) Current() Tuning {
	if t := l.current.Load(); t != nil {
		return *t
	}
	return DefaultTuning()
}

func (l *Loader) reload() error {
	t := DefaultTuning()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.current.Store(&t)
			return nil
		}
		return fmt.Errorf("reading tuning config %s: %w", l.path, err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parsing tuning config %s: %w", l.path, err)
	}
	if err := validate.Struct(&t); err != nil {
		return fmt.Errorf("validating tuning config %s: %w", l.path, err)
	}

	l.current.Store(&t)
	return nil
}

// Watch blocks, re-loading Current() whenever the underlying file changes,
// until ctx-equivalent stop is signaled by closing stop. Errors from a bad
// reload are logged and the previous good snapshot is kept in place.
func (l *Loader) Watch(stop <-chan struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	l.watcher = w
	defer w.Close()

	if err := w.Add(l.path); err != nil {
		if os.IsNotExist(err) {
			l.logger.V(1).Info("tuning config file does not exist yet, skipping watch", "path", l.path)
			return nil
		}
		return fmt.Errorf("watching tuning config %s: %w", l.path, err)
	}

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := l.reload(); err != nil {
				l.logger.Error(err, "failed to reload tuning config, keeping previous values")
				continue
			}
			l.logger.Info("reloaded tuning config", "path", l.path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Error(err, "tuning config watcher error")
		}
	}
}
