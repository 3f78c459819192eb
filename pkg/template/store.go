package template

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/boattime/portfolio/pkg/errors"
)

// Store loads templates from a directory with an in-memory parse cache.
// Watch invalidates cached entries when their files change on disk.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*Template
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: map[string]*Template{}}
}

// Load returns the named template, parsing and caching it on first use.
func (s *Store) Load(name string) (*Template, error) {
	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, name+Ext)
	tmpl, err := FromFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedTemplate,
			fmt.Sprintf("template %q", name), err)
	}

	s.mu.Lock()
	s.cache[name] = tmpl
	s.mu.Unlock()

	return tmpl, nil
}

// Invalidate drops the named template from the cache.
func (s *Store) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// Clear drops every cached template.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cache = map[string]*Template{}
	s.mu.Unlock()
}

// Watch invalidates cache entries when template files change, until the
// context is canceled. It returns once the watcher is running; errors
// establishing the watch are returned immediately.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create template watcher", err)
	}

	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return errors.Wrap(errors.ErrCodeInternal, "failed to watch template directory", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != Ext {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := templateName(event.Name)
				s.Invalidate(name)
				slog.Debug("template cache invalidated", "template", name, "op", event.Op.String())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("template watcher error", "error", err)
			}
		}
	}()

	return nil
}

func templateName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(Ext)]
}
