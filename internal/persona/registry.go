package persona

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"persona/internal/logging"
)

// Registry serves persona definitions by name and hot-reloads the
// definition directory when files change. Reads are lock-cheap; reloads
// replace the whole map under the write lock.
type Registry struct {
	mu      sync.RWMutex
	dir     string
	defs    map[string]Definition
	watcher *fsnotify.Watcher

	stopCh chan struct{}
	doneCh chan struct{}
	runMu  sync.Mutex
	run    bool
}

// NewRegistry loads dir and returns a registry. Load errors on individual
// files are logged and skipped; the registry always serves at least the
// built-in default persona.
func NewRegistry(dir string) *Registry {
	r := &Registry{
		dir:    dir,
		defs:   make(map[string]Definition),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	r.reload()
	return r
}

// reload re-reads the persona directory and swaps the definition map.
func (r *Registry) reload() {
	defs, errs := LoadDir(r.dir)
	for _, err := range errs {
		logging.Get(logging.CategoryPersona).Warn("skipping persona file: %v", err)
	}

	next := make(map[string]Definition, len(defs)+1)
	for _, def := range defs {
		next[strings.ToLower(def.Name)] = def
	}
	if len(next) == 0 {
		def := DefaultDefinition()
		next[strings.ToLower(def.Name)] = def
	}

	r.mu.Lock()
	r.defs = next
	r.mu.Unlock()

	logging.PersonaDebug("registry reloaded: %d personas from %s", len(next), r.dir)
}

// Get returns the persona with the given name (case-insensitive).
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[strings.ToLower(name)]
	return def, ok
}

// List returns all personas sorted by name.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sortByName(out)
	return out
}

// Default returns the configured persona if it exists, otherwise the first
// persona alphabetically, otherwise the built-in fallback.
func (r *Registry) Default(preferred string) Definition {
	if preferred != "" {
		if def, ok := r.Get(preferred); ok {
			return def
		}
		logging.Get(logging.CategoryPersona).Warn("configured persona %q not found, falling back", preferred)
	}
	all := r.List()
	if len(all) > 0 {
		return all[0]
	}
	return DefaultDefinition()
}

// Watch starts hot-reloading the persona directory until ctx is cancelled
// or Stop is called. Non-blocking. Rapid saves are debounced so an editor
// writing a file in chunks triggers one reload, not several.
func (r *Registry) Watch(ctx context.Context) error {
	r.runMu.Lock()
	if r.run {
		r.runMu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.runMu.Unlock()
		return err
	}
	r.watcher = watcher
	r.run = true
	r.runMu.Unlock()

	if err := watcher.Add(r.dir); err != nil {
		// Directory may not exist yet; the registry still works, it just
		// will not hot-reload.
		logging.Get(logging.CategoryPersona).Warn("persona watch failed (dir may not exist): %v", err)
	} else {
		logging.Persona("watching persona directory: %s", r.dir)
	}

	go r.watchLoop(ctx)
	return nil
}

// Stop halts the watcher and waits for the loop to exit.
func (r *Registry) Stop() {
	r.runMu.Lock()
	if !r.run {
		r.runMu.Unlock()
		return
	}
	r.run = false
	r.runMu.Unlock()

	close(r.stopCh)
	<-r.doneCh
	if err := r.watcher.Close(); err != nil {
		logging.Get(logging.CategoryPersona).Error("error closing persona watcher: %v", err)
	}
}

func (r *Registry) watchLoop(ctx context.Context) {
	defer close(r.doneCh)

	const debounce = 300 * time.Millisecond
	var pending *time.Timer
	var pendingCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			ext := strings.ToLower(filepath.Ext(event.Name))
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.PersonaDebug("persona file event: %s %s", event.Op, event.Name)
			if pending == nil {
				pending = time.NewTimer(debounce)
			} else {
				pending.Reset(debounce)
			}
			pendingCh = pending.C

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryPersona).Error("persona watcher error: %v", err)

		case <-pendingCh:
			pendingCh = nil
			r.reload()
		}
	}
}

func sortByName(defs []Definition) {
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
}
