package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jacentio/tote/docstore"
)

// Registry holds the models defined over a host store.
type Registry struct {
	db   docstore.DocStore
	opts options

	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry creates an empty Registry over db.
func NewRegistry(db docstore.DocStore, opts ...Option) *Registry {
	return &Registry{
		db:     db,
		opts:   newOptions(opts),
		models: make(map[string]*Model),
	}
}

// Store returns the host store.
func (r *Registry) Store() docstore.DocStore {
	return r.db
}

// Define registers a model and returns it. Defining an existing name
// replaces its definition; queries and actions of the previous definition
// that the new one does not redeclare are kept.
// Define performs no I/O.
func (r *Registry) Define(name string, def Definition) *Model {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := newModel(r, name, def, r.models[name])
	r.models[name] = m

	r.opts.logger.Debug("model defined",
		"model", name,
		"prefix", m.prefix,
		"queries", len(m.queries),
		"actions", len(m.actions),
	)
	return m
}

// DefineAll registers every model in defs, in name order.
func (r *Registry) DefineAll(defs map[string]Definition) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r.Define(name, defs[name])
	}
}

// Model returns the named model.
func (r *Registry) Model(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// Lookup returns the named model or ErrUnknownModel.
func (r *Registry) Lookup(name string) (*Model, error) {
	m, ok := r.Model(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return m, nil
}

// Models returns the defined model names in order.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the model owning id: the one whose prefix followed by '_'
// is the longest prefix of id.
func (r *Registry) Resolve(id string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Model
	for _, m := range r.models {
		if !strings.HasPrefix(id, m.prefix+"_") {
			continue
		}
		if best == nil || len(m.prefix) > len(best.prefix) ||
			(len(m.prefix) == len(best.prefix) && m.name < best.name) {
			best = m
		}
	}
	return best, best != nil
}
