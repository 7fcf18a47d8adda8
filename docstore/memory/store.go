// Package memory provides an in-process docstore.DocStore.
//
// Documents are kept ordered by id and follow the same revision rules as the
// DynamoDB store, which makes the package suitable for tests and examples.
// Views are plain Go map functions evaluated at query time.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jacentio/tote/docstore"
	"github.com/jacentio/tote/internal/revision"
)

// MapFunc computes view rows for a document by calling emit once per key.
type MapFunc func(doc docstore.Doc, emit func(key string))

type entry struct {
	rev     string
	doc     docstore.Doc
	deleted bool
}

// Store is an in-memory document store. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]*entry
	views map[string]MapFunc
}

var _ docstore.DocStore = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		docs:  make(map[string]*entry),
		views: make(map[string]MapFunc),
	}
}

// RegisterView adds or replaces the named view.
func (s *Store) RegisterView(name string, fn MapFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[name] = fn
}

// Put creates or updates a document. A create must not carry a revision;
// an update must carry the current one.
func (s *Store) Put(ctx context.Context, doc docstore.Doc, id string) (*docstore.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, docstore.ErrNotObject
	}
	if id == "" {
		id = doc.ID()
	}
	if id == "" {
		return nil, docstore.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rev := doc.Rev()
	current, exists := s.docs[id]
	live := exists && !current.deleted
	switch {
	case live && rev != current.rev:
		return nil, docstore.ErrConflict
	case !live && rev != "":
		return nil, docstore.ErrConflict
	}

	next := revision.Next(rev)

	stored := doc.Clone()
	stored[docstore.FieldID] = id
	stored[docstore.FieldRev] = next
	s.docs[id] = &entry{rev: next, doc: stored}

	return &docstore.PutResult{OK: true, ID: id, Rev: next}, nil
}

// Get returns a copy of the live document stored under id.
func (s *Store) Get(ctx context.Context, id string) (docstore.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.docs[id]
	if !ok || e.deleted {
		return nil, docstore.ErrNotFound
	}
	return e.doc.Clone(), nil
}

// AllDocs returns live documents ordered by id.
func (s *Store) AllDocs(ctx context.Context, opts docstore.QueryOptions) ([]docstore.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id, e := range s.docs {
		if !e.deleted && opts.Contains(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	rows := make([]docstore.Row, 0, len(ids))
	for _, id := range ids {
		e := s.docs[id]
		rows = append(rows, s.row(id, id, e, opts))
	}
	return window(rows, opts), nil
}

// Query evaluates the named view over live documents. Rows are ordered by
// emitted key, then by id.
func (s *Store) Query(ctx context.Context, view string, opts docstore.QueryOptions) ([]docstore.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fn, ok := s.views[view]
	if !ok {
		return nil, fmt.Errorf("%w: %s", docstore.ErrUnknownView, view)
	}

	rows := []docstore.Row{}
	for id, e := range s.docs {
		if e.deleted {
			continue
		}
		fn(e.doc.Clone(), func(key string) {
			if opts.Contains(key) {
				rows = append(rows, s.row(id, key, e, opts))
			}
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Key != rows[j].Key {
			return rows[i].Key < rows[j].Key
		}
		return rows[i].ID < rows[j].ID
	})
	return window(rows, opts), nil
}

// Remove replaces the document with a tombstone.
func (s *Store) Remove(ctx context.Context, id, rev string) (*docstore.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[id]
	if !ok || e.deleted {
		return nil, docstore.ErrNotFound
	}
	if e.rev != rev {
		return nil, docstore.ErrConflict
	}

	next := revision.Next(rev)
	s.docs[id] = &entry{
		rev: next,
		doc: docstore.Doc{
			docstore.FieldID:      id,
			docstore.FieldRev:     next,
			docstore.FieldDeleted: true,
		},
		deleted: true,
	}
	return &docstore.PutResult{OK: true, ID: id, Rev: next}, nil
}

// Len returns the number of live documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.docs {
		if !e.deleted {
			n++
		}
	}
	return n
}

func (s *Store) row(id, key string, e *entry, opts docstore.QueryOptions) docstore.Row {
	row := docstore.Row{ID: id, Key: key, Rev: e.rev}
	if opts.WantDocs() {
		row.Doc = e.doc.Clone()
	}
	return row
}

// window applies ordering direction and limit to ascending rows.
func window(rows []docstore.Row, opts docstore.QueryOptions) []docstore.Row {
	if opts.Descending {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows
}
