package model

import (
	"context"
	"fmt"
	"maps"
	"sort"

	"github.com/jacentio/tote/docstore"
)

// Model is a named document type bound to a registry's host store.
// A Model is immutable; redefining its name in the registry produces a new
// Model and leaves existing references on the old definition.
type Model struct {
	name    string
	prefix  string
	def     Definition
	queries map[string]Query
	actions map[string]Action

	db   docstore.DocStore
	opts options
}

func newModel(r *Registry, name string, def Definition, prev *Model) *Model {
	prefix := def.IDPrefix
	if prefix == "" {
		prefix = name
	}

	queries := make(map[string]Query)
	actions := make(map[string]Action)
	if prev != nil {
		maps.Copy(queries, prev.queries)
		maps.Copy(actions, prev.actions)
	}
	maps.Copy(queries, def.Queries)
	maps.Copy(actions, def.Actions)

	return &Model{
		name:    name,
		prefix:  prefix,
		def:     def,
		queries: queries,
		actions: actions,
		db:      r.db,
		opts:    r.opts,
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Prefix returns the id prefix All ranges over.
func (m *Model) Prefix() string { return m.prefix }

// Queries returns the declared query names in order.
func (m *Model) Queries() []string { return sortedKeys(m.queries) }

// Actions returns the declared action names in order.
func (m *Model) Actions() []string { return sortedKeys(m.actions) }

// PrefixRange returns options selecting every id that starts with
// prefix followed by '_'.
func PrefixRange(prefix string) docstore.QueryOptions {
	return docstore.QueryOptions{
		StartKey:    prefix + "_",
		EndKey:      prefix + "_" + docstore.MaxKey,
		IncludeDocs: docstore.Bool(true),
	}
}

// Save persists record under a generated id after validation.
//
// record must be a docstore.Doc, a map[string]any, or a struct (or pointer to
// one). When record is a Doc or map, its _id and _rev are updated in place on
// success.
func (m *Model) Save(ctx context.Context, record any) (*docstore.PutResult, error) {
	doc, err := m.toDoc(record)
	if err != nil {
		return nil, err
	}
	return m.save(ctx, doc)
}

// SaveAsync is Save returning a Future. A non-object record yields a future
// that has already failed. A Doc or map record must not be modified until the
// future completes.
func (m *Model) SaveAsync(ctx context.Context, record any) *Future[*docstore.PutResult] {
	doc, err := m.toDoc(record)
	if err != nil {
		return resolvedFuture[*docstore.PutResult](nil, err)
	}
	return goFuture(ctx, func(ctx context.Context) (*docstore.PutResult, error) {
		return m.save(ctx, doc)
	})
}

func (m *Model) toDoc(record any) (docstore.Doc, error) {
	doc, err := docstore.ToDoc(record)
	if err != nil {
		return nil, &InvalidArgumentError{Value: record}
	}
	return doc, nil
}

func (m *Model) save(ctx context.Context, doc docstore.Doc) (*docstore.PutResult, error) {
	id, err := m.def.ID.generate(m.name, m.prefix, doc, m.opts.clock())
	if err != nil {
		m.opts.logger.Debug("id generation failed", "model", m.name, "error", err)
		return nil, err
	}

	if m.def.Validate != nil {
		if failures := m.def.Validate(doc); len(failures) > 0 {
			m.opts.logger.Debug("save rejected",
				"model", m.name,
				"id", id,
				"fields", len(failures),
			)
			return nil, &ValidationError{Model: m.name, Fields: failures}
		}
	}

	result, err := m.db.Put(ctx, doc, id)
	if err != nil {
		return nil, err
	}
	doc[docstore.FieldID] = result.ID
	doc[docstore.FieldRev] = result.Rev
	return result, nil
}

// All returns every document whose id starts with the model prefix.
func (m *Model) All(ctx context.Context) ([]docstore.Doc, error) {
	rows, err := m.db.AllDocs(ctx, PrefixRange(m.prefix))
	if err != nil {
		return nil, err
	}
	return docsOf(rows), nil
}

// AllAsync is All returning a Future.
func (m *Model) AllAsync(ctx context.Context) *Future[[]docstore.Doc] {
	return goFuture(ctx, m.All)
}

// Query runs the named query with args.
func (m *Model) Query(ctx context.Context, name string, args ...any) (QueryResult, error) {
	q, ok := m.queries[name]
	if !ok {
		return QueryResult{}, fmt.Errorf("%w: %s.%s", ErrUnknownQuery, m.name, name)
	}

	var opts docstore.QueryOptions
	if q.Options != nil {
		opts = q.Options(args...)
	}
	single := opts.Limit == 1

	if opts.IncludeDocs == nil {
		opts.IncludeDocs = docstore.Bool(true)
	}
	if opts.Limit == 0 && m.opts.defaultLimit > 0 {
		opts.Limit = m.opts.defaultLimit
	}

	var (
		rows []docstore.Row
		err  error
	)
	if q.View != "" {
		rows, err = m.db.Query(ctx, q.View, opts)
	} else {
		rows, err = m.db.AllDocs(ctx, opts)
	}
	if err != nil {
		return QueryResult{}, err
	}

	docs := docsOf(rows)
	if single {
		var first docstore.Doc
		if len(docs) > 0 {
			first = docs[0]
		}
		return QueryResult{Single: true, Doc: first}, nil
	}
	return QueryResult{Docs: docs}, nil
}

// QueryAsync is Query returning a Future.
func (m *Model) QueryAsync(ctx context.Context, name string, args ...any) *Future[QueryResult] {
	return goFuture(ctx, func(ctx context.Context) (QueryResult, error) {
		return m.Query(ctx, name, args...)
	})
}

// Do invokes the named action with the host store bound first. Results and
// errors are returned unchanged.
func (m *Model) Do(ctx context.Context, name string, args ...any) (any, error) {
	action, ok := m.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAction, m.name, name)
	}
	return action(ctx, m.db, args...)
}

// DoAsync is Do returning a Future.
func (m *Model) DoAsync(ctx context.Context, name string, args ...any) *Future[any] {
	return goFuture(ctx, func(ctx context.Context) (any, error) {
		return m.Do(ctx, name, args...)
	})
}

// Watches reports whether the model has a change hook.
func (m *Model) Watches() bool {
	return m.def.OnChange != nil
}

// Notify delivers change to the model's change hook, if any.
func (m *Model) Notify(ctx context.Context, change Change) error {
	if m.def.OnChange == nil {
		return nil
	}
	change.Model = m.name
	return m.def.OnChange(ctx, change)
}

// docsOf extracts row documents in order, skipping rows without one.
func docsOf(rows []docstore.Row) []docstore.Doc {
	docs := make([]docstore.Doc, 0, len(rows))
	for _, row := range rows {
		if row.Doc != nil {
			docs = append(docs, row.Doc)
		}
	}
	return docs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
