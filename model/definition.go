package model

import (
	"context"

	"github.com/jacentio/tote/docstore"
)

// Definition declares a model.
type Definition struct {
	// ID selects the id generator. The zero value uses the default
	// timestamp-based generator.
	ID IDGenerator

	// Validate returns field to message failures, or nil when the document
	// is valid. A nil Validate accepts every document.
	Validate func(doc docstore.Doc) map[string]string

	// IDPrefix is the leading id segment that All ranges over.
	// Defaults to the model name.
	IDPrefix string

	// Queries are named range reads derived from caller arguments.
	Queries map[string]Query

	// Actions are arbitrary operations bound to the host store.
	Actions map[string]Action

	// OnChange receives change notifications for documents owned by the
	// model (see package stream).
	OnChange func(ctx context.Context, change Change) error
}

// Query declares a named range read.
type Query struct {
	// View is the store view to query. Empty means an AllDocs scan ordered
	// by id.
	View string

	// Options turns the caller's arguments into range options.
	Options func(args ...any) docstore.QueryOptions
}

// Action is an operation with the host store bound as its first argument.
type Action func(ctx context.Context, db docstore.DocStore, args ...any) (any, error)

// QueryResult holds the documents returned by a declared query.
type QueryResult struct {
	// Docs holds the documents in result order.
	Docs []docstore.Doc

	// Single is set when the query's own options asked for exactly one row.
	// Doc then holds that row's document, or nil when nothing matched, and
	// Docs is nil.
	Single bool
	Doc    docstore.Doc
}

// Change describes a write to a document owned by a model.
type Change struct {
	Model   string
	ID      string
	Rev     string
	Deleted bool

	// Doc is the new document body. Nil for deletions.
	Doc docstore.Doc
}
