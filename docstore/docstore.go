package docstore

import (
	"context"
)

const (
	// FieldID is the reserved document field holding the document id.
	FieldID = "_id"

	// FieldRev is the reserved document field holding the revision token.
	FieldRev = "_rev"

	// FieldDeleted marks a tombstone left behind by Remove.
	FieldDeleted = "_deleted"

	// MaxKey is the highest code point recognised by the key comparator.
	MaxKey = "\uffff"
)

// Doc is a schemaless document.
type Doc map[string]any

// ID returns the document id, or "" when the document has none.
func (d Doc) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Rev returns the revision token, or "" for a document never persisted.
func (d Doc) Rev() string {
	rev, _ := d[FieldRev].(string)
	return rev
}

// Clone returns a deep copy of the document. Nested maps and slices are
// copied; other values are shared.
func (d Doc) Clone() Doc {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Doc:
		return Doc(cloneValue(map[string]any(t)).(map[string]any))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = cloneValue(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = cloneValue(v)
		}
		return out
	default:
		return v
	}
}

// DocStore is the host document store.
type DocStore interface {
	// Put creates or updates the document stored under id. Updates must carry
	// the current revision in the document's _rev field.
	Put(ctx context.Context, doc Doc, id string) (*PutResult, error)

	// Get returns the live document stored under id.
	Get(ctx context.Context, id string) (Doc, error)

	// AllDocs returns documents ordered by id within the option bounds.
	AllDocs(ctx context.Context, opts QueryOptions) ([]Row, error)

	// Query returns rows of the named view ordered by view key.
	Query(ctx context.Context, view string, opts QueryOptions) ([]Row, error)

	// Remove deletes the document at the given revision.
	Remove(ctx context.Context, id, rev string) (*PutResult, error)
}

// PutResult is returned by a successful write.
type PutResult struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// Row is a single result of a range read.
type Row struct {
	// ID is the document id.
	ID string

	// Key is the sort key the row was selected by: the id for AllDocs,
	// the emitted view key for Query.
	Key string

	// Rev is the document revision.
	Rev string

	// Doc is the document body. Nil unless IncludeDocs was requested.
	Doc Doc
}

// QueryOptions bounds a range read.
type QueryOptions struct {
	// StartKey is the inclusive first key. Empty means unbounded.
	StartKey string

	// EndKey is the inclusive last key. Empty means unbounded.
	EndKey string

	// Limit caps the number of rows (0 = no limit).
	Limit int

	// IncludeDocs requests document bodies. Nil is treated as false.
	IncludeDocs *bool

	// Descending reverses the order. As in CouchDB, StartKey is then the
	// upper bound and EndKey the lower one.
	Descending bool
}

// WantDocs reports whether document bodies were requested.
func (o QueryOptions) WantDocs() bool {
	return o.IncludeDocs != nil && *o.IncludeDocs
}

// Bounds returns the lower and upper key bounds, accounting for Descending.
func (o QueryOptions) Bounds() (lo, hi string) {
	if o.Descending {
		return o.EndKey, o.StartKey
	}
	return o.StartKey, o.EndKey
}

// Empty reports whether the bounds cannot match any key.
func (o QueryOptions) Empty() bool {
	lo, hi := o.Bounds()
	return lo != "" && hi != "" && lo > hi
}

// Contains reports whether key falls within the bounds.
func (o QueryOptions) Contains(key string) bool {
	lo, hi := o.Bounds()
	if lo != "" && key < lo {
		return false
	}
	if hi != "" && key > hi {
		return false
	}
	return true
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
