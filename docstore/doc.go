// Package docstore defines the document-store contract that tote models are
// layered over, along with the shared document and row types.
//
// A host store persists schemaless documents keyed by a string id and
// versioned by an opaque revision token. Implementations live in the
// sub-packages:
//
//   - [github.com/jacentio/tote/docstore/dynamo] stores documents in a single
//     DynamoDB partition ordered by id, with views backed by GSIs.
//   - [github.com/jacentio/tote/docstore/memory] keeps documents in process,
//     with views computed from map functions.
//
// # Keys and ranges
//
// Range reads ([DocStore.AllDocs], [DocStore.Query]) are bounded by
// [QueryOptions.StartKey] and [QueryOptions.EndKey], both inclusive and
// compared byte-wise. [MaxKey] sorts after every character an id is built
// from, so prefix + [MaxKey] closes a prefix range:
//
//	rows, err := db.AllDocs(ctx, docstore.QueryOptions{
//	    StartKey:    "band_",
//	    EndKey:      "band_" + docstore.MaxKey,
//	    IncludeDocs: docstore.Bool(true),
//	})
//
// # Errors
//
//   - [ErrNotFound] - document is missing or deleted (status 404)
//   - [ErrConflict] - revision mismatch on write (status 409)
//   - [ErrMissingID] - write without a document id (status 400)
//   - [ErrUnknownView] - query against a view the store does not know
package docstore
