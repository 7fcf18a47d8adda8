package model

import (
	"strconv"
	"time"

	"github.com/jacentio/tote/docstore"
)

type idKind int

const (
	idDefault idKind = iota
	idSegments
	idDirect
)

// IDGenerator selects how a model derives document ids. The zero value is
// the default generator: the model's id prefix followed by the current
// epoch-millisecond timestamp. Ids generated within the same millisecond
// collide. The prefix is not slugged, so a model name with upper-case or
// other non-slug characters appears in default ids as written.
type IDGenerator struct {
	kind     idKind
	segments func(docstore.Doc) []string
	direct   func(docstore.Doc) string
}

// Segments builds ids from raw segments; each is slugged and the slugs are
// joined with '_'.
func Segments(fn func(doc docstore.Doc) []string) IDGenerator {
	return IDGenerator{kind: idSegments, segments: fn}
}

// Segment is Segments for a single segment.
func Segment(fn func(doc docstore.Doc) string) IDGenerator {
	if fn == nil {
		return IDGenerator{kind: idSegments}
	}
	return Segments(func(doc docstore.Doc) []string {
		return []string{fn(doc)}
	})
}

// Direct uses the returned string verbatim as the id.
func Direct(fn func(doc docstore.Doc) string) IDGenerator {
	return IDGenerator{kind: idDirect, direct: fn}
}

// generate returns the id for doc. An _id already present on the document
// always wins.
func (g IDGenerator) generate(model, prefix string, doc docstore.Doc, now time.Time) (string, error) {
	if id := doc.ID(); id != "" {
		return id, nil
	}

	switch g.kind {
	case idSegments:
		if g.segments != nil {
			return JoinSegments(g.segments(doc)...), nil
		}
	case idDirect:
		if g.direct != nil {
			return g.direct(doc), nil
		}
	default:
		// The prefix is used verbatim so ids stay inside the All range.
		return prefix + "_" + strconv.FormatInt(now.UnixMilli(), 10), nil
	}
	return "", &ConfigurationError{Model: model}
}
