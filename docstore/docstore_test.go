package docstore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacentio/tote/docstore"
)

func TestDoc_IDAndRev(t *testing.T) {
	d := docstore.Doc{"_id": "band_1", "_rev": "1-abc"}
	if d.ID() != "band_1" {
		t.Errorf("expected id 'band_1', got %q", d.ID())
	}
	if d.Rev() != "1-abc" {
		t.Errorf("expected rev '1-abc', got %q", d.Rev())
	}

	empty := docstore.Doc{"_id": 42}
	if empty.ID() != "" {
		t.Errorf("expected empty id for non-string _id, got %q", empty.ID())
	}
}

func TestDoc_Clone(t *testing.T) {
	orig := docstore.Doc{
		"name":  "Melvins",
		"tags":  []any{"sludge"},
		"label": map[string]any{"name": "Ipecac"},
	}
	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone mismatch (-orig +clone):\n%s", diff)
	}

	clone["tags"].([]any)[0] = "changed"
	clone["label"].(map[string]any)["name"] = "changed"
	if orig["tags"].([]any)[0] != "sludge" {
		t.Error("clone shares slice with original")
	}
	if orig["label"].(map[string]any)["name"] != "Ipecac" {
		t.Error("clone shares nested map with original")
	}

	var nilDoc docstore.Doc
	if nilDoc.Clone() != nil {
		t.Error("expected nil clone of nil doc")
	}
}

func TestQueryOptions_Contains(t *testing.T) {
	opts := docstore.QueryOptions{
		StartKey: "band_rock_",
		EndKey:   "band_rock_" + docstore.MaxKey,
	}

	tests := []struct {
		key      string
		expected bool
	}{
		{"band_rock_quandnotu", true},
		{"band_rock_", true},
		{"band_rocker_x", false},
		{"band_pop_y", false},
		{"band_rock", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := opts.Contains(tt.key); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestQueryOptions_BoundsDescending(t *testing.T) {
	opts := docstore.QueryOptions{StartKey: "z", EndKey: "a", Descending: true}
	lo, hi := opts.Bounds()
	if lo != "a" || hi != "z" {
		t.Errorf("expected bounds (a, z), got (%s, %s)", lo, hi)
	}
	if opts.Empty() {
		t.Error("expected non-empty range")
	}
	if !opts.Contains("m") {
		t.Error("expected 'm' within descending range")
	}

	inverted := docstore.QueryOptions{StartKey: "z", EndKey: "a"}
	if !inverted.Empty() {
		t.Error("expected inverted ascending range to be empty")
	}
}

func TestQueryOptions_WantDocs(t *testing.T) {
	if (docstore.QueryOptions{}).WantDocs() {
		t.Error("expected nil IncludeDocs to mean false")
	}
	if !(docstore.QueryOptions{IncludeDocs: docstore.Bool(true)}).WantDocs() {
		t.Error("expected IncludeDocs=true to want docs")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", docstore.ErrNotFound, 404},
		{"conflict", docstore.ErrConflict, 409},
		{"wrapped conflict", fmt.Errorf("put: %w", docstore.ErrConflict), 409},
		{"missing id", docstore.ErrMissingID, 400},
		{"plain", errors.New("boom"), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := docstore.StatusCode(tt.err); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	errs := []error{
		docstore.ErrNotFound,
		docstore.ErrConflict,
		docstore.ErrMissingID,
		docstore.ErrUnknownView,
		docstore.ErrNotObject,
	}
	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
