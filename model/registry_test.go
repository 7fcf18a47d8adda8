package model_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacentio/tote/docstore"
	"github.com/jacentio/tote/docstore/memory"
	"github.com/jacentio/tote/model"
)

func noopQuery(args ...any) docstore.QueryOptions { return docstore.QueryOptions{} }

func noopAction(context.Context, docstore.DocStore, ...any) (any, error) { return nil, nil }

func TestNewRegistry(t *testing.T) {
	db := memory.New()
	r := model.NewRegistry(db)
	if r == nil {
		t.Fatal("expected non-nil Registry")
	}
	if r.Store() != db {
		t.Error("expected Store to return the host store")
	}
	if len(r.Models()) != 0 {
		t.Errorf("expected no models, got %v", r.Models())
	}
}

func TestRegistry_DefineAll(t *testing.T) {
	r := model.NewRegistry(memory.New())
	r.DefineAll(map[string]model.Definition{
		"venue": {},
		"band":  {IDPrefix: "b"},
		"album": {},
	})

	if diff := cmp.Diff([]string{"album", "band", "venue"}, r.Models()); diff != "" {
		t.Errorf("models mismatch (-want +got):\n%s", diff)
	}

	band, ok := r.Model("band")
	if !ok {
		t.Fatal("expected band to be defined")
	}
	if band.Name() != "band" || band.Prefix() != "b" {
		t.Errorf("expected band with prefix b, got %s/%s", band.Name(), band.Prefix())
	}

	venue, _ := r.Model("venue")
	if venue.Prefix() != "venue" {
		t.Errorf("expected prefix to default to the name, got %q", venue.Prefix())
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := model.NewRegistry(memory.New())
	r.Define("band", model.Definition{})

	if _, err := r.Lookup("band"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := r.Lookup("label"); !errors.Is(err, model.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
	if _, ok := r.Model("label"); ok {
		t.Error("expected label to be undefined")
	}
}

func TestRegistry_RedefineMerges(t *testing.T) {
	ctx := context.Background()
	r := model.NewRegistry(memory.New())

	old := r.Define("band", model.Definition{
		Queries: map[string]model.Query{"a": {Options: noopQuery}, "b": {Options: noopQuery}},
		Actions: map[string]model.Action{"x": noopAction},
	})
	updated := r.Define("band", model.Definition{
		ID:      model.Direct(func(docstore.Doc) string { return "fixed" }),
		Queries: map[string]model.Query{"b": {View: "v"}, "c": {Options: noopQuery}},
		Actions: map[string]model.Action{"y": noopAction},
	})

	if diff := cmp.Diff([]string{"a", "b", "c"}, updated.Queries()); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, updated.Actions()); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}

	current, _ := r.Model("band")
	if current != updated {
		t.Error("expected registry to hold the redefined model")
	}

	// Save behaviour follows the new definition.
	res, err := current.Save(ctx, docstore.Doc{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != "fixed" {
		t.Errorf("expected id fixed, got %q", res.ID)
	}

	// Earlier references keep their definition.
	if diff := cmp.Diff([]string{"a", "b"}, old.Queries()); diff != "" {
		t.Errorf("old queries mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := model.NewRegistry(memory.New())
	r.Define("band", model.Definition{})
	r.Define("bandmember", model.Definition{IDPrefix: "band_member"})
	r.Define("album", model.Definition{})

	tests := []struct {
		id   string
		want string
	}{
		{"band_rock_q-and-not-u", "band"},
		{"band_member_ian", "bandmember"},
		{"album_repeater", "album"},
		{"bandana_1", ""},
		{"venue_930", ""},
		{"band", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, ok := r.Resolve(tt.id)
			if tt.want == "" {
				if ok {
					t.Errorf("expected no owner, got %q", m.Name())
				}
				return
			}
			if !ok {
				t.Fatalf("expected owner %q, got none", tt.want)
			}
			if m.Name() != tt.want {
				t.Errorf("expected owner %q, got %q", tt.want, m.Name())
			}
		})
	}
}

func TestRegistry_SharedStore(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	r := model.NewRegistry(db)
	band := r.Define("band", model.Definition{})
	album := r.Define("album", model.Definition{})

	if _, err := band.Save(ctx, docstore.Doc{"name": "Fugazi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := album.Save(ctx, docstore.Doc{"title": "Repeater"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.Len() != 2 {
		t.Errorf("expected 2 documents in the shared store, got %d", db.Len())
	}

	bands, err := band.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bands) != 1 {
		t.Errorf("expected 1 band, got %d", len(bands))
	}
}
