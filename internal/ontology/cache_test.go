package ontology

import (
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "ontology.db"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCache_LoadEmpty(t *testing.T) {
	cache := openTestCache(t)
	terms, err := cache.Load(CategoryClasses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms) != 0 {
		t.Errorf("expected empty map for uncached category, got %d terms", len(terms))
	}
}

func TestCache_StoreAndLoad(t *testing.T) {
	cache := openTestCache(t)
	in := map[string]string{
		"Organisation": "an organisation",
		"Person":       "a human being",
	}
	if err := cache.Store(CategoryClasses, in); err != nil {
		t.Fatalf("store: %v", err)
	}

	out, err := cache.Load(CategoryClasses)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d terms, got %d", len(in), len(out))
	}
	for id, desc := range in {
		if out[id] != desc {
			t.Errorf("term %s: expected %q, got %q", id, desc, out[id])
		}
	}
}

func TestCache_CategoriesIndependent(t *testing.T) {
	cache := openTestCache(t)
	if err := cache.Store(CategoryClasses, map[string]string{"Person": "x"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	props, err := cache.Load(CategoryProperties)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(props) != 0 {
		t.Errorf("properties must be empty, got %v", props)
	}
}

func TestCache_StoreReplaces(t *testing.T) {
	cache := openTestCache(t)
	if err := cache.Store(CategoryClasses, map[string]string{"Old": "old"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := cache.Store(CategoryClasses, map[string]string{"New": "new"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	out, err := cache.Load(CategoryClasses)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := out["Old"]; ok {
		t.Error("stale term survived a replace")
	}
	if out["New"] != "new" {
		t.Errorf("expected replacement terms, got %v", out)
	}
}
