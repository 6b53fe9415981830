package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/spendview/internal/store"
)

func copyFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "spending.csv")
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return dst
}

func openCache(t *testing.T) *store.Cache {
	t.Helper()
	cache, err := store.Open(filepath.Join(t.TempDir(), "spending.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestLoadWithCacheHitAndMiss(t *testing.T) {
	path := copyFixture(t)
	cache := openCache(t)

	first, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.FromCache {
		t.Fatal("first load unexpectedly served from cache")
	}

	second, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second load should be served from cache")
	}
	if len(second.Dataset.Students) != len(first.Dataset.Students) {
		t.Fatalf("cached rows = %d, want %d", len(second.Dataset.Students), len(first.Dataset.Students))
	}
	for i := range first.Dataset.Students {
		if first.Dataset.Students[i] != second.Dataset.Students[i] {
			t.Fatalf("row %d differs after cache round trip", i)
		}
	}
}

func TestLoadWithCacheInvalidatesOnChange(t *testing.T) {
	path := copyFixture(t)
	cache := openCache(t)

	if _, err := LoadWithCache(path, cache); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.WriteString("8,21,Male,Junior,Biology,700,100,4000,600,250,90,120,40,60,110,80,50,Cash\n")
	_ = f.Close()
	if err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	res, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatal(err)
	}
	if res.FromCache {
		t.Fatal("changed file served from stale cache")
	}
	if n := len(res.Dataset.Students); n != 9 {
		t.Fatalf("rows = %d, want 9", n)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadWithCache(filepath.Join(t.TempDir(), "nope.csv"), openCache(t))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	header := "gender,year_in_school,major,monthly_income,tuition,housing,food,transportation,books_supplies,entertainment,personal_care,technology,health_wellness,miscellaneous,preferred_payment_method\n"
	if err := os.WriteFile(path, []byte(header), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for header-only file")
	}
}
