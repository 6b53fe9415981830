package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Setenv(EnvAddr, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Setenv(EnvAddr, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := DefaultConfig()
	want.General.DataFile = "/data/spending.csv"
	want.Server.PollIntervalSec = 30
	want.Appearance.Theme = "campus"
	want.Selection.Majors = []string{"food", "housing"}

	if err := SaveTo(path, want); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip:\n got %+v\nwant %+v", got, want)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Setenv(EnvAddr, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.PollIntervalSec != 5 {
		t.Errorf("PollIntervalSec = %d, want default 5", cfg.Server.PollIntervalSec)
	}
	if cfg.General.DataFile != "student_spending.csv" {
		t.Errorf("DataFile = %q, want default", cfg.General.DataFile)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general]\ndata_file = \"a.csv\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFile, "b.csv")
	t.Setenv(EnvAddr, ":7000")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.DataFile != "b.csv" {
		t.Errorf("DataFile = %q, want env override", cfg.General.DataFile)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, want env override", cfg.Server.Addr)
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got, want := ConfigPath(), filepath.Join(dir, "spendview", "config.toml"); got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}

func TestDefaultSelectionFallsBackPerList(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Selection.Years = []string{"tuition", "food"}

	sel, err := cfg.DefaultSelection()
	if err != nil {
		t.Fatalf("DefaultSelection: %v", err)
	}
	if !reflect.DeepEqual(sel.Years, []model.Category{model.Tuition, model.Food}) {
		t.Errorf("Years = %v", sel.Years)
	}
	if !reflect.DeepEqual(sel.Majors, []model.Category{model.Technology, model.BooksSupplies}) {
		t.Errorf("Majors = %v, want defaults", sel.Majors)
	}
	if len(sel.Gender) != len(model.SpendingCategories) {
		t.Errorf("Gender = %v, want every spending category", sel.Gender)
	}
}

func TestDefaultSelectionRejectsUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Selection.Majors = []string{"rent"}

	if _, err := cfg.DefaultSelection(); !errors.Is(err, pipeline.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}
