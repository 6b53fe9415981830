package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = "testdata/student_spending.csv"

func TestLoad_DropsUnnamedIndex(t *testing.T) {
	ds, err := Load(fixture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ds.Students) != 8 {
		t.Fatalf("Students = %d, want 8", len(ds.Students))
	}
	if len(ds.Dropped) != 1 || ds.Dropped[0] != "Unnamed: 0" {
		t.Errorf("Dropped = %v, want [Unnamed: 0]", ds.Dropped)
	}
	for _, c := range ds.Columns {
		if strings.HasPrefix(c, "Unnamed") {
			t.Errorf("column %q should have been dropped", c)
		}
	}
	if ds.Size == 0 || ds.ModTime.IsZero() {
		t.Error("file identity not recorded")
	}
}

func TestLoad_DropsBlankIndexHeader(t *testing.T) {
	raw, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}
	// pandas to_csv writes the index column with an empty header.
	body := strings.TrimPrefix(string(raw), "Unnamed: 0")
	path := filepath.Join(t.TempDir(), "pandas.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Dropped) != 1 || ds.Dropped[0] != "Unnamed: 0" {
		t.Errorf("Dropped = %v, want [Unnamed: 0]", ds.Dropped)
	}
	if len(ds.Columns) != 17 || ds.Columns[0] != "age" {
		t.Errorf("Columns = %v, want 17 columns starting with age", ds.Columns)
	}
	if len(ds.Students) != 8 || ds.Students[0].Food != 296 {
		t.Errorf("rows not converted: %d students", len(ds.Students))
	}
}

func TestNameBlankHeaders(t *testing.T) {
	h := []string{"", "age", " ", "food"}
	nameBlankHeaders(h)
	want := []string{"Unnamed: 0", "age", "Unnamed: 2", "food"}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, h[i], want[i])
		}
	}
}

func TestLoad_ConvertsRows(t *testing.T) {
	ds, err := Load(fixture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := ds.Students[0]
	if first.Gender != "Non-binary" {
		t.Errorf("Gender = %q, want Non-binary", first.Gender)
	}
	if first.YearInSchool != "Freshman" {
		t.Errorf("YearInSchool = %q, want Freshman", first.YearInSchool)
	}
	if first.PreferredPaymentMethod != "Credit/Debit Card" {
		t.Errorf("PreferredPaymentMethod = %q", first.PreferredPaymentMethod)
	}
	if first.Food != 296 || first.Tuition != 5939 || first.MonthlyIncome != 958 {
		t.Errorf("numeric fields = food %v tuition %v income %v", first.Food, first.Tuition, first.MonthlyIncome)
	}

	last := ds.Students[7]
	if last.Major != "Psychology" || last.Miscellaneous != 166 {
		t.Errorf("last row = %+v", last)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.csv")
	data := "gender,major,year_in_school,preferred_payment_method,tuition\n" +
		"Male,Biology,Junior,Cash,100\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("error = %v, want ErrMissingColumn", err)
	}
}

func TestStat_MatchesDatasetIdentity(t *testing.T) {
	ds, err := Load(fixture)
	if err != nil {
		t.Fatal(err)
	}
	fi, err := Stat(fixture)
	if err != nil {
		t.Fatal(err)
	}
	if fi != ds.Identity() {
		t.Errorf("Stat = %+v, Identity = %+v", fi, ds.Identity())
	}
}
