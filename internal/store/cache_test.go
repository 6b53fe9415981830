package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/source"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testDataset(path string) *source.Dataset {
	return &source.Dataset{
		Path:    path,
		ModTime: time.Unix(1_700_000_000, 42),
		Size:    1234,
		Columns: []string{"gender", "major", "food"},
		Students: []model.Student{
			{Gender: "Female", Major: "Biology", YearInSchool: "Junior", PreferredPaymentMethod: "Cash", Food: 250, Tuition: 4000, MonthlyIncome: 900},
			{Gender: "Male", Major: "Economics", YearInSchool: "Senior", PreferredPaymentMethod: "Mobile Payment App", Food: 310.5, Housing: 700},
		},
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	c := openTestCache(t)
	ds := testDataset("/data/a.csv")

	if err := c.SaveDataset(ds); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	tr, ok, err := c.GetTrackedFile(ds.Path)
	if err != nil || !ok {
		t.Fatalf("GetTrackedFile ok=%v err=%v", ok, err)
	}
	if tr.Info != ds.Identity() {
		t.Errorf("Info = %+v, want %+v", tr.Info, ds.Identity())
	}
	if tr.RowCount != 2 {
		t.Errorf("RowCount = %d, want 2", tr.RowCount)
	}
	if len(tr.Columns) != 3 || tr.Columns[2] != "food" {
		t.Errorf("Columns = %v", tr.Columns)
	}

	students, err := c.LoadStudents(ds.Path)
	if err != nil {
		t.Fatalf("LoadStudents: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("students = %d, want 2", len(students))
	}
	if students[0] != ds.Students[0] || students[1] != ds.Students[1] {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", students, ds.Students)
	}
}

func TestSaveDatasetReplacesRows(t *testing.T) {
	c := openTestCache(t)
	ds := testDataset("/data/a.csv")
	if err := c.SaveDataset(ds); err != nil {
		t.Fatal(err)
	}

	ds.Students = ds.Students[:1]
	ds.Size = 99
	if err := c.SaveDataset(ds); err != nil {
		t.Fatal(err)
	}

	students, err := c.LoadStudents(ds.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Errorf("students = %d after replace, want 1", len(students))
	}
	tr, _, _ := c.GetTrackedFile(ds.Path)
	if tr.Info.SizeBytes != 99 {
		t.Errorf("SizeBytes = %d, want 99", tr.Info.SizeBytes)
	}
}

func TestGetTrackedFileMissing(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.GetTrackedFile("/nowhere.csv")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected untracked file")
	}
}

func TestDeleteDataset(t *testing.T) {
	c := openTestCache(t)
	if err := c.SaveDataset(testDataset("/data/a.csv")); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset(testDataset("/data/b.csv")); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteDataset("/data/a.csv"); err != nil {
		t.Fatal(err)
	}

	n, err := c.DatasetCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("DatasetCount = %d, want 1", n)
	}
	students, _ := c.LoadStudents("/data/a.csv")
	if len(students) != 0 {
		t.Errorf("rows left behind for deleted dataset: %d", len(students))
	}
}
