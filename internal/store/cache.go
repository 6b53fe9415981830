// Package store provides a SQLite-backed cache of parsed spending rows.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Tracked is the cached identity of a CSV file.
type Tracked struct {
	Info     source.FileInfo
	Columns  []string
	RowCount int
	LoadedAt time.Time
}

// GetTrackedFile returns the cached identity of path, if any.
func (c *Cache) GetTrackedFile(path string) (Tracked, bool, error) {
	var (
		tr       Tracked
		cols     string
		loadedAt string
	)
	err := c.db.QueryRow(`SELECT mtime_ns, size_bytes, column_names, row_count, loaded_at
		FROM datasets WHERE file_path = ?`, path).
		Scan(&tr.Info.MtimeNs, &tr.Info.SizeBytes, &cols, &tr.RowCount, &loadedAt)
	if err == sql.ErrNoRows {
		return Tracked{}, false, nil
	}
	if err != nil {
		return Tracked{}, false, err
	}
	if cols != "" {
		tr.Columns = strings.Split(cols, ",")
	}
	tr.LoadedAt, _ = time.Parse(time.RFC3339, loadedAt)
	return tr, true, nil
}

// SaveDataset replaces the cached rows for the dataset's path.
func (c *Cache) SaveDataset(ds *source.Dataset) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Explicit delete so stale rows go even if foreign keys are off.
	if _, err := tx.Exec("DELETE FROM students WHERE file_path = ?", ds.Path); err != nil {
		return err
	}

	id := ds.Identity()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO datasets
		(file_path, mtime_ns, size_bytes, column_names, row_count, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ds.Path, id.MtimeNs, id.SizeBytes, strings.Join(ds.Columns, ","), len(ds.Students), now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO students
		(file_path, row_idx, gender, major, year_in_school, preferred_payment_method,
		 food, tuition, housing, transportation, technology, personal_care,
		 entertainment, books_supplies, health_wellness, miscellaneous, monthly_income)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, s := range ds.Students {
		_, err := stmt.Exec(
			ds.Path, i, s.Gender, s.Major, s.YearInSchool, s.PreferredPaymentMethod,
			s.Food, s.Tuition, s.Housing, s.Transportation, s.Technology, s.PersonalCare,
			s.Entertainment, s.BooksSupplies, s.HealthWellness, s.Miscellaneous, s.MonthlyIncome,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadStudents reads the cached rows for path in file order.
func (c *Cache) LoadStudents(path string) ([]model.Student, error) {
	rows, err := c.db.Query(`SELECT
		gender, major, year_in_school, preferred_payment_method,
		food, tuition, housing, transportation, technology, personal_care,
		entertainment, books_supplies, health_wellness, miscellaneous, monthly_income
		FROM students WHERE file_path = ? ORDER BY row_idx`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		err := rows.Scan(
			&s.Gender, &s.Major, &s.YearInSchool, &s.PreferredPaymentMethod,
			&s.Food, &s.Tuition, &s.Housing, &s.Transportation, &s.Technology, &s.PersonalCare,
			&s.Entertainment, &s.BooksSupplies, &s.HealthWellness, &s.Miscellaneous, &s.MonthlyIncome,
		)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// DeleteDataset removes a cached dataset and its rows.
func (c *Cache) DeleteDataset(path string) error {
	if _, err := c.db.Exec("DELETE FROM students WHERE file_path = ?", path); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM datasets WHERE file_path = ?", path)
	return err
}

// DatasetCount returns the number of cached datasets.
func (c *Cache) DatasetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count)
	return count, err
}
