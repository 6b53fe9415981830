package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    column_names         TEXT NOT NULL,
    row_count            INTEGER NOT NULL,
    loaded_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    file_path                TEXT NOT NULL REFERENCES datasets(file_path) ON DELETE CASCADE,
    row_idx                  INTEGER NOT NULL,
    gender                   TEXT NOT NULL,
    major                    TEXT NOT NULL,
    year_in_school           TEXT NOT NULL,
    preferred_payment_method TEXT NOT NULL,
    food                     REAL,
    tuition                  REAL,
    housing                  REAL,
    transportation           REAL,
    technology               REAL,
    personal_care            REAL,
    entertainment            REAL,
    books_supplies           REAL,
    health_wellness          REAL,
    miscellaneous            REAL,
    monthly_income           REAL,
    PRIMARY KEY (file_path, row_idx)
);

CREATE INDEX IF NOT EXISTS idx_students_major ON students(file_path, major);
`
