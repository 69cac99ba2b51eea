package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"adaptkit/internal/domain"
	"adaptkit/internal/logging"
	"adaptkit/internal/repository"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

var _ repository.Repository = (*Repository)(nil)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db  *sql.DB
	log *slog.Logger
}

// New creates a new SQLite repository, creating the parent directory of
// a file database when needed
func New(dbPath string) (*Repository, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	// A single writer also keeps file databases free of SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repository{db: db, log: logging.New("repository")}
	if err := repo.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	repo.log.Debug("database opened", "path", dbPath)
	return repo, nil
}

func dsn(path string) string {
	pragmas := []string{"_pragma=foreign_keys(1)"}
	if path != MemoryPath {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)", "_pragma=busy_timeout(5000)")
	}
	return path + "?" + strings.Join(pragmas, "&")
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		model TEXT NOT NULL,
		adapters JSON,
		canceled INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER,
		finished_at INTEGER
	);

	CREATE TABLE IF NOT EXISTS units (
		run_id INTEGER NOT NULL,
		idx INTEGER NOT NULL,
		variant TEXT NOT NULL,
		PRIMARY KEY (run_id, idx),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS elements (
		run_id INTEGER NOT NULL,
		unit_idx INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		adapter TEXT,
		kind TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (run_id, unit_idx, seq),
		FOREIGN KEY (run_id, unit_idx) REFERENCES units(run_id, idx) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_elements_kind ON elements(kind);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveRun stores the report in one transaction and sets report.ID
func (r *Repository) SaveRun(ctx context.Context, report *domain.Report) (int64, error) {
	if report == nil {
		return 0, errors.New("nil report")
	}

	adapters, err := marshalToNull(report.Adapters)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal adapters: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (model, adapters, canceled, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`, report.Model, adapters, boolToInt(report.Canceled),
		timeToNull(report.StartedAt), timeToNull(report.FinishedAt))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	unitStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO units (run_id, idx, variant) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare unit statement: %w", err)
	}
	defer unitStmt.Close()

	elemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO elements (run_id, unit_idx, seq, adapter, kind, text)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare element statement: %w", err)
	}
	defer elemStmt.Close()

	for i, unit := range report.Units {
		if _, err := unitStmt.ExecContext(ctx, id, i, unit.Variant); err != nil {
			return 0, fmt.Errorf("failed to insert unit %s: %w", unit.Variant, err)
		}
		for seq, el := range unit.Elements {
			if _, err := elemStmt.ExecContext(ctx, id, i, seq,
				stringToNull(el.Adapter), string(el.Type), el.Value); err != nil {
				return 0, fmt.Errorf("failed to insert element %d of %s: %w", seq, unit.Variant, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	report.ID = id
	r.log.Info("run saved", "id", id, "model", report.Model,
		"units", len(report.Units), "elements", report.ElementCount())
	return id, nil
}

// GetRun loads a stored report. Returns repository.ErrRunNotFound for unknown IDs.
func (r *Repository) GetRun(ctx context.Context, id int64) (*domain.Report, error) {
	var row runRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, repository.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	report, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	if err := r.loadUnits(ctx, report); err != nil {
		return nil, err
	}
	if err := r.loadElements(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Repository) loadUnits(ctx context.Context, report *domain.Report) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT variant FROM units WHERE run_id = ? ORDER BY idx
	`, report.ID)
	if err != nil {
		return fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var variant string
		if err := rows.Scan(&variant); err != nil {
			return fmt.Errorf("failed to scan unit: %w", err)
		}
		report.Units = append(report.Units, domain.UnitReport{
			Variant:  variant,
			Elements: make([]domain.ElementRecord, 0),
		})
	}
	return rows.Err()
}

func (r *Repository) loadElements(ctx context.Context, report *domain.Report) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT unit_idx, adapter, kind, text FROM elements
		WHERE run_id = ? ORDER BY unit_idx, seq
	`, report.ID)
	if err != nil {
		return fmt.Errorf("failed to query elements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx       int
			adapterID sql.NullString
			kind      string
			text      string
		)
		if err := rows.Scan(&idx, &adapterID, &kind, &text); err != nil {
			return fmt.Errorf("failed to scan element: %w", err)
		}
		if idx < 0 || idx >= len(report.Units) {
			return fmt.Errorf("element references missing unit %d", idx)
		}
		report.Units[idx].Elements = append(report.Units[idx].Elements, domain.ElementRecord{
			Adapter: nullToString(adapterID),
			Type:    domain.ElementKind(kind),
			Value:   text,
		})
	}
	return rows.Err()
}

// ListRuns returns run summaries, newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
		SELECT r.id, r.model, r.adapters, r.canceled, r.started_at, r.finished_at,
			(SELECT COUNT(*) FROM units u WHERE u.run_id = r.id),
			(SELECT COUNT(*) FROM elements e WHERE e.run_id = r.id)
		FROM runs r
		ORDER BY r.id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.RunSummary, 0)
	for rows.Next() {
		var (
			row             runRow
			units, elements int
		)
		if err := rows.Scan(append(row.scanArgs(), &units, &elements)...); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, domain.RunSummary{
			ID:         row.ID,
			Model:      row.Model,
			Units:      units,
			Elements:   elements,
			Canceled:   row.Canceled != 0,
			StartedAt:  nullToTime(row.StartedAt),
			FinishedAt: nullToTime(row.FinishedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// toDomain converts a runs row into an empty report
func (r *runRow) toDomain() (*domain.Report, error) {
	report := &domain.Report{
		ID:         r.ID,
		Model:      r.Model,
		Adapters:   make([]string, 0),
		Units:      make([]domain.UnitReport, 0),
		Canceled:   r.Canceled != 0,
		StartedAt:  nullToTime(r.StartedAt),
		FinishedAt: nullToTime(r.FinishedAt),
	}
	if err := unmarshalJSONField(r.AdaptersJSON, &report.Adapters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal adapters for run %d: %w", r.ID, err)
	}
	return report, nil
}
