package record

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"shmpipe/internal/token"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store manages position persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the recording database and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginSession opens a recording session for the named channel and
// returns its id.
func (s *Store) BeginSession(ctx context.Context, channel string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, channel, started_at) VALUES (?, ?, ?)",
		id, channel, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// FinishSession stamps the session's end time.
func (s *Store) FinishSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET finished_at = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// Append writes one position row. Invalid positions are stored with NULL
// coordinates so the sample sequence stays contiguous.
func (s *Store) Append(ctx context.Context, sessionID string, sample uint64, stamp time.Time, p *token.Position) error {
	var x, y, heading any
	var rx, ry, rw, rh any
	if p.Valid {
		x, y = p.X, p.Y
		if p.HasHeading {
			heading = p.Heading
		}
		if p.HasRegion {
			rx, ry, rw, rh = p.Region.X, p.Region.Y, p.Region.W, p.Region.H
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO positions (
            session_id, sample, stamp, valid,
            x, y, heading, region_x, region_y, region_w, region_h, label
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		int64(sample),
		stamp.UTC().Format(time.RFC3339Nano),
		boolToInt(p.Valid),
		x, y, heading, rx, ry, rw, rh,
		p.Label,
	)
	if err != nil {
		return fmt.Errorf("insert position %d: %w", sample, err)
	}
	return nil
}

// Row is one recorded position as read back from the store.
type Row struct {
	Sample   uint64
	Stamp    time.Time
	Position token.Position
}

// Session reads every row of one session ordered by sample number.
func (s *Store) Session(ctx context.Context, sessionID string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sample, stamp, valid, x, y, heading,
                region_x, region_y, region_w, region_h, label
         FROM positions WHERE session_id = ? ORDER BY sample`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r          Row
			sample     int64
			stamp      string
			valid      int
			x, y, h    sql.NullFloat64
			rx, ry     sql.NullFloat64
			rw, rh     sql.NullFloat64
			labelValue string
		)
		if err := rows.Scan(&sample, &stamp, &valid, &x, &y, &h, &rx, &ry, &rw, &rh, &labelValue); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		r.Sample = uint64(sample)
		if r.Stamp, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
			return nil, fmt.Errorf("parse stamp %q: %w", stamp, err)
		}
		r.Position.Valid = valid != 0
		r.Position.Label = labelValue
		if x.Valid && y.Valid {
			r.Position.X, r.Position.Y = x.Float64, y.Float64
		}
		if h.Valid {
			r.Position.HasHeading = true
			r.Position.Heading = h.Float64
		}
		if rx.Valid && ry.Valid && rw.Valid && rh.Valid {
			r.Position.HasRegion = true
			r.Position.Region = token.Region{X: rx.Float64, Y: ry.Float64, W: rw.Float64, H: rh.Float64}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type migration struct {
	version string
	sql     string
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		versions = append(versions, entry.Name())
	}
	sort.Strings(versions)

	migrations := make([]migration, 0, len(versions))
	for _, name := range versions {
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, migration{
			version: strings.TrimSuffix(name, ".sql"),
			sql:     string(data),
		})
	}
	return migrations, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
