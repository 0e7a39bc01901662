package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid arguments")
)

//go:embed migrations/sqlite.sql
var sqliteSchema string

//go:embed migrations/postgres.sql
var postgresSchema string

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store persists goals and tasks for the reference backend.
type Store struct {
	db      *sqlx.DB
	dialect string
	log     *slog.Logger

	// now is the clock used to decide which tasks belong to "today".
	now func() time.Time
}

// IsPostgresDSN reports whether dsn should be opened with the pgx driver.
func IsPostgresDSN(dsn string) bool {
	dsn = strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to dsn (a SQLite file path or a postgres:// URL) and applies the schema.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty database dsn", ErrInvalid)
	}

	driver, dialect := "sqlite", dialectSQLite
	if IsPostgresDSN(dsn) {
		driver, dialect = "pgx", dialectPostgres
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		log.Error("connection problem", "driver", driver, "error", err)
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	s := &Store{db: db, dialect: dialect, log: log, now: time.Now}
	if dialect == dialectSQLite {
		// A single connection keeps SQLite writes serialized inside the process.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode=WAL;",
			"PRAGMA synchronous=NORMAL;",
			"PRAGMA busy_timeout=5000;",
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	s.log.Debug("running migrations", "dialect", s.dialect)
	schema := sqliteSchema
	if s.dialect == dialectPostgres {
		schema = postgresSchema
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	s.log.Debug("migrations finished", "dialect", s.dialect)
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Dialect() string { return s.dialect }

// SetClock overrides the clock used for today's task list.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}
