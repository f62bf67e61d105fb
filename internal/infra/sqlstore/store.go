package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/infra/resilience"
	"github.com/boddenberg/retail-insights/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("sqlstore")

// storeService names the store in breaker and circuit-open errors.
const storeService = "store"

var _ port.InsightsStore = (*Store)(nil)

// Store implements port.InsightsStore on top of a DB. Every query runs
// through a bulkhead, circuit breaker and retry loop.
type Store struct {
	db     *DB
	guard  *resilience.Guard
	logger *zap.Logger
}

// NewStore creates a Store.
func NewStore(db *DB, cfg resilience.Config, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		guard:  resilience.NewGuard(storeService, cfg),
		logger: logger,
	}
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Store.Ping")
	defer span.End()

	err := s.guard.Do(ctx, func() error {
		return s.db.conn.PingContext(ctx)
	})
	return s.wrap("ping", err)
}

// rowScanner is the common subset of *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll runs a guarded query and scans every row with scan. Results of a
// failed attempt are discarded before retrying.
func queryAll[T any](ctx context.Context, s *Store, op, query string, args []any, scan func(rowScanner) (T, error)) ([]T, error) {
	var out []T
	err := s.guard.Do(ctx, func() error {
		rows, err := s.db.conn.QueryContext(ctx, s.db.rebind(query), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		batch := make([]T, 0)
		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return resilience.Permanent(err)
			}
			batch = append(batch, v)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		out = batch
		return nil
	})
	if err != nil {
		return nil, s.wrap(op, err)
	}
	return out, nil
}

// queryOne runs a guarded single-row query. found is false when no row
// matched; that is not an error at this level.
func queryOne[T any](ctx context.Context, s *Store, op, query string, args []any, scan func(rowScanner) (T, error)) (v T, found bool, err error) {
	err = s.guard.Do(ctx, func() error {
		row := s.db.conn.QueryRowContext(ctx, s.db.rebind(query), args...)
		got, err := scan(row)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		v, found = got, true
		return nil
	})
	if err != nil {
		var zero T
		return zero, false, s.wrap(op, err)
	}
	return v, found, nil
}

// wrap converts a driver or breaker failure into a domain error. Caller
// context errors pass through unchanged.
func (s *Store) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if resilience.IsContextError(err) {
		return err
	}
	if resilience.IsOpen(err) {
		s.logger.Warn("store: circuit open", zap.String("op", op))
		return &domain.ErrCircuitOpen{Service: storeService}
	}
	s.logger.Error("store: query failed", zap.String("op", op), zap.Error(err))
	return &domain.ErrStoreUnavailable{Op: op, Err: err}
}

// likeEscape is the LIKE escape character. '!' needs no quoting in any of
// the supported dialects, unlike a backslash under MySQL.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likeMatch is the condition paired with likePattern.
func likeMatch(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}

// likePattern builds a case-insensitive substring pattern for likeMatch.
// Wildcards typed by the user match literally.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
