package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the subset of pgxpool.Pool used here; pgxmock satisfies it in tests.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const lawyerColumns = `id, first_name, last_name, city, specialties, rating, review_count, experience_years, accepts_legal_aid`

// PostgresSource reads the directory from the lawyers table. It never writes.
type PostgresSource struct {
	db pgxQuerier
}

// NewPostgresSource wraps a pgx pool (or any compatible querier).
func NewPostgresSource(db pgxQuerier) *PostgresSource {
	if db == nil {
		panic("directory: pgx pool required")
	}
	return &PostgresSource{db: db}
}

// All returns listed lawyers in display order.
func (s *PostgresSource) All(ctx context.Context) ([]Lawyer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+lawyerColumns+`
		FROM lawyers
		WHERE listed
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("directory: list lawyers: %w", err)
	}
	defer rows.Close()

	out := []Lawyer{}
	for rows.Next() {
		l, err := scanLawyer(rows)
		if err != nil {
			return nil, fmt.Errorf("directory: scan lawyer: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: list lawyers: %w", err)
	}
	return out, nil
}

// Get returns one listed lawyer.
func (s *PostgresSource) Get(ctx context.Context, id string) (*Lawyer, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+lawyerColumns+`
		FROM lawyers
		WHERE id = $1 AND listed
	`, id)
	l, err := scanLawyer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLawyerNotFound
		}
		return nil, fmt.Errorf("directory: get lawyer: %w", err)
	}
	return &l, nil
}

// Ping checks that the lawyers table is reachable. It backs the postgres health check.
func (s *PostgresSource) Ping(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, "SELECT 1 FROM lawyers LIMIT 1"); err != nil {
		return fmt.Errorf("directory: ping: %w", err)
	}
	return nil
}

func scanLawyer(row pgx.Row) (Lawyer, error) {
	var l Lawyer
	err := row.Scan(
		&l.ID,
		&l.FirstName,
		&l.LastName,
		&l.City,
		&l.Specialties,
		&l.Rating,
		&l.ReviewCount,
		&l.ExperienceYears,
		&l.AcceptsLegalAid,
	)
	if l.Specialties == nil {
		l.Specialties = []string{}
	}
	return l, err
}
