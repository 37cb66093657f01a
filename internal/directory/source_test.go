package directory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func TestStaticSource_ReturnsCopies(t *testing.T) {
	src := NewSampleSource()
	all, err := src.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	all[0].LastName = "Changed"
	all[0].Specialties[0] = "Changed"

	again, _ := src.All(context.Background())
	if again[0].LastName != "Dupont" || again[0].Specialties[0] != "Droit des affaires" {
		t.Fatalf("source was mutated through a returned slice: %+v", again[0])
	}
}

func TestStaticSource_Get(t *testing.T) {
	src := NewSampleSource()
	l, err := src.Get(context.Background(), "4")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if l.FirstName != "Sophie" || l.LastName != "Petit" {
		t.Fatalf("unexpected lawyer %s %s", l.FirstName, l.LastName)
	}
	if _, err := src.Get(context.Background(), "99"); !errors.Is(err, ErrLawyerNotFound) {
		t.Fatalf("expected ErrLawyerNotFound, got %v", err)
	}
}

var lawyerRowColumns = []string{"id", "first_name", "last_name", "city", "specialties", "rating", "review_count", "experience_years", "accepts_legal_aid"}

func TestPostgresSource_All(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM lawyers\s+WHERE listed\s+ORDER BY position, id`).
		WillReturnRows(pgxmock.NewRows(lawyerRowColumns).
			AddRow("1", "Jean", "Dupont", "Paris", []string{"Droit des affaires"}, 4.8, 127, 15, false).
			AddRow("2", "Marie", "Martin", "Lyon", []string(nil), 4.9, 98, 12, true))

	src := NewPostgresSource(mock)
	got, err := src.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lawyers, got %d", len(got))
	}
	if got[0].LastName != "Dupont" || got[0].Specialties[0] != "Droit des affaires" {
		t.Errorf("unexpected first row %+v", got[0])
	}
	if got[1].Specialties == nil || !got[1].AcceptsLegalAid {
		t.Errorf("unexpected second row %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSource_AllQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`FROM lawyers`).WillReturnError(boom)

	if _, err := NewPostgresSource(mock).All(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}

func TestPostgresSource_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM lawyers\s+WHERE id = \$1 AND listed`).
		WithArgs("6").
		WillReturnRows(pgxmock.NewRows(lawyerRowColumns).
			AddRow("6", "Camille", "Leroy", "Paris", []string{"Fiscalité", "Successions"}, 4.9, 150, 20, false))
	mock.ExpectQuery(`FROM lawyers\s+WHERE id = \$1 AND listed`).
		WithArgs("404").
		WillReturnError(pgx.ErrNoRows)

	src := NewPostgresSource(mock)
	l, err := src.Get(context.Background(), "6")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if l.FirstName != "Camille" || l.LastName != "Leroy" || len(l.Specialties) != 2 {
		t.Errorf("unexpected lawyer %+v", l)
	}
	if _, err := src.Get(context.Background(), "404"); !errors.Is(err, ErrLawyerNotFound) {
		t.Fatalf("expected ErrLawyerNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSource_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`SELECT 1`).WillReturnResult(pgxmock.NewResult("SELECT", 1))

	if err := NewPostgresSource(mock).Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSource_PingMissingTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`SELECT 1 FROM lawyers`).WillReturnError(errors.New(`relation "lawyers" does not exist`))

	err = NewPostgresSource(mock).Ping(context.Background())
	if err == nil || !strings.Contains(err.Error(), "directory: ping") {
		t.Fatalf("expected wrapped ping error, got %v", err)
	}
}
