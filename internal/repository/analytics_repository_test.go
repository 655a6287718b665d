package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// ============================================================
// AnalyticsRepository Tests
// ============================================================

func TestAnalyticsRepositorySaveAnalytics(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO analytics`).
		WithArgs(111, "over 2.5 looks live", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewAnalyticsRepository(db)
	if err := repo.SaveAnalytics(context.Background(), 111, "over 2.5 looks live"); err != nil {
		t.Fatalf("SaveAnalytics failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAnalyticsRepositoryLatestAnalytics(t *testing.T) {
	tests := []struct {
		name        string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectError error
	}{
		{
			name: "found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM analytics`).
					WithArgs(111).
					WillReturnRows(sqlmock.NewRows([]string{"id", "fixture_id", "content", "created_at"}).
						AddRow(5, 111, "analysis", time.Now()))
			},
		},
		{
			name: "not found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM analytics`).
					WithArgs(111).
					WillReturnError(sql.ErrNoRows)
			},
			expectError: ErrAnalyticsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			tt.mockSetup(mock)

			repo := NewAnalyticsRepository(db)
			rec, err := repo.LatestAnalytics(context.Background(), 111)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Errorf("expected %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.FixtureID != 111 || rec.Content != "analysis" {
				t.Errorf("unexpected record: %+v", rec)
			}
		})
	}
}

func TestAnalyticsRepositorySavePrediction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO predictions`).
		WithArgs(222, "home win", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewAnalyticsRepository(db)
	if err := repo.SavePrediction(context.Background(), 222, "home win"); err != nil {
		t.Fatalf("SavePrediction failed: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	// 4 таблицы + 3 индекса
	for i := 0; i < 7; i++ {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMigrateError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`CREATE`).WillReturnError(errors.New("permission denied"))

	if err := Migrate(db); err == nil {
		t.Fatal("expected migration error")
	}
}
