package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"livebet/internal/models"
)

// ============================================================
// BetRepository Tests
// ============================================================

func TestBetRepositorySave(t *testing.T) {
	tests := []struct {
		name        string
		record      *models.BetDecisionRecord
		mockSetup   func(mock sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name: "approved decision",
			record: &models.BetDecisionRecord{
				Probability: 0.65,
				Odds:        1.8,
				Approved:    true,
				Stake:       50,
				Messages:    []string{"stake capped: 53.13 -> 50.00", "approved"},
			},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bet_decisions`).
					WithArgs(0.65, 1.8, true, float64(50), "", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			},
			expectError: false,
		},
		{
			name: "blocked decision",
			record: &models.BetDecisionRecord{
				Probability: 0.30,
				Odds:        2.0,
				Approved:    false,
				Stake:       10,
				Reason:      models.ReasonLowConfidence,
				Messages:    []string{"probability below minimum confidence"},
			},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bet_decisions`).
					WithArgs(0.30, 2.0, false, float64(10), models.ReasonLowConfidence, sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
			},
			expectError: false,
		},
		{
			name:   "database error",
			record: &models.BetDecisionRecord{Probability: 0.5, Odds: 2.0},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bet_decisions`).
					WillReturnError(errors.New("database error"))
			},
			expectError: true,
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

			repo := NewBetRepository(db)
			err = repo.Save(context.Background(), tt.record)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.record.ID == 0 {
					t.Error("record id must be set after save")
				}
				if tt.record.CreatedAt.IsZero() {
					t.Error("created_at must be set after save")
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestBetRepositoryListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	columns := []string{"id", "probability", "odds", "approved", "stake", "reason", "messages", "created_at"}
	mock.ExpectQuery(`SELECT .+ FROM bet_decisions`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, 0.65, 1.8, true, 50.0, "", []byte(`["approved"]`), time.Now()).
			AddRow(1, 0.30, 2.0, false, 10.0, models.ReasonLowConfidence, []byte(`["probability below minimum confidence"]`), time.Now()))

	repo := NewBetRepository(db)
	records, err := repo.ListRecent(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Approved || records[0].Stake != 50 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Reason != models.ReasonLowConfidence {
		t.Errorf("unexpected second record reason: %s", records[1].Reason)
	}
	if len(records[1].Messages) != 1 {
		t.Errorf("messages not decoded: %+v", records[1].Messages)
	}
}
