// Package integration contains integration tests for the livebet server.
//
// Database Integration Tests
// These tests verify migrations and repository behavior against a real
// PostgreSQL instance.
package integration

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"livebet/internal/models"
	"livebet/internal/repository"
)

func TestMigrations_Idempotent_Integration(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	if db == nil {
		t.Skip("Skipping: database not available")
	}
	defer cleanup()

	// Повторный прогон миграций не должен падать
	for i := 0; i < 2; i++ {
		if err := repository.Migrate(db); err != nil {
			t.Fatalf("migration run %d failed: %v", i+1, err)
		}
	}

	// Все таблицы на месте
	for _, table := range []string{"matches", "analytics", "predictions", "bet_decisions"} {
		var exists bool
		err := db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
			table,
		).Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist after migration", table)
		}
	}
}

func TestMatchRepository_UpsertCycle_Integration(t *testing.T) {
	ts := SetupTestServer(t)
	if ts == nil {
		t.Skip("Skipping: test server not available")
	}
	defer ts.Cleanup()

	ctx := context.Background()
	raw := json.RawMessage(`{"fixture":{"id":100}}`)

	snap := models.MatchSnapshot{
		FixtureID: 100,
		League:    "Serie A",
		HomeTeam:  "Inter",
		AwayTeam:  "Milan",
		HomeGoals: 0,
		AwayGoals: 0,
		Status:    "1H",
		Elapsed:   10,
		Raw:       raw,
	}

	if err := ts.Repos.Match.Upsert(ctx, snap); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Обновление того же фикстура перезаписывает снимок
	snap.HomeGoals = 2
	snap.Status = "2H"
	snap.Elapsed = 60
	if err := ts.Repos.Match.Upsert(ctx, snap); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	stored, err := ts.Repos.Match.GetByID(ctx, 100)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.HomeGoals != 2 || stored.Status != "2H" {
		t.Errorf("upsert did not replace snapshot: %+v", stored)
	}

	// В таблице ровно одна строка на фикстуру
	var count int
	if err := ts.DB.QueryRow(`SELECT COUNT(*) FROM matches WHERE fixture_id = 100`).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row per fixture, got %d", count)
	}
}

func TestMatchRepository_NotFound_Integration(t *testing.T) {
	ts := SetupTestServer(t)
	if ts == nil {
		t.Skip("Skipping: test server not available")
	}
	defer ts.Cleanup()

	_, err := ts.Repos.Match.GetByID(context.Background(), 424242)
	if !errors.Is(err, repository.ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestBetRepository_JournalRoundTrip_Integration(t *testing.T) {
	ts := SetupTestServer(t)
	if ts == nil {
		t.Skip("Skipping: test server not available")
	}
	defer ts.Cleanup()

	ctx := context.Background()

	rec := &models.BetDecisionRecord{
		Probability: 0.65,
		Odds:        1.8,
		Approved:    false,
		Stake:       50,
		Reason:      models.ReasonLowConfidence,
		Messages:    []string{"stake capped: 53.13 -> 50.00", "confidence below floor"},
	}
	if err := ts.Repos.Bet.Save(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if rec.ID == 0 {
		t.Error("Save must populate the record id")
	}

	records, err := ts.Repos.Bet.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.Probability != 0.65 || got.Odds != 1.8 || got.Stake != 50 {
		t.Errorf("numeric fields lost in round trip: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0] != "stake capped: 53.13 -> 50.00" {
		t.Errorf("messages lost in round trip: %+v", got.Messages)
	}
}

func TestAnalyticsRepository_PredictionsSeparate_Integration(t *testing.T) {
	// Аналитика и прогнозы живут в разных таблицах и не смешиваются
	ts := SetupTestServer(t)
	if ts == nil {
		t.Skip("Skipping: test server not available")
	}
	defer ts.Cleanup()

	ctx := context.Background()

	if err := ts.Repos.Analytics.SaveAnalytics(ctx, 300, "in-play analysis"); err != nil {
		t.Fatalf("SaveAnalytics failed: %v", err)
	}
	if err := ts.Repos.Analytics.SavePrediction(ctx, 300, "pre-match prediction"); err != nil {
		t.Fatalf("SavePrediction failed: %v", err)
	}

	analytics, err := ts.Repos.Analytics.LatestAnalytics(ctx, 300)
	if err != nil {
		t.Fatalf("LatestAnalytics failed: %v", err)
	}
	if analytics.Content != "in-play analysis" {
		t.Errorf("unexpected analytics: %q", analytics.Content)
	}

	prediction, err := ts.Repos.Analytics.LatestPrediction(ctx, 300)
	if err != nil {
		t.Fatalf("LatestPrediction failed: %v", err)
	}
	if prediction.Content != "pre-match prediction" {
		t.Errorf("unexpected prediction: %q", prediction.Content)
	}
}
