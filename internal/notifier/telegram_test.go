package notifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"livebet/internal/config"
	"livebet/internal/models"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.UpstreamConfig{
		TelegramToken:  "test-token",
		TelegramChatID: "-100123",
	}
	n := NewTelegramNotifier(cfg, zap.NewNop())
	n.apiURL = srv.URL
	return n
}

func testEvent() models.ChangeEvent {
	return models.ChangeEvent{
		FixtureID: 111,
		Kind:      models.ChangeKindScore,
		Current: models.MatchSnapshot{
			FixtureID: 111,
			HomeTeam:  "Arsenal",
			AwayTeam:  "Chelsea",
			HomeGoals: 2,
			AwayGoals: 1,
			Status:    "2H",
			Elapsed:   67,
			League:    "Premier League",
		},
	}
}

func TestNotifyGoal(t *testing.T) {
	var gotPath, gotBody string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"ok": true}`))
	})

	if err := n.NotifyGoal(context.Background(), testEvent()); err != nil {
		t.Fatalf("NotifyGoal failed: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if !strings.Contains(gotBody, "GOOOOAL") {
		t.Errorf("message must contain the goal banner: %s", gotBody)
	}
	if !strings.Contains(gotBody, `"parse_mode":"Markdown"`) {
		t.Errorf("message must use Markdown parse mode: %s", gotBody)
	}
	if !strings.Contains(gotBody, "*Arsenal* 2 - 1 *Chelsea*") {
		t.Errorf("message must contain the score line: %s", gotBody)
	}
	if !strings.Contains(gotBody, `"chat_id":"-100123"`) {
		t.Errorf("message must target the configured chat: %s", gotBody)
	}
}

func TestNotifyGoalAPIError(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok": false, "description": "Bad Request: chat not found"}`))
	})

	err := n.NotifyGoal(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error on ok=false")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error must carry the API description: %v", err)
	}
}

func TestNotifyGoalNotConfigured(t *testing.T) {
	n := NewTelegramNotifier(config.UpstreamConfig{}, zap.NewNop())

	err := n.NotifyGoal(context.Background(), testEvent())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNotifyAnalytics(t *testing.T) {
	var gotBody string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"ok": true}`))
	})

	match := testEvent().Current
	if err := n.NotifyAnalytics(context.Background(), match, "pressure is mounting"); err != nil {
		t.Fatalf("NotifyAnalytics failed: %v", err)
	}

	if !strings.Contains(gotBody, "BETTING ANALYTICS") {
		t.Errorf("message must contain the analytics banner: %s", gotBody)
	}
	if !strings.Contains(gotBody, "pressure is mounting") {
		t.Errorf("message must contain the analytics text: %s", gotBody)
	}
}

func TestNotifyStopLoss(t *testing.T) {
	var gotBody string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"ok": true}`))
	})

	state := models.Bankroll{Total: 1000, Current: 880, DailyLoss: 120}
	if err := n.NotifyStopLoss(context.Background(), state); err != nil {
		t.Fatalf("NotifyStopLoss failed: %v", err)
	}

	if !strings.Contains(gotBody, "DAILY STOP-LOSS REACHED") {
		t.Errorf("message must contain the stop-loss banner: %s", gotBody)
	}
	if !strings.Contains(gotBody, "120.00") {
		t.Errorf("message must contain the daily loss: %s", gotBody)
	}
}

func TestNotifyPrediction(t *testing.T) {
	var gotBody string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"ok": true}`))
	})

	match := models.MatchSnapshot{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}
	if err := n.NotifyPrediction(context.Background(), match, "Arsenal win 2-0"); err != nil {
		t.Fatalf("NotifyPrediction failed: %v", err)
	}

	if !strings.Contains(gotBody, "AI PREDICTION") || !strings.Contains(gotBody, "Arsenal win 2-0") {
		t.Errorf("message must contain banner and prediction text: %s", gotBody)
	}
}
