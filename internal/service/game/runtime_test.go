package game

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	appErr "decina-service/pkg/errors"
	"decina-service/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	os.Exit(m.Run())
}

const testOwnerID = int64(77)

func newTestRuntime(t *testing.T, table, deck, discard []Card, onFinish func(*GameRuntime)) *GameRuntime {
	t.Helper()
	state := buildState(t, table, deck, discard)
	return newGameRuntime("game-1", testOwnerID, nil, len(table), state, onFinish)
}

func TestRuntimeHandleDraw(t *testing.T) {
	rt := newTestRuntime(t,
		[]Card{{3, Hearts}},
		[]Card{{7, Spades}, {RankKing, Clubs}},
		nil, nil)

	if err := rt.HandleAction(testOwnerID, "draw", nil); err != nil {
		t.Fatalf("draw action failed: %v", err)
	}
	view := rt.View()
	if view.Board.DeckCount != 1 || view.Board.DiscardTop != "7S" {
		t.Fatalf("unexpected board after draw: %+v", view.Board)
	}
	if len(view.Logs) != 1 {
		t.Fatalf("expected one log entry, got %d", len(view.Logs))
	}
}

func TestRuntimeHandlePair(t *testing.T) {
	rt := newTestRuntime(t,
		[]Card{{3, Hearts}, {7, Spades}},
		[]Card{{RankKing, Clubs}},
		nil, nil)

	payload, _ := json.Marshal(map[string]interface{}{"cards": []string{"3h", "7s"}})
	if err := rt.HandleAction(testOwnerID, "pair", payload); err != nil {
		t.Fatalf("pair action failed: %v", err)
	}
	view := rt.View()
	if len(view.Board.Table) != 0 {
		t.Fatalf("table not cleared: %v", view.Board.Table)
	}
	if view.Board.Status != StatusInProgress {
		t.Fatalf("deck still holds a card, status %s", view.Board.Status)
	}
}

func TestRuntimePairPayloadValidation(t *testing.T) {
	rt := newTestRuntime(t, []Card{{5, Hearts}, {5, Spades}}, []Card{{RankKing, Clubs}}, nil, nil)

	cases := []string{
		`{}`,
		`{"cards":["5H"]}`,
		`{"cards":["5H","5S","5C"]}`,
		`{"cards":["5H","XX"]}`,
		`not-json`,
	}
	for _, raw := range cases {
		if err := rt.HandleAction(testOwnerID, "pair", json.RawMessage(raw)); !errors.Is(err, appErr.ErrMalformedCardToken) {
			t.Fatalf("payload %s: expected ErrMalformedCardToken, got %v", raw, err)
		}
	}
}

func TestRuntimeRejectsNonOwner(t *testing.T) {
	rt := newTestRuntime(t, []Card{{5, Hearts}}, []Card{{RankKing, Clubs}}, nil, nil)

	if err := rt.HandleAction(testOwnerID+1, "draw", nil); !errors.Is(err, appErr.ErrGameAccessDenied) {
		t.Fatalf("expected ErrGameAccessDenied, got %v", err)
	}
	if _, err := rt.Draw(testOwnerID + 1); !errors.Is(err, appErr.ErrGameAccessDenied) {
		t.Fatalf("expected ErrGameAccessDenied, got %v", err)
	}
	if _, err := rt.Pair(testOwnerID+1, Card{5, Hearts}, Card{5, Spades}); !errors.Is(err, appErr.ErrGameAccessDenied) {
		t.Fatalf("expected ErrGameAccessDenied, got %v", err)
	}
}

func TestRuntimeFinishSummary(t *testing.T) {
	finished := make(chan FinishSummary, 1)
	rt := newTestRuntime(t, []Card{{5, Hearts}, {5, Spades}}, nil, nil, func(rt *GameRuntime) {
		finished <- rt.finishSummary()
	})

	if _, err := rt.Pair(testOwnerID, Card{5, Hearts}, Card{5, Spades}); err != nil {
		t.Fatalf("pair failed: %v", err)
	}

	select {
	case summary := <-finished:
		if summary.Outcome != string(StatusWon) {
			t.Fatalf("outcome %s, want %s", summary.Outcome, StatusWon)
		}
		if summary.Moves != 1 || summary.RemovedCount != DeckSize {
			t.Fatalf("unexpected summary: %+v", summary)
		}
		if summary.GameID != "game-1" || summary.OwnerID != testOwnerID {
			t.Fatalf("summary identity wrong: %+v", summary)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("finish hook never fired")
	}
}

func TestRuntimeSubscriberGetsStates(t *testing.T) {
	rt := newTestRuntime(t, []Card{{3, Hearts}}, []Card{{7, Spades}}, nil, nil)

	ch := rt.Subscribe(testOwnerID)
	defer rt.Unsubscribe(testOwnerID)

	// Subscription immediately pushes the current state.
	first := <-ch
	if first.Type != "state" {
		t.Fatalf("first message type %s, want state", first.Type)
	}

	if err := rt.HandleAction(testOwnerID, "draw", nil); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	second := <-ch
	if second.Type != "state" || second.Seq <= first.Seq {
		t.Fatalf("expected newer state message, got %+v", second)
	}
}

func TestRuntimeAllowedActions(t *testing.T) {
	rt := newTestRuntime(t, []Card{{3, Hearts}}, []Card{{7, Spades}}, nil, nil)
	view := rt.View()
	if !containsAction(view.AllowedActions, "draw") || !containsAction(view.AllowedActions, "pair") {
		t.Fatalf("live game with deck should allow draw and pair: %v", view.AllowedActions)
	}

	done := newTestRuntime(t, []Card{{RankKing, Hearts}}, nil, nil, nil)
	if actions := done.View().AllowedActions; len(actions) != 0 {
		t.Fatalf("terminal game should allow nothing, got %v", actions)
	}
}

func containsAction(actions []string, want string) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
