package game

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appErr "decina-service/pkg/errors"
	"decina-service/pkg/logger"

	"go.uber.org/zap"
)

type LogItem struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Content   string `json:"content"`
}

// GameView is the per-subscriber export of a running game.
type GameView struct {
	GameID         string     `json:"gameId"`
	Board          BoardState `json:"board"`
	AllowedActions []string   `json:"allowedActions"`
	Logs           []LogItem  `json:"logs"`
}

type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

// GameRuntime owns one live game. The mutex is the single serialization
// point: HTTP handlers and websocket clients all go through it, so the
// engine state itself needs no locking.
type GameRuntime struct {
	gameID    string
	ownerID   int64
	presetID  *int64
	tableSize int
	state     *State
	startedAt time.Time

	logs []LogItem
	seq  int64

	subscribers map[int64]chan OutgoingMessage
	finished    bool

	mu sync.Mutex

	onFinish func(*GameRuntime)
}

func newGameRuntime(gameID string, ownerID int64, presetID *int64, tableSize int, state *State, onFinish func(*GameRuntime)) *GameRuntime {
	return &GameRuntime{
		gameID:      gameID,
		ownerID:     ownerID,
		presetID:    presetID,
		tableSize:   tableSize,
		state:       state,
		startedAt:   time.Now(),
		logs:        []LogItem{},
		subscribers: make(map[int64]chan OutgoingMessage),
		onFinish:    onFinish,
	}
}

func (rt *GameRuntime) GameID() string { return rt.gameID }

func (rt *GameRuntime) OwnerID() int64 { return rt.ownerID }

func (rt *GameRuntime) Subscribe(userID int64) chan OutgoingMessage {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	ch := make(chan OutgoingMessage, 8)
	rt.subscribers[userID] = ch
	rt.pushStateLocked(userID)
	return ch
}

func (rt *GameRuntime) Unsubscribe(userID int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if ch, ok := rt.subscribers[userID]; ok {
		delete(rt.subscribers, userID)
		close(ch)
	}
}

// View exports the current board for the HTTP snapshot endpoint.
func (rt *GameRuntime) View() GameView {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.exportViewLocked()
}

type pairPayload struct {
	Cards []string `json:"cards"`
}

// HandleAction applies one player action. Only the game owner may act.
func (rt *GameRuntime) HandleAction(userID int64, action string, data json.RawMessage) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if userID != rt.ownerID {
		return appErr.ErrGameAccessDenied
	}

	switch action {
	case "draw":
		return rt.handleDrawLocked()
	case "pair":
		return rt.handlePairLocked(data)
	case "rejoin":
		rt.pushStateLocked(userID)
		return nil
	case "ping":
		rt.pushMessageLocked(userID, OutgoingMessage{Type: "pong", Seq: rt.nextSeqLocked(), Data: map[string]interface{}{"message": "pong"}})
		return nil
	default:
		return fmt.Errorf("unsupported action")
	}
}

// Draw applies a draw through the runtime lock (HTTP path).
func (rt *GameRuntime) Draw(userID int64) (GameView, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if userID != rt.ownerID {
		return GameView{}, appErr.ErrGameAccessDenied
	}
	if err := rt.handleDrawLocked(); err != nil {
		return GameView{}, err
	}
	return rt.exportViewLocked(), nil
}

// Pair applies a pair through the runtime lock (HTTP path).
func (rt *GameRuntime) Pair(userID int64, a, b Card) (GameView, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if userID != rt.ownerID {
		return GameView{}, appErr.ErrGameAccessDenied
	}
	if err := rt.applyPairLocked(a, b); err != nil {
		return GameView{}, err
	}
	return rt.exportViewLocked(), nil
}

func (rt *GameRuntime) handleDrawLocked() error {
	if err := rt.state.Draw(); err != nil {
		return err
	}
	top, _ := rt.state.TopDiscard()
	rt.appendLogLocked(fmt.Sprintf("draw %s", top))
	rt.afterMoveLocked()
	return nil
}

func (rt *GameRuntime) handlePairLocked(data json.RawMessage) error {
	var payload pairPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("%w: %v", appErr.ErrMalformedCardToken, err)
		}
	}
	if len(payload.Cards) != 2 {
		return fmt.Errorf("%w: expected two card tokens", appErr.ErrMalformedCardToken)
	}
	a, b, err := ParsePair(payload.Cards[0], payload.Cards[1])
	if err != nil {
		return err
	}
	return rt.applyPairLocked(a, b)
}

func (rt *GameRuntime) applyPairLocked(a, b Card) error {
	if err := rt.state.Pair(a, b); err != nil {
		return err
	}
	rt.appendLogLocked(fmt.Sprintf("pair %s %s", a, b))
	rt.afterMoveLocked()
	return nil
}

func (rt *GameRuntime) afterMoveLocked() {
	if rt.state.Status() != StatusInProgress {
		rt.finishLocked()
		return
	}
	rt.broadcastStateLocked()
}

func (rt *GameRuntime) finishLocked() {
	if rt.finished {
		return
	}
	rt.finished = true
	rt.appendLogLocked(string(rt.state.Status()))
	rt.broadcastStateLocked()
	if rt.onFinish != nil {
		go rt.onFinish(rt)
	}
}

// FinishSummary captures the terminal result for the history recorder.
type FinishSummary struct {
	GameID       string
	OwnerID      int64
	PresetID     *int64
	Seed         int64
	TableSize    int
	Outcome      string
	Moves        int
	RemovedCount int
	Duration     time.Duration
	Board        BoardState
}

func (rt *GameRuntime) finishSummary() FinishSummary {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	board := rt.state.Snapshot()
	return FinishSummary{
		GameID:       rt.gameID,
		OwnerID:      rt.ownerID,
		PresetID:     rt.presetID,
		Seed:         rt.state.Seed(),
		TableSize:    rt.tableSize,
		Outcome:      string(rt.state.Status()),
		Moves:        rt.state.Moves(),
		RemovedCount: rt.state.RemovedLen(),
		Duration:     time.Since(rt.startedAt),
		Board:        board,
	}
}

func (rt *GameRuntime) pushStateLocked(userID int64) {
	rt.pushMessageLocked(userID, OutgoingMessage{
		Type: "state",
		Seq:  rt.nextSeqLocked(),
		Data: rt.exportViewLocked(),
	})
}

func (rt *GameRuntime) broadcastStateLocked() {
	view := rt.exportViewLocked()
	seq := rt.nextSeqLocked()
	for uid, ch := range rt.subscribers {
		msg := OutgoingMessage{Type: "state", Seq: seq, Data: view}
		select {
		case ch <- msg:
		default:
			logger.Log.Warn("ws subscriber channel full", zap.Int64("userID", uid), zap.String("gameID", rt.gameID))
		}
	}
}

func (rt *GameRuntime) pushMessageLocked(userID int64, msg OutgoingMessage) {
	if ch, ok := rt.subscribers[userID]; ok {
		select {
		case ch <- msg:
		default:
			logger.Log.Warn("ws subscriber channel full", zap.Int64("userID", userID), zap.String("gameID", rt.gameID))
		}
	}
}

func (rt *GameRuntime) nextSeqLocked() int64 {
	rt.seq++
	return rt.seq
}

func (rt *GameRuntime) exportViewLocked() GameView {
	return GameView{
		GameID:         rt.gameID,
		Board:          rt.state.Snapshot(),
		AllowedActions: rt.allowedActionsLocked(),
		Logs:           append([]LogItem(nil), rt.logs...),
	}
}

func (rt *GameRuntime) allowedActionsLocked() []string {
	if rt.state.Status() != StatusInProgress {
		return nil
	}
	actions := []string{"pair"}
	if rt.state.DeckLen() > 0 {
		actions = append(actions, "draw")
	}
	return actions
}

func (rt *GameRuntime) appendLogLocked(content string) {
	rt.logs = append(rt.logs, LogItem{
		ID:        fmt.Sprintf("%d-%d", time.Now().UnixNano(), len(rt.logs)+1),
		Timestamp: time.Now().UnixMilli(),
		Content:   content,
	})
}
