package game

import (
	"fmt"
	mrand "math/rand"
	"sort"
	"time"

	appErr "decina-service/pkg/errors"
)

// Zone is the single location a card occupies. The four zones
// partition the 40-card set at all times.
type Zone string

const (
	ZoneTable   Zone = "table"
	ZoneDeck    Zone = "deck"
	ZoneDiscard Zone = "discard"
	ZoneRemoved Zone = "removed"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusStuck      Status = "stuck"
)

// DefaultTableSize is the number of cards dealt face-up at game start.
// It matches the original deal: a six-row layout of 21 cards plus an
// open row of 6.
const DefaultTableSize = 27

type DealConfig struct {
	// TableSize is the number of cards dealt to the table; the
	// remaining cards form the deck. Must be within [0, 40].
	TableSize int
	// Seed drives the shuffle. A seed <= 0 is replaced with a
	// time-derived one; any positive seed reproduces the same deal.
	Seed int64
}

// State is one game's full board: the four card zones plus the
// terminal flag. It is not safe for concurrent use; GameRuntime
// serializes access for the service layer.
type State struct {
	table   map[Card]struct{}
	deck    []Card // front of the deck is index 0
	discard []Card // top of the pile is the last element
	removed []Card
	zones   map[Card]Zone

	status Status
	moves  int
	seed   int64
}

// NewState builds the 40-card set, shuffles it with the configured
// seed, deals cfg.TableSize cards to the table and leaves the rest as
// the deck, in shuffled order.
func NewState(cfg DealConfig) (*State, error) {
	if cfg.TableSize < 0 || cfg.TableSize > DeckSize {
		return nil, fmt.Errorf("%w: table size %d", appErr.ErrInvalidDealConfig, cfg.TableSize)
	}

	seed := cfg.Seed
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}

	cards := BuildDeck()
	rng := mrand.New(mrand.NewSource(seed))
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	s := &State{
		table:   make(map[Card]struct{}, cfg.TableSize),
		deck:    make([]Card, 0, DeckSize-cfg.TableSize),
		discard: make([]Card, 0, DeckSize),
		removed: make([]Card, 0, DeckSize),
		zones:   make(map[Card]Zone, DeckSize),
		status:  StatusInProgress,
		seed:    seed,
	}
	for i, card := range cards {
		if i < cfg.TableSize {
			s.table[card] = struct{}{}
			s.zones[card] = ZoneTable
		} else {
			s.deck = append(s.deck, card)
			s.zones[card] = ZoneDeck
		}
	}
	s.evaluate()
	return s, nil
}

// Seed returns the shuffle seed actually used, so a deal can be replayed.
func (s *State) Seed() int64 { return s.seed }

func (s *State) Status() Status { return s.status }

// Moves is the count of applied actions (draws and pairs).
func (s *State) Moves() int { return s.moves }

// Zone reports the current zone of a card. ok is false if the card is
// not part of the 40-card set.
func (s *State) Zone(c Card) (Zone, bool) {
	zone, ok := s.zones[c]
	return zone, ok
}

func (s *State) DeckLen() int    { return len(s.deck) }
func (s *State) DiscardLen() int { return len(s.discard) }
func (s *State) TableLen() int   { return len(s.table) }
func (s *State) RemovedLen() int { return len(s.removed) }

// TopDiscard returns the top card of the discard pile.
func (s *State) TopDiscard() (Card, bool) {
	if len(s.discard) == 0 {
		return Card{}, false
	}
	return s.discard[len(s.discard)-1], true
}

func (s *State) secondDiscard() (Card, bool) {
	if len(s.discard) < 2 {
		return Card{}, false
	}
	return s.discard[len(s.discard)-2], true
}

// Table returns the table cards in display order (suit H,S,C,D, rank
// ascending). The table itself is unordered.
func (s *State) Table() []Card {
	cards := make([]Card, 0, len(s.table))
	for card := range s.table {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return suitOrder(cards[i].Suit) < suitOrder(cards[j].Suit)
		}
		return cards[i].Rank < cards[j].Rank
	})
	return cards
}

// Removed returns the removed cards in removal order.
func (s *State) Removed() []Card {
	return append([]Card(nil), s.removed...)
}

func suitOrder(s Suit) int {
	for i, suit := range allSuits {
		if suit == s {
			return i
		}
	}
	return len(allSuits)
}

// Draw moves the front card of the deck to the top of the discard
// pile. An empty deck is reported, not fatal; the state is untouched
// on any error.
func (s *State) Draw() error {
	if s.status != StatusInProgress {
		return appErr.ErrGameEnded
	}
	if len(s.deck) == 0 {
		return appErr.ErrDeckExhausted
	}

	card := s.deck[0]
	s.deck = s.deck[1:]
	s.discard = append(s.discard, card)
	s.zones[card] = ZoneDiscard
	s.moves++
	s.evaluate()
	return nil
}

// evaluate recomputes the terminal flag. Won when every zone but
// removed is empty; stuck when no draw is possible and no eligible
// pair sums to ten.
func (s *State) evaluate() {
	if len(s.table) == 0 && len(s.deck) == 0 && len(s.discard) == 0 {
		s.status = StatusWon
		return
	}
	if len(s.deck) == 0 && !s.anyPairAvailable() {
		s.status = StatusStuck
		return
	}
	s.status = StatusInProgress
}

// anyPairAvailable scans every currently eligible combination: table
// cards among themselves, each table card against the top of the
// discard pile, and the top two discards against each other.
func (s *State) anyPairAvailable() bool {
	candidates := make([]Card, 0, len(s.table)+1)
	for card := range s.table {
		candidates = append(candidates, card)
	}
	if top, ok := s.TopDiscard(); ok {
		candidates = append(candidates, top)
	}
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].CanPair(candidates[j]) {
				return true
			}
		}
	}
	if top, ok := s.TopDiscard(); ok {
		if second, ok := s.secondDiscard(); ok && top.CanPair(second) {
			return true
		}
	}
	return false
}

// BoardState is the JSON view of a board pushed to clients. Cards are
// rendered as RS tokens.
type BoardState struct {
	Status        Status   `json:"status"`
	Table         []string `json:"table"`
	DeckCount     int      `json:"deckCount"`
	DiscardCount  int      `json:"discardCount"`
	DiscardTop    string   `json:"discardTop,omitempty"`
	DiscardSecond string   `json:"discardSecond,omitempty"`
	Removed       []string `json:"removed"`
	Moves         int      `json:"moves"`
	Seed          int64    `json:"seed"`
}

func (s *State) Snapshot() BoardState {
	board := BoardState{
		Status:       s.status,
		Table:        cardTokens(s.Table()),
		DeckCount:    len(s.deck),
		DiscardCount: len(s.discard),
		Removed:      cardTokens(s.removed),
		Moves:        s.moves,
		Seed:         s.seed,
	}
	if top, ok := s.TopDiscard(); ok {
		board.DiscardTop = top.String()
	}
	if second, ok := s.secondDiscard(); ok {
		board.DiscardSecond = second.String()
	}
	return board
}

func cardTokens(cards []Card) []string {
	tokens := make([]string, len(cards))
	for i, card := range cards {
		tokens[i] = card.String()
	}
	return tokens
}
