package game

import (
	"fmt"

	appErr "decina-service/pkg/errors"
)

// Rank is both the identity and the pairing value of a card.
// The deck has ten ranks per suit: A(1), 2..7 at face value, then the
// faces J(8), Q(9), K(10). There are no 8/9/10 numeral cards; the face
// cards carry those values.
type Rank int

const (
	RankAce   Rank = 1
	RankJack  Rank = 8
	RankQueen Rank = 9
	RankKing  Rank = 10
)

// PairTarget is the sum two ranks must reach to form a valid pair.
const PairTarget = 10

var rankLabels = map[Rank]string{
	RankAce:   "A",
	2:         "2",
	3:         "3",
	4:         "4",
	5:         "5",
	6:         "6",
	7:         "7",
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
}

// Value returns the numeric value used by the sum-to-ten rule.
func (r Rank) Value() int {
	return int(r)
}

// ValueOf is the checked form of Rank.Value for rank inputs that did
// not come from the deck itself.
func ValueOf(r Rank) (int, error) {
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %d", appErr.ErrInvalidRank, int(r))
	}
	return r.Value(), nil
}

func (r Rank) Valid() bool {
	return r >= RankAce && r <= RankKing
}

func (r Rank) String() string {
	if label, ok := rankLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// Suit is one of the four Italian-deck suits, identified by its
// single-letter code.
type Suit byte

const (
	Hearts   Suit = 'H'
	Spades   Suit = 'S'
	Clubs    Suit = 'C'
	Diamonds Suit = 'D'
)

var allSuits = []Suit{Hearts, Spades, Clubs, Diamonds}

var suitNames = map[Suit]string{
	Hearts:   "Hearts",
	Spades:   "Spades",
	Clubs:    "Clubs",
	Diamonds: "Diamonds",
}

func (s Suit) Valid() bool {
	_, ok := suitNames[s]
	return ok
}

func (s Suit) String() string {
	return string(s)
}

// Card is an immutable (rank, suit) pair. Exactly one card exists per
// combination, so Card is comparable and usable as a map key.
type Card struct {
	Rank Rank
	Suit Suit
}

// String returns the card token, e.g. "5H" or "QS".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

var rankNames = map[Rank]string{
	RankAce:   "Ace",
	RankJack:  "Jack",
	RankQueen: "Queen",
	RankKing:  "King",
}

// Name returns a human readable name, e.g. "Queen of Spades".
func (c Card) Name() string {
	rankName, ok := rankNames[c.Rank]
	if !ok {
		rankName = c.Rank.String()
	}
	return fmt.Sprintf("%s of %s", rankName, suitNames[c.Suit])
}

// CanPair reports whether the two ranks satisfy the sum-to-ten rule.
// Eligibility and identity checks belong to State.CheckPair.
func (c Card) CanPair(other Card) bool {
	return c.Rank.Value()+other.Rank.Value() == PairTarget
}

// DeckSize is the number of cards in a full deck: ten ranks by four suits.
const DeckSize = 40

// BuildDeck returns the full 40-card set in deterministic base order,
// suits in H,S,C,D order, ranks ascending within each suit. Callers
// shuffle.
func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range allSuits {
		for rank := RankAce; rank <= RankKing; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}
