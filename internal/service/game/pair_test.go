package game

import (
	"errors"
	"testing"

	appErr "decina-service/pkg/errors"
)

func TestCheckPairCardNotFound(t *testing.T) {
	s := buildState(t, []Card{{5, Hearts}}, nil, nil)

	ghost := Card{Rank: 5, Suit: 'X'}
	if err := s.CheckPair(ghost, Card{5, Hearts}); !errors.Is(err, appErr.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
	if err := s.CheckPair(Card{5, Hearts}, Card{Rank: 11, Suit: Hearts}); !errors.Is(err, appErr.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestCheckPairEligibility(t *testing.T) {
	s := buildState(t,
		[]Card{{3, Hearts}},
		[]Card{{7, Spades}},
		[]Card{{7, Clubs}, {7, Diamonds}}, // 7D on top
	)

	// Deck cards are never eligible.
	if err := s.CheckPair(Card{3, Hearts}, Card{7, Spades}); !errors.Is(err, appErr.ErrCardNotEligible) {
		t.Fatalf("deck card: expected ErrCardNotEligible, got %v", err)
	}
	// Buried discard cards are never eligible against the table.
	if err := s.CheckPair(Card{3, Hearts}, Card{7, Clubs}); !errors.Is(err, appErr.ErrCardNotEligible) {
		t.Fatalf("buried discard: expected ErrCardNotEligible, got %v", err)
	}
	// Removed cards are never eligible.
	if err := s.CheckPair(Card{3, Hearts}, Card{7, Hearts}); !errors.Is(err, appErr.ErrCardNotEligible) {
		t.Fatalf("removed card: expected ErrCardNotEligible, got %v", err)
	}
	// Table card against the discard top is always allowed.
	if err := s.CheckPair(Card{3, Hearts}, Card{7, Diamonds}); err != nil {
		t.Fatalf("table + discard top should validate: %v", err)
	}
}

func TestCheckPairTopTwoDiscards(t *testing.T) {
	s := buildState(t,
		nil,
		[]Card{{RankKing, Hearts}},
		[]Card{{2, Hearts}, {4, Spades}, {6, Clubs}}, // top 6C, second 4S
	)

	// The top two discards may pair with each other.
	if err := s.CheckPair(Card{6, Clubs}, Card{4, Spades}); err != nil {
		t.Fatalf("top two discards should validate: %v", err)
	}
	if err := s.CheckPair(Card{4, Spades}, Card{6, Clubs}); err != nil {
		t.Fatalf("order must not matter: %v", err)
	}
	// Top with a deeper card is not the same-pile special case.
	s2 := buildState(t,
		nil,
		[]Card{{RankKing, Hearts}},
		[]Card{{4, Spades}, {2, Hearts}, {6, Clubs}}, // top 6C, second 2H
	)
	if err := s2.CheckPair(Card{6, Clubs}, Card{4, Spades}); !errors.Is(err, appErr.ErrCardNotEligible) {
		t.Fatalf("top + buried discard: expected ErrCardNotEligible, got %v", err)
	}
}

func TestCheckPairIdenticalCard(t *testing.T) {
	s := buildState(t, []Card{{5, Hearts}}, nil, nil)
	if err := s.CheckPair(Card{5, Hearts}, Card{5, Hearts}); !errors.Is(err, appErr.ErrIdenticalCards) {
		t.Fatalf("expected ErrIdenticalCards, got %v", err)
	}
	// The discard top is an eligible location; naming it twice is still
	// an identity error, not an eligibility one.
	s2 := buildState(t, nil, nil, []Card{{5, Hearts}})
	if err := s2.CheckPair(Card{5, Hearts}, Card{5, Hearts}); !errors.Is(err, appErr.ErrIdenticalCards) {
		t.Fatalf("discard top twice: expected ErrIdenticalCards, got %v", err)
	}
}

func TestCheckPairRankSumMismatch(t *testing.T) {
	s := buildState(t, []Card{{RankKing, Hearts}, {RankAce, Hearts}, {4, Clubs}}, nil, nil)

	if err := s.CheckPair(Card{RankKing, Hearts}, Card{RankAce, Hearts}); !errors.Is(err, appErr.ErrRankSumMismatch) {
		t.Fatalf("K+A: expected ErrRankSumMismatch, got %v", err)
	}
	if err := s.CheckPair(Card{RankAce, Hearts}, Card{4, Clubs}); !errors.Is(err, appErr.ErrRankSumMismatch) {
		t.Fatalf("A+4: expected ErrRankSumMismatch, got %v", err)
	}
}

func TestCheckPairSameRankDistinctSuits(t *testing.T) {
	s := buildState(t, []Card{{5, Hearts}, {5, Spades}}, nil, nil)
	if err := s.CheckPair(Card{5, Hearts}, Card{5, Spades}); err != nil {
		t.Fatalf("two distinct fives must validate: %v", err)
	}
}

func TestPairRemovesExactlyTwo(t *testing.T) {
	s := buildState(t,
		[]Card{{3, Hearts}, {2, Spades}},
		[]Card{{RankKing, Hearts}},
		[]Card{{7, Clubs}},
	)
	deckBefore := s.DeckLen()
	removedBefore := s.RemovedLen()

	if err := s.Pair(Card{3, Hearts}, Card{7, Clubs}); err != nil {
		t.Fatalf("pair failed: %v", err)
	}
	if s.DeckLen() != deckBefore {
		t.Fatalf("pairing touched the deck")
	}
	if s.RemovedLen() != removedBefore+2 {
		t.Fatalf("removed %d cards, want 2", s.RemovedLen()-removedBefore)
	}
	if zone, _ := s.Zone(Card{3, Hearts}); zone != ZoneRemoved {
		t.Fatalf("3H in zone %s after pair", zone)
	}
	if zone, _ := s.Zone(Card{7, Clubs}); zone != ZoneRemoved {
		t.Fatalf("7C in zone %s after pair", zone)
	}
	if s.TableLen() != 1 || s.DiscardLen() != 0 {
		t.Fatalf("unexpected zone sizes: table=%d discard=%d", s.TableLen(), s.DiscardLen())
	}
	checkPartition(t, s)
}

func TestPairFailureLeavesStateUntouched(t *testing.T) {
	s := buildState(t,
		[]Card{{3, Hearts}, {4, Spades}},
		[]Card{{RankKing, Hearts}},
		nil,
	)
	moves := s.Moves()

	if err := s.Pair(Card{3, Hearts}, Card{4, Spades}); !errors.Is(err, appErr.ErrRankSumMismatch) {
		t.Fatalf("expected ErrRankSumMismatch, got %v", err)
	}
	if s.Moves() != moves || s.TableLen() != 2 || s.RemovedLen() != DeckSize-3 {
		t.Fatalf("failed pair mutated state")
	}
	checkPartition(t, s)
}

func TestPairRejectedAfterTerminal(t *testing.T) {
	s := buildState(t, []Card{{5, Hearts}, {5, Spades}}, nil, nil)
	if err := s.Pair(Card{5, Hearts}, Card{5, Spades}); err != nil {
		t.Fatalf("pair failed: %v", err)
	}
	if s.Status() != StatusWon {
		t.Fatalf("status %s, want %s", s.Status(), StatusWon)
	}
	if err := s.Pair(Card{5, Hearts}, Card{5, Spades}); !errors.Is(err, appErr.ErrGameEnded) {
		t.Fatalf("expected ErrGameEnded, got %v", err)
	}
}
