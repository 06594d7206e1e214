package game

import (
	"fmt"
	"strings"

	appErr "decina-service/pkg/errors"
)

var rankTokens = map[string]Rank{
	"A": RankAce,
	"2": 2,
	"3": 3,
	"4": 4,
	"5": 5,
	"6": 6,
	"7": 7,
	"J": RankJack,
	"Q": RankQueen,
	"K": RankKing,
}

// ParseCard parses a card token of the form RS: a rank in
// {A,2,3,4,5,6,7,J,Q,K} followed by a suit in {H,S,C,D}. Matching is
// case-insensitive; the returned Card is canonical.
func ParseCard(token string) (Card, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(token))
	if len(cleaned) != 2 {
		return Card{}, fmt.Errorf("%w: %q", appErr.ErrMalformedCardToken, token)
	}

	rank, ok := rankTokens[cleaned[:1]]
	if !ok {
		return Card{}, fmt.Errorf("%w: unknown rank in %q", appErr.ErrMalformedCardToken, token)
	}
	suit := Suit(cleaned[1])
	if !suit.Valid() {
		return Card{}, fmt.Errorf("%w: unknown suit in %q", appErr.ErrMalformedCardToken, token)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParsePair parses the two card tokens of a pair command.
func ParsePair(first, second string) (Card, Card, error) {
	a, err := ParseCard(first)
	if err != nil {
		return Card{}, Card{}, err
	}
	b, err := ParseCard(second)
	if err != nil {
		return Card{}, Card{}, err
	}
	return a, b, nil
}
