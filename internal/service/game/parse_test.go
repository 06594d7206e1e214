package game

import (
	"errors"
	"testing"

	appErr "decina-service/pkg/errors"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		token string
		want  Card
	}{
		{"5H", Card{5, Hearts}},
		{"5h", Card{5, Hearts}},
		{"aS", Card{RankAce, Spades}},
		{"QC", Card{RankQueen, Clubs}},
		{"kd", Card{RankKing, Diamonds}},
		{" jH ", Card{RankJack, Hearts}},
	}
	for _, tc := range tests {
		got, err := ParseCard(tc.token)
		if err != nil {
			t.Fatalf("ParseCard(%q) failed: %v", tc.token, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCard(%q) = %s, want %s", tc.token, got, tc.want)
		}
	}
}

func TestParseCardMalformed(t *testing.T) {
	// 8, 9 and 10 are not numeral ranks in this deck; the faces carry
	// those values.
	tokens := []string{"", "5", "5X", "8H", "9S", "10H", "H5", "QQ", "5HH", "d", "??"}
	for _, token := range tokens {
		if _, err := ParseCard(token); !errors.Is(err, appErr.ErrMalformedCardToken) {
			t.Fatalf("ParseCard(%q): expected ErrMalformedCardToken, got %v", token, err)
		}
	}
}

func TestParsePair(t *testing.T) {
	a, b, err := ParsePair("3c", "7D")
	if err != nil {
		t.Fatalf("ParsePair failed: %v", err)
	}
	if a != (Card{3, Clubs}) || b != (Card{7, Diamonds}) {
		t.Fatalf("unexpected cards: %s %s", a, b)
	}

	if _, _, err := ParsePair("3c", "bad"); !errors.Is(err, appErr.ErrMalformedCardToken) {
		t.Fatalf("expected ErrMalformedCardToken, got %v", err)
	}
}
