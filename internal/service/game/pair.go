package game

import (
	"fmt"

	appErr "decina-service/pkg/errors"
)

// CheckPair decides whether the two cards may currently be paired. It
// is a pure decision over the present state: no zone is touched.
//
// Eligible locations are the table and the top of the discard pile; as
// a same-pile special case the top two discards may pair with each
// other. Cards in the deck, buried in the discard pile, or already
// removed are never eligible.
func (s *State) CheckPair(a, b Card) error {
	zoneA, ok := s.zones[a]
	if !ok {
		return fmt.Errorf("%w: %s", appErr.ErrCardNotFound, a)
	}
	zoneB, ok := s.zones[b]
	if !ok {
		return fmt.Errorf("%w: %s", appErr.ErrCardNotFound, b)
	}
	if a == b {
		return fmt.Errorf("%w: %s", appErr.ErrIdenticalCards, a)
	}

	if zoneA == ZoneDiscard && zoneB == ZoneDiscard {
		// Only the top two discards may pair within the pile.
		top, _ := s.TopDiscard()
		second, hasSecond := s.secondDiscard()
		if !hasSecond || !((a == top && b == second) || (a == second && b == top)) {
			return fmt.Errorf("%w: %s and %s", appErr.ErrCardNotEligible, a, b)
		}
	} else {
		if !s.eligible(a, zoneA) {
			return fmt.Errorf("%w: %s", appErr.ErrCardNotEligible, a)
		}
		if !s.eligible(b, zoneB) {
			return fmt.Errorf("%w: %s", appErr.ErrCardNotEligible, b)
		}
	}

	if !a.CanPair(b) {
		return fmt.Errorf("%w: %s and %s sum to %d", appErr.ErrRankSumMismatch, a, b, a.Rank.Value()+b.Rank.Value())
	}
	return nil
}

func (s *State) eligible(c Card, zone Zone) bool {
	switch zone {
	case ZoneTable:
		return true
	case ZoneDiscard:
		top, ok := s.TopDiscard()
		return ok && top == c
	default:
		return false
	}
}

// Pair validates the two cards and, on success, moves both to the
// removed zone and re-evaluates the terminal flag. The deck is never
// affected. On any error the state is unchanged.
func (s *State) Pair(a, b Card) error {
	if s.status != StatusInProgress {
		return appErr.ErrGameEnded
	}
	if err := s.CheckPair(a, b); err != nil {
		return err
	}

	s.remove(a)
	s.remove(b)
	s.moves++
	s.evaluate()
	return nil
}

func (s *State) remove(c Card) {
	switch s.zones[c] {
	case ZoneTable:
		delete(s.table, c)
	case ZoneDiscard:
		for i := len(s.discard) - 1; i >= 0; i-- {
			if s.discard[i] == c {
				s.discard = append(s.discard[:i], s.discard[i+1:]...)
				break
			}
		}
	}
	s.zones[c] = ZoneRemoved
	s.removed = append(s.removed, c)
}
