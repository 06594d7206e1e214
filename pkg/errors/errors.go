package errors

import "errors"

// Engine errors. Recoverable unless noted; callers surface them to the
// player and the game continues.
var (
	ErrInvalidRank        = errors.New("invalid rank")
	ErrInvalidDealConfig  = errors.New("invalid deal configuration") // fatal to initialization
	ErrDeckExhausted      = errors.New("deck exhausted")
	ErrCardNotFound       = errors.New("card not found")
	ErrCardNotEligible    = errors.New("card not eligible")
	ErrIdenticalCards     = errors.New("cannot pair a card with itself")
	ErrRankSumMismatch    = errors.New("rank sum mismatch")
	ErrMalformedCardToken = errors.New("malformed card token")
	ErrGameEnded          = errors.New("game already ended")
)

// Service errors.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameAccessDenied = errors.New("game access denied")
	ErrPresetNotFound   = errors.New("preset not found")
	ErrPresetDisabled   = errors.New("preset disabled")
)
