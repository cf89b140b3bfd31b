package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyInRoom   = errors.New("player is already in room")
	ErrNotInRoom       = errors.New("player is not in room")
	ErrInvalidGameType = errors.New("invalid game type")
	ErrMissingContent  = errors.New("room content is missing")

	// Game errors
	ErrNotPlayerTurn = errors.New("not this player's turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid board cell")
	ErrGameComplete  = errors.New("game is already complete")
	ErrGameNotActive = errors.New("game is not active")
	ErrNotHost       = errors.New("player is not the host")

	// Question lookup errors
	ErrQuestionNotFound = errors.New("question not found")

	// Event errors
	ErrMalformedEvent = errors.New("malformed event")

	// Content generation errors (always recovered with fallback content)
	ErrContentGeneration = errors.New("content generation failed")
)
