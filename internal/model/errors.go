package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrCodeCollision = errors.New("could not generate a unique room code")
	ErrRoomCreate    = errors.New("room creation failed")

	// Game errors
	ErrGameNotActive     = errors.New("game is not active")
	ErrNotPlayerTurn     = errors.New("not this player's turn")
	ErrWrongPhase        = errors.New("action not valid in current phase")
	ErrWordNotFound      = errors.New("word not found in puzzle")
	ErrWordCompleted     = errors.New("word is already completed")
	ErrWordNotFilled     = errors.New("word is not fully filled")
	ErrNoQuestion        = errors.New("no question is active")
	ErrInsufficientScore = errors.New("insufficient score for hint")
	ErrPrefilledCell     = errors.New("cell is prefilled")

	// Protocol errors
	ErrMalformedMove = errors.New("malformed move")
	ErrNotHost       = errors.New("operation requires the host role")
	ErrNotGuest      = errors.New("operation requires the guest role")
	ErrNotConnected  = errors.New("transport is not connected")

	// Content errors
	ErrPuzzleNotFound   = errors.New("puzzle not found")
	ErrCatalogNotLoaded = errors.New("content catalog not loaded")

	// Persistence errors
	ErrSnapshotNotFound = errors.New("session snapshot not found")
)
