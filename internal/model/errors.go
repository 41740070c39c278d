package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionFull       = errors.New("session is full")
	ErrAlreadyInSession  = errors.New("user is already seated in session")
	ErrNotParticipant    = errors.New("user is not a participant of session")
	ErrSessionNotStarted = errors.New("session has not started")
	ErrCorruptSession    = errors.New("session state is inconsistent")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomNotWaiting = errors.New("room is not accepting players")
	ErrInvalidState   = errors.New("invalid room state")
)
