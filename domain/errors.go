package domain

import "errors"

var (
	ErrRoomNotFound = errors.New("room-not-found")
	ErrRoomFrozen   = errors.New("room-frozen")
	ErrNotStarted   = errors.New("game-not-started")
	ErrNotInRoom    = errors.New("not-in-room")
	ErrNotOwner     = errors.New("not-room-owner")
	ErrUnchanged    = errors.New("not-modified")
	ErrConflict     = errors.New("stale-version")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransient    = errors.New("transient-network-error")
	ErrUnknownStage = errors.New("unknown-stage")
)

var (
	TokenError               = errors.New("token-error")
	ErrInvalidSigningAlg     = errors.New("invalid-signing-alg")
	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrCorruptedToken        = errors.New("corrupted-token")
)
