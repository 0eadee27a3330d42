package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownKind   = errors.New("unknown collection")
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidJob    = errors.New("invalid import job")
	ErrNotStarted    = errors.New("service not started")
	ErrQueueFull     = errors.New("import queue full")
	ErrInvalidLogin  = errors.New("invalid login")
)
