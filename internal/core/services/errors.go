package services

import "errors"

// Check errors
var (
	ErrCheckNoDomains    = errors.New("check: no domains to check")
	ErrCheckInvalidInput = errors.New("check: invalid input")
)

// Chat errors
var (
	ErrChatEmptyMessage = errors.New("chat: empty message")
)

// Store collection errors
var (
	ErrStoreInvalidMethod = errors.New("store: invalid collection method")
	ErrStoreEmptyInput    = errors.New("store: no collection input provided")
)

// Lookup errors
var (
	ErrLookupNoDomains = errors.New("lookup: no domains provided")
)
