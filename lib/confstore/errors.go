package confstore

import "errors"

// Sentinel errors. Call sites wrap them with oops to add context; match
// them with errors.Is.
var (
	ErrInvalidValue   = errors.New("invalid config value")
	ErrUnknownSection = errors.New("unknown config section")
	ErrUnknownEntry   = errors.New("unknown config entry")
	ErrNoPrimaryPath  = errors.New("store has no primary config path")
)
