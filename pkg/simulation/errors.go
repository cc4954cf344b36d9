package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid world configuration")
	// ErrActionOutOfRange means a decision module returned an index outside the action set.
	// The tick is rejected after sensing and deciding, see World.Tick.
	ErrActionOutOfRange = errors.New("action index out of range")
	// ErrRejected is returned by the actor client helpers when the world refused a command.
	ErrRejected = errors.New("world rejected command")
)

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
