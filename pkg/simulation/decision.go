package simulation

import (
	"errors"
	"fmt"
)

// Brain is the external decision module an agent consults every tick.
type Brain interface {
	// Decide maps an input vector (see Agent.Inputs) to an index into the action set.
	Decide(inputs []float64) int
	// Learn receives the shaped reward for the last decision.
	Learn(reward float64)
}

// ParameterSharer is implemented by brains that can mirror another instance's parameters.
type ParameterSharer interface {
	ShareParametersFrom(other Brain) error
}

// Persister is implemented by brains whose trained parameters can be saved and restored.
// The bytes are opaque to the simulation.
type Persister interface {
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}

// Controller binds an agent to a brain and records whether the agent owns it.
// Only owners ever call Learn; mirrors only call Decide.
type Controller struct {
	brain Brain
	owner bool
}

// Owns gives an agent a trainable brain of its own.
func Owns(b Brain) Controller {
	return Controller{brain: b, owner: true}
}

// Mirrors makes an agent follow the owner's brain without training it.
// With a nil replica the agent decides through the owner instance directly. Otherwise the
// replica must implement ParameterSharer and is attached to the owner's parameters.
func Mirrors(owner Brain, replica Brain) (Controller, error) {
	if owner == nil {
		return Controller{}, errors.New("mirror needs an owner brain")
	}
	if replica == nil {
		return Controller{brain: owner}, nil
	}
	sharer, ok := replica.(ParameterSharer)
	if !ok {
		return Controller{}, fmt.Errorf("replica %T cannot share parameters", replica)
	}
	if err := sharer.ShareParametersFrom(owner); err != nil {
		return Controller{}, fmt.Errorf("share parameters: %w", err)
	}
	return Controller{brain: replica}, nil
}

// Brain returns the brain the agent decides with.
func (c Controller) Brain() Brain { return c.brain }

// Owner reports whether the agent trains its brain.
func (c Controller) Owner() bool { return c.owner }
