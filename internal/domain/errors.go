package domain

import "errors"

var (
	// ErrInvalidArgument is returned when a tool argument is missing or has the wrong type.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyExists is returned when a tool would overwrite an existing directory.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownTool is returned when no handler is registered for a tool name.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrStepLimit marks a turn that stopped at the step limit.
	ErrStepLimit = errors.New("step limit reached")
)
