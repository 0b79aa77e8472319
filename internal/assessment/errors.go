package assessment

import "errors"

// Transition errors. A rejected operation leaves the session unchanged.
var (
	ErrInvalidOption = errors.New("invalid option")
	ErrWrongQuestion = errors.New("wrong question")
	ErrUnanswered    = errors.New("current question is unanswered")
	ErrAtStart       = errors.New("already at the first question")
	ErrComplete      = errors.New("assessment is complete")
)

// ErrIncompatibleRecord is returned by Restore when a stored record cannot
// be replayed against the catalog.
var ErrIncompatibleRecord = errors.New("incompatible assessment record")
