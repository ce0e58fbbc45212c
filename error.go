package leocore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/n2code/leocore/internal/sentinel"
)

type CommandError struct {
	message string
	cause   error
}

func (e *CommandError) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.message)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *CommandError) Unwrap() error {
	return e.cause
}

func newCommandError(message string, cause error) *CommandError {
	return &CommandError{message: message, cause: cause}
}

var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownHandle    = errors.New("unknown tree handle")
	ErrForeignTree      = errors.New("tree not created by this package")
	ErrBadSnapshot      = errors.New("snapshot is inconsistent")
	ErrNoSentinelHeader = sentinel.ErrNoHeader
)

// Kinds of ValidationError.
var (
	ErrLevelStep      = errors.New("level step")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrCloneMismatch  = errors.New("clone mismatch")
	ErrCycle          = errors.New("node contains itself")
)

// ValidationError locates one broken invariant. Key is set for content related kinds.
type ValidationError struct {
	Kind  error
	Index int
	Key   string
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s at index %d (key %s)", e.Kind, e.Index, e.Key)
	}
	return fmt.Sprintf("%s at index %d", e.Kind, e.Index)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}
