// Package errors provides the structured error type shared by the Kafka
// layer, the session controller and the UI. The Kind carries the taxonomy the
// UI uses to decide where and how an error is shown.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindAssignment
	KindOffsetOutOfRange
	KindNoMessageAtTimestamp
	KindParse
	KindNoPartition
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection error"
	case KindAssignment:
		return "assignment error"
	case KindOffsetOutOfRange:
		return "offset out of range"
	case KindNoMessageAtTimestamp:
		return "no message at timestamp"
	case KindParse:
		return "parse error"
	case KindNoPartition:
		return "no partition selected"
	case KindConfig:
		return "configuration error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type.
type Error struct {
	Op      Op
	Kind    Kind
	Err     error
	Context string
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the user: the context when present,
// otherwise the underlying error, without the operation prefix.
func (e *Error) Message() string {
	if e.Context != "" {
		if e.Err != nil && e.Err.Error() != e.Context {
			return fmt.Sprintf("%s: %s", e.Context, e.Err)
		}
		return e.Context
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// E creates a new Error. Arguments can be an Op, a Kind, a string (context)
// or an error (the wrapped cause).
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage renders err for the status line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}

func ConnectionFailed(op Op, err error) error {
	return E(op, KindConnection, err)
}

func AssignmentFailed(topic string, partition int32, err error) error {
	return E(Op("session.Assign"), KindAssignment, fmt.Sprintf("cannot assign %s/%d", topic, partition), err)
}

func OffsetOutOfRange(offset, low, high int64) error {
	if low == high {
		return E(Op("session.Seek"), KindOffsetOutOfRange, "partition is empty")
	}
	return E(Op("session.Seek"), KindOffsetOutOfRange, fmt.Sprintf("offset %d out of range [%d, %d)", offset, low, high))
}

func NoMessageAtTimestamp(ts int64) error {
	return E(Op("session.Seek"), KindNoMessageAtTimestamp, fmt.Sprintf("no message at or after timestamp %d", ts))
}

func ParseFailed(text, reason string) error {
	return E(Op("command.Parse"), KindParse, fmt.Sprintf("invalid command %q: %s", text, reason))
}

func NoPartitionSelected() error {
	return E(Op("session.Seek"), KindNoPartition, "no partition selected")
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindConfig, reason)
}
