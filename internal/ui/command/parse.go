package command

import (
	"strconv"
	"strings"

	kerrors "github.com/atomicstack/kafka2i/internal/errors"
	"github.com/atomicstack/kafka2i/internal/kafka"
)

const (
	offsetPrefix    = "offset!"
	timestampPrefix = "ts!"
)

// Parse turns edit-mode text into a seek intent. The grammar is
// "offset!<integer>" or "ts!<integer>" (epoch milliseconds). Surrounding
// whitespace is ignored; everything else is a parse error. Parse has no side
// effects.
func Parse(text string) (Seek, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, offsetPrefix):
		n, err := operand(text, trimmed[len(offsetPrefix):])
		if err != nil {
			return Seek{}, err
		}
		return Seek{Position: kafka.AtOffset(n)}, nil
	case strings.HasPrefix(trimmed, timestampPrefix):
		n, err := operand(text, trimmed[len(timestampPrefix):])
		if err != nil {
			return Seek{}, err
		}
		if n < 0 {
			return Seek{}, kerrors.ParseFailed(text, "timestamp must not be negative")
		}
		return Seek{Position: kafka.AtTimestamp(n)}, nil
	case trimmed == "":
		return Seek{}, kerrors.ParseFailed(text, "empty command")
	default:
		return Seek{}, kerrors.ParseFailed(text, "expected offset!<n> or ts!<ms>")
	}
}

func operand(text, raw string) (int64, error) {
	if raw == "" {
		return 0, kerrors.ParseFailed(text, "missing value")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, kerrors.ParseFailed(text, "value must be an integer")
	}
	return n, nil
}
