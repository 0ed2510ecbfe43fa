// Package clipboard copies loaded messages to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/atomicstack/kafka2i/internal/logging/events"
)

// Copier places text on a clipboard.
type Copier interface {
	Copy(text string) error
}

// Func adapts a function to Copier.
type Func func(text string) error

func (f Func) Copy(text string) error { return f(text) }

// Nop discards everything. It is used when copying is disabled.
var Nop Copier = Func(func(string) error { return nil })

// System writes to the OS clipboard. The platform backend is initialised on
// first use; an initialisation failure is returned by every Copy.
type System struct {
	once    sync.Once
	initErr error
}

func NewSystem() *System {
	return &System{}
}

func (s *System) init() error {
	s.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			s.initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	})
	return s.initErr
}

func (s *System) Copy(text string) error {
	if err := s.init(); err != nil {
		events.Clipboard.Copy(len(text), err)
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	events.Clipboard.Copy(len(text), nil)
	return nil
}
