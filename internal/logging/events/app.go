package events

import "github.com/atomicstack/kafka2i/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]any) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(reason string) {
	logging.Trace("app.stop", map[string]any{"reason": reason})
}
