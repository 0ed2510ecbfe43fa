package events

import "github.com/atomicstack/kafka2i/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Select(partition string, seq uint64) {
	logging.Trace("session.select", map[string]any{"partition": partition, "seq": seq})
}

func (SessionTracer) Request(partition, target string, seq uint64) {
	logging.Trace("session.request", map[string]any{"partition": partition, "target": target, "seq": seq})
}

func (SessionTracer) Loaded(partition string, offset int64, seq uint64) {
	logging.Trace("session.loaded", map[string]any{"partition": partition, "offset": offset, "seq": seq})
}

func (SessionTracer) Failed(partition string, seq uint64, err error) {
	logging.Trace("session.failed", map[string]any{"partition": partition, "seq": seq, "error": errString(err)})
}

func (SessionTracer) Superseded(partition string, seq, current uint64) {
	logging.Trace("session.superseded", map[string]any{"partition": partition, "seq": seq, "current": current})
}
