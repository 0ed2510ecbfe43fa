package events

import "github.com/atomicstack/kafka2i/internal/logging"

type ClipboardTracer struct{}

var Clipboard = ClipboardTracer{}

func (ClipboardTracer) Copy(bytes int, err error) {
	logging.Trace("clipboard.copy", map[string]any{"bytes": bytes, "error": errString(err)})
}
