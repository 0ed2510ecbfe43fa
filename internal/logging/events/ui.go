package events

import "github.com/atomicstack/kafka2i/internal/logging"

type UITracer struct{}

type EditTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Edit    = EditTracer{}
	Command = CommandTracer{}
)

func (UITracer) Mode(from, to string) {
	logging.Trace("ui.mode", map[string]any{"from": from, "to": to})
}

func (UITracer) Focus(from, to string) {
	logging.Trace("ui.focus", map[string]any{"from": from, "to": to})
}

func (UITracer) AppMode(mode string) {
	logging.Trace("ui.app_mode", map[string]any{"mode": mode})
}

func (UITracer) Key(mode, focus, key string) {
	logging.Trace("ui.key", map[string]any{"mode": mode, "focus": focus, "key": key})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]any{"width": width, "height": height})
}

func (EditTracer) Begin(purpose string) {
	logging.Trace("edit.begin", map[string]any{"purpose": purpose})
}

func (EditTracer) Submit(purpose, text string) {
	logging.Trace("edit.submit", map[string]any{"purpose": purpose, "text": text})
}

func (EditTracer) Cancel(purpose string) {
	logging.Trace("edit.cancel", map[string]any{"purpose": purpose})
}

func (CommandTracer) Parsed(text, intent string) {
	logging.Trace("command.parsed", map[string]any{"text": text, "intent": intent})
}

func (CommandTracer) Rejected(text string, err error) {
	logging.Trace("command.rejected", map[string]any{"text": text, "error": errString(err)})
}

func (CommandTracer) Dispatch(name string, payload any) {
	logging.Trace("command.dispatch", map[string]any{"name": name, "payload": payload})
}
