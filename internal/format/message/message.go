// Package message turns fetched records into the text shown in the message
// view and placed on the clipboard.
package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/dustin/go-humanize"

	"github.com/atomicstack/kafka2i/internal/kafka"
)

const (
	noKey     = "No key"
	noPayload = "No Payload"
)

// Title returns the message view heading.
func Title(msg kafka.Message) string {
	return fmt.Sprintf("Message offset:%d ts:%d", msg.Offset, msg.TimestampMillis())
}

// Text returns the plain display text. It is also the clipboard content.
func Text(msg kafka.Message) string {
	return compose(msg, PrettyJSON(payload(msg)))
}

// Highlighted returns the display text with a JSON payload colourised for a
// 256-colour terminal. Non-JSON payloads are returned as plain text.
func Highlighted(msg kafka.Message) string {
	raw := payload(msg)
	pretty := PrettyJSON(raw)
	if json.Valid([]byte(raw)) {
		pretty = highlight(pretty, "json")
	}
	return compose(msg, pretty)
}

// Size returns the humanised size of key plus value.
func Size(msg kafka.Message) string {
	return humanize.Bytes(uint64(len(msg.Key) + len(msg.Value)))
}

func compose(msg kafka.Message, body string) string {
	return fmt.Sprintf("Key: %s\n\nHeaders: %s\n\nPayload: %s", key(msg), Headers(msg.Headers), body)
}

func key(msg kafka.Message) string {
	if msg.Key == nil {
		return noKey
	}
	return string(msg.Key)
}

func payload(msg kafka.Message) string {
	if msg.Value == nil {
		return noPayload
	}
	return string(msg.Value)
}

// Headers renders headers as an indented JSON object. Repeated keys keep the
// last value.
func Headers(headers []kafka.Header) string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Key] = string(h.Value)
	}
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", m)
	}
	return string(out)
}

// PrettyJSON indents s when it is a JSON document and returns it unchanged
// otherwise.
func PrettyJSON(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

func highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
