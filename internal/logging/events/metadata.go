package events

import "github.com/atomicstack/kafka2i/internal/logging"

type MetadataTracer struct{}

var Metadata = MetadataTracer{}

func (MetadataTracer) Refresh(trigger string, err error) {
	payload := map[string]any{"trigger": trigger}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("metadata.refresh", payload)
}

func (MetadataTracer) Applied(brokers, groups, topics, partitions int) {
	logging.Trace("metadata.applied", map[string]any{
		"brokers":    brokers,
		"groups":     groups,
		"topics":     topics,
		"partitions": partitions,
	})
}

func (MetadataTracer) Degraded(failures int, escalated bool, err error) {
	logging.Trace("metadata.degraded", map[string]any{
		"failures":  failures,
		"escalated": escalated,
		"error":     errString(err),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
