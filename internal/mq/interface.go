package mq

import "context"

// Topics the bridge publishes to.
const (
	TopicBroadcast  = "bridge_events_broadcast"
	TopicOperations = "bridge_events_operations"
)

// Producer publishes bridge events.
type Producer interface {
	// Publish sends a message.
	// key: partition/ordering key (e.g. account id); empty means any partition.
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}
