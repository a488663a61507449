package mqtt

import (
	"context"
)

// Writer is the minimum abstraction around writing values to MQTT. The discovery builders in this module never write
// to MQTT themselves; they produce documents that callers hand to a Writer (typically the autopaho adapter).
type Writer interface {
	// WriteTopic writes the provided value to the specified topic with the specified WriteOptions.
	WriteTopic(ctx context.Context, topic string, options WriteOptions, value []byte) error
}
