package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/transport"
)

// PushTopic is the bus topic carrying pushes towards stream connections.
const PushTopic = "gateway.push"

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("request client closed")

type busClient struct {
	pubSub *gochannel.GoChannel
	closed atomic.Bool
	logger *logger.Logger
}

// NewClient creates the in-process bus. Publishing never blocks on slow
// subscribers beyond the channel buffer.
func NewClient(log *logger.Logger) Client {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger.Watermill(log))

	return &busClient{pubSub: pubSub, logger: log}
}

// Push implements transport.RequestClient.
func (c *busClient) Push(ctx context.Context, push transport.Push) error {
	if push.Event == "" {
		return errors.New("push event is empty")
	}

	payload, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.pubSub.Publish(PushTopic, msg); err != nil {
		return fmt.Errorf("publish push: %w", err)
	}
	return nil
}

func (c *busClient) Subscribe(ctx context.Context, deliver func(transport.Push)) error {
	messages, err := c.pubSub.Subscribe(ctx, PushTopic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", PushTopic, err)
	}

	go func() {
		for msg := range messages {
			var push transport.Push
			if err := json.Unmarshal(msg.Payload, &push); err != nil {
				c.logger.Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed push")
				msg.Ack()
				continue
			}
			deliver(push)
			msg.Ack()
		}
	}()

	return nil
}

func (c *busClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.pubSub.Close()
}
