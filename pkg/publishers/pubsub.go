package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/samvad-hq/opengraphio-go/internal/logger"
)

// PubSubPublisherConfig publishes each event to a Google Cloud Pub/Sub topic.
type PubSubPublisherConfig struct {
	ProjectID string `json:"project_id" yaml:"project_id"`
	Topic     string `json:"topic" yaml:"topic"`
}

func (c *PubSubPublisherConfig) normalize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
}

func (c *PubSubPublisherConfig) check() error {
	switch {
	case c.ProjectID == "":
		return errors.New("gcp_pubsub.project_id is required")
	case c.Topic == "":
		return errors.New("gcp_pubsub.topic is required")
	}
	return nil
}

type pubsubPublisher struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    logger.Logger
}

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing gcp_pubsub configuration", cfg.ID)
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &pubsubPublisher{
		id:     cfg.ID,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    log,
	}, nil
}

func (p *pubsubPublisher) ID() string   { return p.id }
func (p *pubsubPublisher) Type() string { return TypePubSub }

// Publish waits for the server to acknowledge the message.
func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	body, attrs, err := evt.message()
	if err != nil {
		return err
	}
	id, err := p.topic.Publish(ctx, &pubsub.Message{Data: body, Attributes: attrs}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	p.log.DebugObj("lookup delivered to pubsub", "publisher_pubsub_delivery", map[string]any{
		"publisher_id": p.id,
		"lookup_id":    evt.Lookup.ID,
		"message_id":   id,
	})
	return nil
}

// Close flushes pending messages and closes the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
