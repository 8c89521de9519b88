// Package events announces post lifecycle changes on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"spotted/pkg/logger"
)

const (
	SubjectPostCreated = "post.created"
	SubjectPostHidden  = "post.hidden"

	RequestIdHeader = "X-Request-Id"
)

type PostCreated struct {
	Id        string    `json:"id"`
	AuthorId  string    `json:"author_id"`
	Type      string    `json:"type"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedAt time.Time `json:"created_at"`
}

type PostHidden struct {
	Id       string    `json:"id"`
	HiddenAt time.Time `json:"hidden_at"`
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	PublishMsg(m *nats.Msg) error
}

type NatsPublisher struct {
	nc Conn
	// RequestId extracts the id to propagate in message headers.
	RequestId func(context.Context) string
}

func NewNatsPublisher(nc Conn, requestId func(context.Context) string) *NatsPublisher {
	return &NatsPublisher{nc: nc, RequestId: requestId}
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, ev PostCreated) error {
	return p.publish(ctx, SubjectPostCreated, ev)
}

func (p *NatsPublisher) PublishPostHidden(ctx context.Context, postId string) error {
	return p.publish(ctx, SubjectPostHidden, PostHidden{Id: postId, HiddenAt: time.Now().UTC()})
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, ev interface{}) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshalling %s: %w", subject, err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	if p.RequestId != nil {
		if id := p.RequestId(ctx); id != "" {
			msg.Header.Set(RequestIdHeader, id)
		}
	}

	logger.Log(ctx).Debugf("publishing %s", subject)
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("events: publishing %s: %w", subject, err)
	}
	return nil
}

// Nop drops every event. Used when NATS is not reachable.
type Nop struct{}

func (Nop) PublishPostCreated(context.Context, PostCreated) error { return nil }
func (Nop) PublishPostHidden(context.Context, string) error { return nil }
