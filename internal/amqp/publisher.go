package amqp

import (
	"context"
	"time"

	"budgettracker/internal/log"
	"budgettracker/internal/store"
)

const (
	forwardBuffer  = 256
	publishRetries = 3
)

// ChangePublisher is the publishing side of Client.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *ChangeMessage) error
}

// Forwarder relays store events to a publisher from its own goroutine so
// store mutations never wait on the broker.
type Forwarder struct {
	pub    ChangePublisher
	logger *log.Logger
	queue  chan *ChangeMessage
	sleep  func(context.Context, time.Duration) error
}

func NewForwarder(pub ChangePublisher, logger *log.Logger) *Forwarder {
	if logger == nil {
		logger = log.Discard()
	}
	return &Forwarder{
		pub:    pub,
		logger: logger.WithComponent(log.ComponentAMQP),
		queue:  make(chan *ChangeMessage, forwardBuffer),
		sleep:  sleepCtx,
	}
}

// Listen is a store.Listener. When the buffer is full the event is dropped
// and logged.
func (f *Forwarder) Listen(ev store.Event) {
	msg := NewChangeMessage(ev)
	select {
	case f.queue <- msg:
	default:
		f.logger.Warn("Change buffer full, dropping message", "type", msg.Type, log.FieldRevision, msg.Revision)
	}
}

// Run publishes queued messages until ctx is done.
func (f *Forwarder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-f.queue:
			f.publish(ctx, msg)
		}
	}
}

func (f *Forwarder) publish(ctx context.Context, msg *ChangeMessage) {
	var err error
	for attempt := 0; attempt < publishRetries; attempt++ {
		if err = f.pub.PublishChange(ctx, msg); err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if serr := f.sleep(ctx, exponentialBackoff(attempt)); serr != nil {
			return
		}
	}
	f.logger.ErrorContext(ctx, "Failed to publish change message",
		"type", msg.Type, log.FieldRevision, msg.Revision, log.FieldError, err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
