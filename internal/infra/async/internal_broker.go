package async

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type BrokerTopicName string

type BrokerMessage struct {
	Event string
	Value any
	Span  trace.Span
	Error error
}

type InternalBroker interface {
	Subscribe(topic BrokerTopicName) (Subscription, error)
	Unsubscribe(topic BrokerTopicName, subscription Subscription) error
	Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error
	Stop()
}

type MessageHandler func(msg BrokerMessage)

var _ InternalBroker = (*LocalBroker)(nil)

var ErrTopicNotFound = errors.New("topic not found")
var ErrSubscriptorNotFound = errors.New("subscriptor not found")

// receiver buffer; a subscriber that lags behind this many messages
// starts losing messages, it never stalls the publisher.
const _receiverBufferSize = 16

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		subscriptors: sync.Map{},
	}
}

type LocalBroker struct {
	subscriptors sync.Map
	mu           sync.Mutex
}

type subscriptor struct {
	once         sync.Once
	active       bool
	subscription Subscription
}

type Subscription struct {
	ID       string
	Receiver chan BrokerMessage
}

func (b *LocalBroker) Subscribe(topic BrokerTopicName) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var subscriptors []*subscriptor
	value, ok := b.subscriptors.Load(topic)
	if !ok {
		subscriptors = make([]*subscriptor, 0)
	} else {
		subscriptors = value.([]*subscriptor)
	}
	id := uuid.NewString()
	receiver := make(chan BrokerMessage, _receiverBufferSize)
	subscription := Subscription{ID: id, Receiver: receiver}
	subscriptors = append(subscriptors, &subscriptor{subscription: subscription, active: true})
	b.subscriptors.Store(topic, subscriptors)
	return subscription, nil
}

func (b *LocalBroker) Unsubscribe(topic BrokerTopicName, subscription Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, ok := b.subscriptors.Load(topic)
	if !ok {
		return ErrTopicNotFound
	}

	subscriptors := value.([]*subscriptor)
	index := slices.IndexFunc(subscriptors, func(s *subscriptor) bool { return s.subscription.ID == subscription.ID })
	if index < 0 {
		return ErrSubscriptorNotFound
	}

	subscriptors[index].safeClose()

	return nil
}

// Publish delivers msg to every active subscriber of topic before returning,
// so consecutive publishes from one goroutine arrive in publish order. A
// topic with no subscribers is a no-op: readings flow before the first
// observer connects. Delivery never blocks: a subscriber whose receiver
// buffer is full loses the message instead of stalling the publisher.
func (b *LocalBroker) Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error {
	msg.Span = trace.SpanFromContext(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	topicSubscriptors, ok := b.subscriptors.Load(topic)
	if !ok {
		return nil
	}

	for _, s := range topicSubscriptors.([]*subscriptor) {
		if !s.active {
			continue
		}
		select {
		case s.subscription.Receiver <- msg:
		default:
			slog.Warn("subscriber receiver full, message lost",
				slog.String("topic", string(topic)),
				slog.String("subscription_id", s.subscription.ID),
				slog.String("event", msg.Event),
			)
		}
	}

	return nil
}

func (b *LocalBroker) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscriptors.Range(func(key, value any) bool {
		for _, s := range value.([]*subscriptor) {
			s.safeClose()
		}
		return true
	})
}

func (s *subscriptor) safeClose() {
	s.once.Do(func() {
		s.active = false
		close(s.subscription.Receiver)
	})
}
