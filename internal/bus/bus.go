// Package bus is an in-process message mediator. Components publish typed
// messages instead of calling each other directly.
package bus

import (
	"log/slog"
	"sync"
)

type Type string

const (
	// CloseAll asks every open panel to close.
	CloseAll Type = "close-all-panels"
	// ChangeTemplate switches the page template; Template names it.
	ChangeTemplate Type = "change-template"
	// ConfigChanged announces that the persisted mesh config changed.
	ConfigChanged Type = "config-changed"
	// Notice carries a user-visible message in Text.
	Notice Type = "notice"
)

// Message is the unit carried by the bus. It doubles as the JSON body of the
// HTTP message relay.
type Message struct {
	Type     Type   `json:"type"`
	Template string `json:"template,omitempty"`
	Text     string `json:"text,omitempty"`
	Source   string `json:"source,omitempty"`
}

type Handler func(Message)

type subscription struct {
	id      int
	topic   Type
	handler Handler
}

// Bus dispatches messages synchronously to handlers and without blocking to
// channel subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	chans  map[int]chan<- Message
	nextID int
	logger *slog.Logger
}

func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		chans:  make(map[int]chan<- Message),
		logger: logger,
	}
}

// Subscribe registers h for messages of type t. An empty t receives every
// message. The returned func removes the subscription.
func (b *Bus) Subscribe(t Type, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, topic: t, handler: h})
	return func() { b.remove(id) }
}

// Channel returns a buffered channel receiving every message. Messages are
// dropped when the buffer is full.
func (b *Bus) Channel(size int) (<-chan Message, func()) {
	ch := make(chan Message, size)
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.chans[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.chans, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers m to every matching handler in subscription order.
// Handlers may publish further messages.
func (b *Bus) Publish(m Message) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == "" || s.topic == m.Type {
			handlers = append(handlers, s.handler)
		}
	}
	for _, ch := range b.chans {
		select {
		case ch <- m:
		default:
			b.logger.Warn("bus subscriber slow, message dropped", "type", m.Type)
		}
	}
	b.mu.RUnlock()

	b.logger.Debug("bus publish", "type", m.Type, "handlers", len(handlers))
	for _, h := range handlers {
		h(m)
	}
}
