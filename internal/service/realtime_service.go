package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ChangeAction identifies the kind of row change an event describes.
type ChangeAction string

const (
	ActionInsert ChangeAction = "INSERT"
	ActionUpdate ChangeAction = "UPDATE"
	ActionDelete ChangeAction = "DELETE"
)

const realtimeChannelPrefix = "realtime:"

// subscriptionBuffer bounds per-subscriber queues; a consumer that stops
// draining loses events instead of blocking the dispatcher.
const subscriptionBuffer = 16

// ChangeEvent is a row-change notification for one table.
type ChangeEvent struct {
	Table    string                 `json:"table"`
	Action   ChangeAction           `json:"action"`
	RecordID string                 `json:"record_id"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}

// NewChangeEvent builds an event from a persisted record by flattening it
// to its JSON object form.
func NewChangeEvent(table string, action ChangeAction, recordID string, record interface{}) ChangeEvent {
	event := ChangeEvent{Table: table, Action: action, RecordID: recordID}
	if record == nil {
		return event
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return event
	}
	payload := map[string]interface{}{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return event
	}
	event.Payload = payload
	return event
}

// Subscription is one consumer's handle on a table's change feed.
type Subscription struct {
	id           int64
	table        string
	filterColumn string
	filterValue  string
	events       chan ChangeEvent
	svc          *RealtimeService
	once         sync.Once
}

// Events returns the channel delivering matching change events. The channel
// is closed after Unsubscribe.
func (s *Subscription) Events() <-chan ChangeEvent {
	return s.events
}

// Unsubscribe releases the subscription; no further events are delivered.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.svc.remove(s.id)
		close(s.events)
	})
}

func (s *Subscription) matches(event ChangeEvent) bool {
	if s.table != event.Table {
		return false
	}
	if s.filterColumn == "" {
		return true
	}
	value, ok := event.Payload[s.filterColumn]
	if !ok {
		return false
	}
	return fmt.Sprint(value) == s.filterValue
}

// RealtimeService fans row-change events out to subscribers. Events travel
// through Redis pub/sub so every instance of the service sees changes made
// by its peers; local subscribers are fed from the receive loop.
type RealtimeService struct {
	client *redis.Client
	log    *logrus.Logger

	mu     sync.RWMutex
	subs   map[int64]*Subscription
	nextID int64

	pubsub *redis.PubSub
	cancel context.CancelFunc
}

func NewRealtimeService(client *redis.Client, log *logrus.Logger) *RealtimeService {
	return &RealtimeService{
		client: client,
		log:    log,
		subs:   make(map[int64]*Subscription),
	}
}

// Start begins consuming the Redis change feed. Must be called once before
// Publish/Subscribe are useful across instances.
func (s *RealtimeService) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.pubsub = s.client.PSubscribe(runCtx, realtimeChannelPrefix+"*")

	go s.receiveLoop(runCtx)
	return nil
}

func (s *RealtimeService) receiveLoop(ctx context.Context) {
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.log.Warnf("Failed to decode change event: %+v", err)
				continue
			}
			s.dispatch(event)
		}
	}
}

// Publish sends a change event to the table's channel. Delivery is
// best-effort; persistence has already happened by the time this runs.
func (s *RealtimeService) Publish(ctx context.Context, event ChangeEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, realtimeChannelPrefix+event.Table, raw).Err(); err != nil {
		s.log.Warnf("Failed to publish change event for table %s: %+v", event.Table, err)
		return err
	}
	return nil
}

// Subscribe registers a consumer for one table's change events. The filter
// is an optional "column=value" predicate applied to the event payload.
func (s *RealtimeService) Subscribe(table, filter string) (*Subscription, error) {
	column, value, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sub := &Subscription{
		id:           s.nextID,
		table:        table,
		filterColumn: column,
		filterValue:  value,
		events:       make(chan ChangeEvent, subscriptionBuffer),
		svc:          s,
	}
	s.subs[sub.id] = sub
	return sub, nil
}

func (s *RealtimeService) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// dispatch delivers an event to every matching local subscriber.
func (s *RealtimeService) dispatch(event ChangeEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if !sub.matches(event) {
			continue
		}
		select {
		case sub.events <- event:
		default:
			s.log.Warnf("Dropping change event for slow subscriber on table %s", event.Table)
		}
	}
}

// Close stops the receive loop and releases all subscriptions.
func (s *RealtimeService) Close() error {
	if s.cancel != nil {
		s.cancel()
	}

	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}

	if s.pubsub != nil {
		return s.pubsub.Close()
	}
	return nil
}

// parseFilter splits a "column=value" predicate; empty input means no filter.
func parseFilter(filter string) (string, string, error) {
	if filter == "" {
		return "", "", nil
	}
	parts := strings.SplitN(filter, "=", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid filter %q, expected column=value", filter)
	}
	return parts[0], parts[1], nil
}
