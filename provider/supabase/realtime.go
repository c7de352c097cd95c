package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/campusfeed/go-session"
	"github.com/goliatone/go-errors"
	"github.com/gorilla/websocket"
)

// ChangeEvent is a postgres change forwarded from the realtime service.
type ChangeEvent struct {
	Event  string         `json:"event"`
	Topic  string         `json:"topic"`
	Record map[string]any `json:"record"`
}

// ChangeHandler receives forwarded change events.
type ChangeHandler func(ChangeEvent)

// Realtime maintains the websocket connection to the Supabase realtime
// service and forwards postgres change payloads to handlers. Delivery
// guarantees are the service's; this client only forwards what arrives.
type Realtime struct {
	url    string
	logger session.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string][]ChangeHandler
	joined   map[string]bool
	ref      int
	done     chan struct{}
}

// NewRealtime returns a realtime client for the project described by cfg.
func NewRealtime(cfg Config) *Realtime {
	wsURL := cfg.URL
	if strings.HasPrefix(wsURL, "https") {
		wsURL = "wss" + wsURL[len("https"):]
	} else if strings.HasPrefix(wsURL, "http") {
		wsURL = "ws" + wsURL[len("http"):]
	}
	wsURL = strings.TrimSuffix(wsURL, "/") + "/realtime/v1/websocket?apikey=" + cfg.AnonKey + "&vsn=1.0.0"

	return &Realtime{
		url:      wsURL,
		logger:   noopLogger{},
		handlers: make(map[string][]ChangeHandler),
		joined:   make(map[string]bool),
	}
}

func (r *Realtime) WithLogger(logger session.Logger) *Realtime {
	r.logger = logger
	return r
}

// Connect dials the realtime endpoint and starts the read loop.
func (r *Realtime) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to dial realtime endpoint")
	}

	r.conn = conn
	r.done = make(chan struct{})

	go r.readLoop(conn)
	go r.heartbeat()

	return nil
}

// Close ends the connection.
func (r *Realtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return nil
	}

	close(r.done)

	_ = r.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	err := r.conn.Close()
	r.conn = nil
	return err
}

// OnInsert forwards INSERT events on table (optionally filtered, e.g.
// "post_id=eq.42") to handler.
func (r *Realtime) OnInsert(ctx context.Context, table, filter string, handler ChangeHandler) error {
	return r.subscribe(ctx, "INSERT", table, filter, handler)
}

func (r *Realtime) subscribe(ctx context.Context, event, table, filter string, handler ChangeHandler) error {
	topic := "realtime:public:" + table
	if filter != "" {
		topic += ":" + filter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return errors.New("realtime client is not connected", errors.CategoryOperation).
			WithCode(errors.CodeInternal)
	}

	key := topic + ":" + event
	r.handlers[key] = append(r.handlers[key], handler)

	if r.joined[topic] {
		return nil
	}

	r.ref++
	join := map[string]any{
		"topic":   topic,
		"event":   "phx_join",
		"payload": map[string]any{},
		"ref":     fmt.Sprintf("%d", r.ref),
	}
	if err := r.conn.WriteJSON(join); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to join realtime topic").
			WithMetadata(map[string]any{"topic": topic})
	}

	r.joined[topic] = true
	return nil
}

type frame struct {
	Topic   string         `json:"topic"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

func (r *Realtime) readLoop(conn *websocket.Conn) {
	for {
		select {
		case <-r.done:
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			r.logger.Debug("realtime read loop ended", "error", err)
			return
		}

		var f frame
		if err := json.Unmarshal(message, &f); err != nil {
			continue
		}

		r.dispatch(f)
	}
}

func (r *Realtime) dispatch(f frame) {
	event := f.Event
	if t, ok := f.Payload["type"].(string); ok {
		event = t
	}

	var record map[string]any
	if rec, ok := f.Payload["record"].(map[string]any); ok {
		record = rec
	}

	r.mu.Lock()
	handlers := append([]ChangeHandler(nil), r.handlers[f.Topic+":"+event]...)
	r.mu.Unlock()

	for _, handler := range handlers {
		handler(ChangeEvent{Event: event, Topic: f.Topic, Record: record})
	}
}

func (r *Realtime) heartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.conn != nil {
				r.ref++
				_ = r.conn.WriteJSON(map[string]any{
					"topic":   "phoenix",
					"event":   "heartbeat",
					"payload": map[string]any{},
					"ref":     fmt.Sprintf("%d", r.ref),
				})
			}
			r.mu.Unlock()
		}
	}
}
