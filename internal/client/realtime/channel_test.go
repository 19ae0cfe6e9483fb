package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mazadlive/internal/client/api"
)

// wsServer - тестовый backend realtime сервис
type wsServer struct {
	server   *httptest.Server
	conns    chan *websocket.Conn
	upgrader websocket.Upgrader
	mu       sync.Mutex
	requests []*http.Request
	reject   int
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()

	s := &wsServer{conns: make(chan *websocket.Conn, 8)}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Clone(context.Background()))
		reject := s.reject
		s.mu.Unlock()

		if reject != 0 {
			w.WriteHeader(reject)
			return
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.conns <- conn
	}))
	t.Cleanup(s.server.Close)

	return s
}

func (s *wsServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/socket"
}

func (s *wsServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()

	select {
	case conn := <-s.conns:
		return conn
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for realtime connection")
		return nil
	}
}

func testConfig(rawURL string) Config {
	cfg := DefaultConfig(rawURL, "key-1")
	cfg.InitialBackoff = 10 * time.Millisecond
	cfg.MaxBackoff = 50 * time.Millisecond
	return cfg
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestChannel_ConnectRequiresToken(t *testing.T) {
	c := NewChannel(testConfig("ws://127.0.0.1:1"), nil)

	assert.ErrorIs(t, c.Connect(context.Background(), "u1", ""), api.ErrAuthRequired)
	assert.Error(t, c.Connect(context.Background(), "", "token"))
	assert.False(t, c.Connected())
}

func TestChannel_DeliversEvents(t *testing.T) {
	srv := newWSServer(t)
	c := NewChannel(testConfig(srv.url()), nil)

	received := make(chan Event, 4)
	c.Subscribe(EventNotification, "test", func(ev Event) { received <- ev })

	require.NoError(t, c.Connect(context.Background(), "u1", "token-1"))
	defer c.Close()

	conn := srv.accept(t)
	defer conn.Close()

	// Handshake несет userId и заголовки авторизации
	srv.mu.Lock()
	req := srv.requests[0]
	srv.mu.Unlock()
	assert.Equal(t, "u1", req.URL.Query().Get("userId"))
	assert.Equal(t, "Bearer token-1", req.Header.Get("Authorization"))
	assert.Equal(t, "key-1", req.Header.Get(api.APIKeyHeader))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"notification","data":{"id":"e1","type":"BID_WON"}}`)))

	ev := waitEvent(t, received)
	assert.Equal(t, EventNotification, ev.Name)
	assert.JSONEq(t, `{"id":"e1","type":"BID_WON"}`, string(ev.Data))

	assert.Eventually(t, c.Connected, time.Second, 10*time.Millisecond)
	stats := c.Stats()
	assert.Equal(t, "u1", stats.UserID)
	assert.Equal(t, int64(1), stats.Dropped)
	assert.Equal(t, 1, stats.Subscribers[EventNotification])
}

func TestChannel_SubscribersSurviveReconnect(t *testing.T) {
	srv := newWSServer(t)
	c := NewChannel(testConfig(srv.url()), nil)

	received := make(chan Event, 4)
	c.Subscribe(EventNewMessage, "feed", func(ev Event) { received <- ev })

	require.NoError(t, c.Connect(context.Background(), "u1", "token"))
	defer c.Close()

	// Сервер обрывает первое соединение
	first := srv.accept(t)
	require.NoError(t, first.Close())

	second := srv.accept(t)
	defer second.Close()

	require.NoError(t, second.WriteMessage(websocket.TextMessage, []byte(`{"event":"newMessage","data":{"chatId":"c1"}}`)))

	ev := waitEvent(t, received)
	assert.Equal(t, EventNewMessage, ev.Name)
	assert.Eventually(t, func() bool { return c.Stats().Reconnects == 1 }, time.Second, 10*time.Millisecond)
}

func TestChannel_CloseStopsDelivery(t *testing.T) {
	srv := newWSServer(t)
	c := NewChannel(testConfig(srv.url()), nil)

	received := make(chan Event, 4)
	c.Subscribe(EventNotification, "", func(ev Event) { received <- ev })

	require.NoError(t, c.Connect(context.Background(), "u1", "token"))
	conn := srv.accept(t)
	defer conn.Close()

	c.Close()
	assert.False(t, c.Connected())
	assert.Empty(t, c.Stats().UserID)

	// Сервер видит закрытие соединения
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// Повторный Close безопасен
	c.Close()

	// Подписка сохранилась в реестре
	assert.Equal(t, 1, c.Stats().Subscribers[EventNotification])
}

func TestChannel_ConnectSameUserIsNoop(t *testing.T) {
	srv := newWSServer(t)
	c := NewChannel(testConfig(srv.url()), nil)

	require.NoError(t, c.Connect(context.Background(), "u1", "token"))
	defer c.Close()
	conn := srv.accept(t)
	defer conn.Close()

	require.NoError(t, c.Connect(context.Background(), "u1", "token"))

	select {
	case extra := <-srv.conns:
		_ = extra.Close()
		t.Fatal("second connection opened for the same user")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChannel_RejectedHandshakeStops(t *testing.T) {
	srv := newWSServer(t)
	srv.reject = http.StatusUnauthorized

	c := NewChannel(testConfig(srv.url()), nil)
	require.NoError(t, c.Connect(context.Background(), "u1", "expired"))

	// Permanent ошибка: больше одной попытки не будет
	time.Sleep(200 * time.Millisecond)
	c.Close()

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Len(t, srv.requests, 1)
}

func TestChannel_CloseFromHandlerAsync(t *testing.T) {
	srv := newWSServer(t)
	c := NewChannel(testConfig(srv.url()), nil)

	closed := make(chan struct{})
	c.Subscribe(EventNotification, "logout", func(ev Event) {
		go func() {
			c.Close()
			close(closed)
		}()
	})

	require.NoError(t, c.Connect(context.Background(), "u1", "token-1"))
	defer c.Close()

	conn := srv.accept(t)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"notification","data":{"id":"e1"}}`)))

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close from handler goroutine did not return")
	}
	assert.False(t, c.Connected())
}
