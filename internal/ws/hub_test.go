package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trendpulse/trendpulse/internal/trending"
)

type stubSource struct{}

func (stubSource) Name() string    { return "stub" }
func (stubSource) Weight() float64 { return 1.0 }

func (stubSource) Fetch(_ context.Context, limit int) ([]trending.TrendingItem, error) {
	items := []trending.TrendingItem{
		{Title: "Top story", URL: "https://example.com/top", Source: "stub", Score: 42},
	}
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

// startHub spins up a hub with a primed engine behind an httptest server and
// returns the ws:// URL. The hub ticker runs until the test ends.
func startHub(t *testing.T, interval time.Duration) (*Hub, string) {
	t.Helper()

	engine := trending.NewEngine([]trending.Source{stubSource{}}, 10, time.Hour)
	engine.FetchTrending(context.Background(), 0, true)

	hub := New(engine, interval)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	return msg
}

func TestHub_SendsOverviewOnConnect(t *testing.T) {
	_, url := startHub(t, time.Hour) // ticker never fires during the test
	conn := dial(t, url)

	msg := readMessage(t, conn)
	if msg.Event != "overview" {
		t.Errorf("event: got %q, want overview", msg.Event)
	}
	if len(msg.Data.Top) != 1 || msg.Data.Top[0].Title != "Top story" {
		t.Errorf("top: got %+v", msg.Data.Top)
	}
	if msg.Data.Service.DefaultLimit != 10 {
		t.Errorf("service default limit: got %d", msg.Data.Service.DefaultLimit)
	}
}

func TestHub_BroadcastsPeriodically(t *testing.T) {
	_, url := startHub(t, 20*time.Millisecond)
	conn := dial(t, url)

	// First message is the connect snapshot, the next ones come from the
	// ticker loop.
	for i := 0; i < 3; i++ {
		msg := readMessage(t, conn)
		if msg.Event != "overview" {
			t.Fatalf("message %d: event %q, want overview", i, msg.Event)
		}
	}
}

func TestHub_CountTracksClients(t *testing.T) {
	hub, url := startHub(t, time.Hour)

	if n := hub.Count(); n != 0 {
		t.Fatalf("initial count: got %d, want 0", n)
	}

	conn := dial(t, url)
	waitForCount(t, hub, 1)

	conn.Close()
	waitForCount(t, hub, 0)
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("count: got %d, want %d", hub.Count(), want)
}
