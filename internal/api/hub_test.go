package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
}

func dialWS(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return websocket.DefaultDialer.Dial(url, header)
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	env := setupEnv(t, false)
	hub := startHub(t)
	env.cfg.Hub = hub

	srv := httptest.NewServer(NewRouter(env.cfg))
	defer srv.Close()

	conn, _, err := dialWS(t, srv, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 1)

	hub.Broadcast(Event{Type: EventCatalogUpdated, Count: 3})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		t.Fatalf("decode event error = %v", err)
	}
	if event.Type != EventCatalogUpdated || event.Count != 3 {
		t.Errorf("event = %+v, want catalog_updated with count 3", event)
	}
}

func TestHub_ExportEventShape(t *testing.T) {
	env := setupEnv(t, false)
	hub := startHub(t)
	env.cfg.Hub = hub

	srv := httptest.NewServer(NewRouter(env.cfg))
	defer srv.Close()

	conn, _, err := dialWS(t, srv, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 1)

	hub.Broadcast(Event{Type: EventExportCompleted, ID: "abc123", Status: "ok"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	got := string(message)
	if !strings.Contains(got, `"type":"export_completed"`) || !strings.Contains(got, `"id":"abc123"`) {
		t.Errorf("message = %s, want export_completed with id", got)
	}
	if strings.Contains(got, `"count"`) {
		t.Errorf("message = %s, zero count should be omitted", got)
	}
}

func TestHub_DisconnectDropsClient(t *testing.T) {
	env := setupEnv(t, false)
	hub := startHub(t)
	env.cfg.Hub = hub

	srv := httptest.NewServer(NewRouter(env.cfg))
	defer srv.Close()

	conn, _, err := dialWS(t, srv, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestWSHandler_RejectsForeignOrigin(t *testing.T) {
	env := setupEnv(t, false)
	hub := startHub(t)
	env.cfg.Hub = hub

	srv := httptest.NewServer(NewRouter(env.cfg))
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	conn, resp, err := dialWS(t, srv, header)
	if err == nil {
		conn.Close()
		t.Fatal("Dial() succeeded for a foreign origin, want handshake failure")
	}
	if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("handshake status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestWSHandler_AllowsLocalOrigin(t *testing.T) {
	env := setupEnv(t, false)
	hub := startHub(t)
	env.cfg.Hub = hub

	srv := httptest.NewServer(NewRouter(env.cfg))
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "http://localhost:8000")
	conn, _, err := dialWS(t, srv, header)
	if err != nil {
		t.Fatalf("Dial() error = %v, want local origin accepted", err)
	}
	conn.Close()
}

func TestHub_BroadcastWithoutRunDoesNotBlock(t *testing.T) {
	hub := NewHub(discardLogger())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 32; i++ {
			hub.Broadcast(Event{Type: EventCatalogUpdated, Count: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with no hub goroutine running")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	env := setupEnv(t, false)
	hub := NewHub(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	env.cfg.Hub = hub

	srv := httptest.NewServer(NewRouter(env.cfg))
	defer srv.Close()

	conn, _, err := dialWS(t, srv, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("ReadMessage() succeeded after shutdown, want close error")
	}
}
