package notification

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"eats/internal/types"
)

// dialPair upgrades one server-side connection into the registry and
// returns the matching client side.
func dialPair(t *testing.T, reg *Registry, actorID types.ID) (client *websocket.Conn, server *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		reg.Register(actorID, conn)
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server-side connection")
	}
	return client, server
}

func TestRegistry_SendDeliversJSON(t *testing.T) {
	reg := NewRegistry()
	actor := types.ID("vendor-1")
	client, _ := dialPair(t, reg, actor)

	if err := reg.Send(actor, livePayload{Type: "New Order", Message: "hello"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got livePayload
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Type != "New Order" || got.Message != "hello" {
		t.Errorf("payload = %+v", got)
	}
}

func TestRegistry_ConcurrentSendsToOneActor(t *testing.T) {
	reg := NewRegistry()
	actor := types.ID("vendor-busy")
	client, _ := dialPair(t, reg, actor)

	const senders = 16
	const perSender = 50

	// Drain client-side so the server's write buffer never fills, and
	// verify every frame arrives intact.
	received := make(chan error, 1)
	go func() {
		for i := 0; i < senders*perSender; i++ {
			client.SetReadDeadline(time.Now().Add(5 * time.Second))
			var got livePayload
			if err := client.ReadJSON(&got); err != nil {
				received <- err
				return
			}
			if got.Type != "New Order" {
				received <- fmt.Errorf("frame %d corrupted: %+v", i, got)
				return
			}
		}
		received <- nil
	}()

	var wg sync.WaitGroup
	errs := make(chan error, senders*perSender)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				errs <- reg.Send(actor, livePayload{Type: "New Order", Message: "order"})
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	select {
	case err := <-received:
		if err != nil {
			t.Fatalf("drain failed: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out draining client")
	}
}

func TestRegistry_SendWithoutConnection(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Send(types.ID("nobody"), livePayload{}); err != errNoConnection {
		t.Errorf("err = %v, want errNoConnection", err)
	}
}

func TestRegistry_UnregisterDropsConnection(t *testing.T) {
	reg := NewRegistry()
	actor := types.ID("rider-1")
	_, server := dialPair(t, reg, actor)

	reg.Unregister(actor, server)
	if err := reg.Send(actor, livePayload{}); err != errNoConnection {
		t.Errorf("after unregister: err = %v, want errNoConnection", err)
	}
}

func TestRegistry_ReconnectDisplacesPrevious(t *testing.T) {
	reg := NewRegistry()
	actor := types.ID("vendor-2")

	first, firstServer := dialPair(t, reg, actor)
	second, _ := dialPair(t, reg, actor)

	// The displaced socket is closed; reads on it fail once the close
	// propagates.
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Error("read on displaced connection should fail")
	}

	// Unregistering the stale server-side conn must not drop the new one.
	reg.Unregister(actor, firstServer)

	if err := reg.Send(actor, livePayload{Type: "ping"}); err != nil {
		t.Fatalf("Send() to reconnected actor error = %v", err)
	}
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got livePayload
	if err := second.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Type != "ping" {
		t.Errorf("payload = %+v", got)
	}
}
