package chat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitvibe/coach-app/internal/domain"
)

func TestHubBroadcastOrder(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("rel-1")
	defer sub.Close()

	for i := 0; i < 5; i++ {
		hub.Broadcast("rel-1", domain.Message{Text: fmt.Sprintf("msg-%d", i)})
	}

	for i := 0; i < 5; i++ {
		select {
		case msg := <-sub.C:
			assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Text)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestHubRoomIsolation(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("rel-a")
	b := hub.Subscribe("rel-b")
	defer a.Close()
	defer b.Close()

	hub.Broadcast("rel-a", domain.Message{Text: "for a"})

	select {
	case msg := <-a.C:
		assert.Equal(t, "for a", msg.Text)
	case <-time.After(time.Second):
		t.Fatal("subscriber a received nothing")
	}

	select {
	case msg := <-b.C:
		t.Fatalf("subscriber b received message for another room: %q", msg.Text)
	default:
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("rel-1")
	second := hub.Subscribe("rel-1")
	defer first.Close()
	defer second.Close()

	require.Equal(t, 2, hub.Subscribers("rel-1"))

	hub.Broadcast("rel-1", domain.Message{Text: "hello"})

	for _, sub := range []*Subscription{first, second} {
		select {
		case msg := <-sub.C:
			assert.Equal(t, "hello", msg.Text)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the broadcast")
		}
	}
}

func TestSubscriptionClose(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("rel-1")

	sub.Close()
	sub.Close() // idempotent

	assert.Equal(t, 0, hub.Subscribers("rel-1"))

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed")
}

func TestHubConcurrentBroadcastAndClose(t *testing.T) {
	hub := NewHub()

	// Subscribers close themselves while broadcasts are in flight. A close
	// landing mid-fan-out must detach cleanly, never panic the sender.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		sub := hub.Subscribe("rel-1")

		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				hub.Broadcast("rel-1", domain.Message{Text: "live"})
			}
		}()
		go func() {
			defer wg.Done()
			sub.Close()
		}()
	}
	wg.Wait()

	// Slow-subscriber detach goroutines may still be settling.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("rel-1") != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 0, hub.Subscribers("rel-1"))
}

func TestHubDetachesSlowSubscriber(t *testing.T) {
	hub := NewHub()
	slow := hub.Subscribe("rel-1")

	// Never read: fill the buffer and push one more.
	for i := 0; i < subscriptionBuffer+1; i++ {
		hub.Broadcast("rel-1", domain.Message{Text: "flood"})
	}

	// Detach happens on a goroutine; wait for it to land.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("rel-1") != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 0, hub.Subscribers("rel-1"))

	// Buffered messages stay readable until the closed channel drains.
	drained := 0
	for range slow.C {
		drained++
	}
	assert.Equal(t, subscriptionBuffer, drained)
}
