package notifier_test

import (
	"sync"
	"testing"
	"time"

	"ojarena/internal/arena/notifier"
)

func received(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	n := notifier.New()
	ch := n.Subscribe("c1")
	if got := n.Listeners("c1"); got != 1 {
		t.Fatalf("expected 1 listener, got %d", got)
	}
	n.Unsubscribe("c1", ch)
	if got := n.Listeners("c1"); got != 0 {
		t.Fatalf("expected no listeners, got %d", got)
	}
	if _, open := <-ch; open {
		t.Fatalf("expected channel to be closed")
	}
	// second unsubscribe is a no-op
	n.Unsubscribe("c1", ch)
}

func TestBroadcastIsScopedToContest(t *testing.T) {
	n := notifier.New()
	a1 := n.Subscribe("a")
	a2 := n.Subscribe("a")
	b := n.Subscribe("b")
	defer n.Unsubscribe("a", a1)
	defer n.Unsubscribe("a", a2)
	defer n.Unsubscribe("b", b)

	n.Broadcast("a")
	if !received(a1) || !received(a2) {
		t.Fatalf("expected both listeners of a to be pinged")
	}
	select {
	case <-b:
		t.Fatalf("listener of b must not be pinged")
	default:
	}
}

func TestBroadcastNonBlocking(t *testing.T) {
	n := notifier.New()
	ch := n.Subscribe("c1")
	defer n.Unsubscribe("c1", ch)
	ch <- struct{}{}

	done := make(chan struct{})
	go func() {
		n.Broadcast("c1")
		close(done)
	}()
	if !received(done) {
		t.Fatalf("broadcast blocked on a full listener")
	}
}

func TestConcurrentUse(t *testing.T) {
	n := notifier.New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe("c1")
			n.Broadcast("c1")
			n.Unsubscribe("c1", ch)
		}()
	}
	wg.Wait()
	if got := n.Listeners("c1"); got != 0 {
		t.Fatalf("expected all listeners removed, got %d", got)
	}
}
