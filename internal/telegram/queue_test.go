package telegram

import (
	"sync"
	"testing"
	"time"
)

func TestChatQueue_OrderPerChat(t *testing.T) {
	q := newChatQueue()
	var mu sync.Mutex
	got := map[int64][]int{}
	for i := 0; i < 50; i++ {
		for _, chat := range []int64{1, 2} {
			chat, i := chat, i
			q.Submit(chat, func() {
				time.Sleep(time.Microsecond)
				mu.Lock()
				got[chat] = append(got[chat], i)
				mu.Unlock()
			})
		}
	}
	q.Wait()
	for _, chat := range []int64{1, 2} {
		if len(got[chat]) != 50 {
			t.Fatalf("chat %d: want 50 jobs, got %d", chat, len(got[chat]))
		}
		for i, v := range got[chat] {
			if v != i {
				t.Fatalf("chat %d: job %d ran at position %d", chat, v, i)
			}
		}
	}
	if q.Active() != 0 {
		t.Fatalf("workers left after drain: %d", q.Active())
	}
}

func TestChatQueue_ChatsRunConcurrently(t *testing.T) {
	q := newChatQueue()
	release := make(chan struct{})
	done := make(chan struct{})
	q.Submit(1, func() { <-release })
	q.Submit(2, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("chat 2 blocked behind chat 1")
	}
	close(release)
	q.Wait()
}
