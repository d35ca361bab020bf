package telegram

import "sync"

// chatQueue runs jobs one at a time per chat, in submission order.
// Different chats run concurrently. A chat's worker exits once its queue drains.
type chatQueue struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

func newChatQueue() *chatQueue {
	return &chatQueue{pending: make(map[int64][]func())}
}

func (q *chatQueue) Submit(chatID int64, job func()) {
	q.mu.Lock()
	jobs, running := q.pending[chatID]
	q.pending[chatID] = append(jobs, job)
	q.mu.Unlock()

	if !running {
		q.wg.Add(1)
		go q.drain(chatID)
	}
}

func (q *chatQueue) drain(chatID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		jobs := q.pending[chatID]
		if len(jobs) == 0 {
			delete(q.pending, chatID)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		q.pending[chatID] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}

// Wait blocks until every submitted job has finished.
func (q *chatQueue) Wait() { q.wg.Wait() }

// Active returns the number of chats with queued or running jobs.
func (q *chatQueue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
