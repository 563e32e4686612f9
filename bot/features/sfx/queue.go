package sfx

import (
	"container/heap"
	"errors"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrQueueFull is returned when a guild already has the maximum number of waiting sounds
var ErrQueueFull = errors.New("sound queue is full")

const (
	PrioritySfx = 5
	PriorityTTS = 10
)

const (
	KindSfx = "sfx"
	KindTTS = "tts"
)

// Item is one sound waiting to be played
type Item struct {
	GuildID       int64
	ChannelID     string // voice channel
	TextChannelID string
	Name          string
	Kind          string
	Path          string
	Volume        int
	Priority      int
	// DeleteAfter removes Path once the item has been played or dropped
	DeleteAfter bool

	seq uint64
}

func (it Item) cleanup() {
	if !it.DeleteAfter {
		return
	}
	if err := os.Remove(it.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).WithField("path", it.Path).Warn("Failed to remove temporary sound")
	}
}

// Queue is a bounded priority queue. Items of equal priority keep arrival order.
type Queue struct {
	mu       sync.Mutex
	items    itemHeap
	capacity int
	seq      uint64
}

// NewQueue creates a queue holding at most capacity items
func NewQueue(capacity int) *Queue {
	return &Queue{capacity: capacity}
}

// Push adds an item or returns ErrQueueFull
func (q *Queue) Push(item Item) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		return ErrQueueFull
	}
	q.seq++
	item.seq = q.seq
	heap.Push(&q.items, item)
	return nil
}

// Pop removes the next item to play
func (q *Queue) Pop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Item{}, false
	}
	return heap.Pop(&q.items).(Item), true
}

// Len returns the number of waiting items
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain empties the queue and returns what was waiting
func (q *Queue) Drain() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := make([]Item, 0, len(q.items))
	for len(q.items) > 0 {
		items = append(items, heap.Pop(&q.items).(Item))
	}
	return items
}

type itemHeap []Item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(Item)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
