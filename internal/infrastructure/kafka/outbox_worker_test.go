package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryOutbox struct {
	mu       sync.Mutex
	events   []*usecase.OutboxEvent
	requeued int
}

func newMemoryOutbox(n int) *memoryOutbox {
	m := &memoryOutbox{}
	for i := 1; i <= n; i++ {
		ev := usecase.NewOutboxEvent(fmt.Sprintf("ev-%d", i), "recommendation.served", fmt.Sprintf("key-%d", i), []byte{byte(i)})
		ev.ID = int64(i)
		m.events = append(m.events, ev)
	}
	return m
}

func (m *memoryOutbox) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = int64(len(m.events) + 1)
	m.events = append(m.events, event)
	return event, nil
}

func (m *memoryOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*usecase.OutboxEvent
	for _, ev := range m.events {
		if len(out) == limit {
			break
		}
		if ev.Status == usecase.Pending {
			ev.Status = usecase.Processing
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memoryOutbox) setStatus(id int64, from, to usecase.OutboxStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id && ev.Status == from {
			ev.Status = to
		}
	}
}

func (m *memoryOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	m.setStatus(id, usecase.Processing, usecase.Processed)
	return nil
}

func (m *memoryOutbox) ReturnToPending(_ context.Context, id int64) error {
	m.setStatus(id, usecase.Processing, usecase.Pending)
	return nil
}

func (m *memoryOutbox) RequeueStuck(_ context.Context, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued++
	return 0, nil
}

func (m *memoryOutbox) count(status usecase.OutboxStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Status == status {
			n++
		}
	}
	return n
}

type recordingProducer struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, req.Key)
	return nil
}

func TestOutboxWorker_DrainsAllPending(t *testing.T) {
	repo := newMemoryOutbox(25)
	producer := &recordingProducer{}
	w := NewOutboxWorker(repo, logger.Discard(), producer, "")

	w.drain(context.Background())

	assert.Equal(t, 25, repo.count(usecase.Processed))
	assert.Len(t, producer.keys, 25)
	assert.Equal(t, "key-1", producer.keys[0])
}

func TestOutboxWorker_RetryableFailureReturnsToPending(t *testing.T) {
	repo := newMemoryOutbox(3)
	producer := &recordingProducer{err: errors.New("dial tcp 10.0.0.5:9092: connect: connection refused")}
	w := NewOutboxWorker(repo, logger.Discard(), producer, "")

	hasMore, err := w.processBatch(context.Background())

	require.NoError(t, err)
	assert.False(t, hasMore)
	assert.Equal(t, 3, repo.count(usecase.Pending))

	producer.err = nil
	w.drain(context.Background())
	assert.Equal(t, 3, repo.count(usecase.Processed))
}

func TestOutboxWorker_PermanentFailureStaysProcessing(t *testing.T) {
	repo := newMemoryOutbox(2)
	producer := &recordingProducer{err: errors.New("[10] Message Size Too Large")}
	w := NewOutboxWorker(repo, logger.Discard(), producer, "")

	w.drain(context.Background())

	assert.Equal(t, 2, repo.count(usecase.Processing))
	assert.Zero(t, repo.count(usecase.Pending))
}

func TestOutboxWorker_RunRequeuesAndStops(t *testing.T) {
	repo := newMemoryOutbox(4)
	producer := &recordingProducer{}
	w := NewOutboxWorker(repo, logger.Discard(), producer, "")
	w.pollInterval = 10 * time.Millisecond

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(context.Background())
	}()

	require.Eventually(t, func() bool { return repo.count(usecase.Processed) == 4 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
	require.NoError(t, w.Stop(ctx))
	assert.Equal(t, 1, repo.requeued)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("write: broken pipe")))
	assert.True(t, isRetryableError(errors.New("[5] Leader Not Available: the cluster is in the middle of a leadership election")))
	assert.False(t, isRetryableError(errors.New("[3] Unknown Topic Or Partition")))
	assert.False(t, isRetryableError(nil))
}
