package world

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDropsNewestWhenFull(t *testing.T) {
	q := NewInputQueue(2, discardLogger())

	assert.True(t, q.Enqueue(QueuedPacket{AccountID: 1}))
	assert.True(t, q.Enqueue(QueuedPacket{AccountID: 2}))
	assert.False(t, q.Enqueue(QueuedPacket{AccountID: 3}), "overflow drops the newest")
	assert.Equal(t, int64(1), q.Dropped())

	got := q.Drain(nil)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].AccountID, "single-producer order is preserved")
	assert.Equal(t, int64(2), got[1].AccountID)
}

func TestDrainReusesBuffer(t *testing.T) {
	q := NewInputQueue(8, discardLogger())
	for i := range 3 {
		q.Enqueue(QueuedPacket{AccountID: int64(i)})
	}

	buf := make([]QueuedPacket, 0, 16)
	got := q.Drain(buf)
	assert.Len(t, got, 3)
	assert.Equal(t, 16, cap(got), "drain must not reallocate a large enough buffer")

	got = q.Drain(got)
	assert.Empty(t, got)
	assert.Equal(t, 0, q.Len())
}

func TestEnqueueControlHonorsContext(t *testing.T) {
	q := NewInputQueue(1, discardLogger())
	require.NoError(t, q.EnqueueControl(context.Background(), QueuedPacket{AccountID: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.EnqueueControl(ctx, QueuedPacket{AccountID: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
