package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetSchedulesHBlankAndFrameComplete(t *testing.T) {
	s := New()
	s.Reset()
	assert.Equal(t, uint64(0), s.CurrentCycles())
	e, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, HBlankStart, e.Type)
	assert.Equal(t, uint64(960), e.Timestamp)
}

// Scheduling a second event of an already-pending type replaces it in
// place rather than appending a duplicate (§4.5 scenario 6).
func TestRescheduleSameTypeReplaces(t *testing.T) {
	s := New()
	s.Schedule(HBlankStart, 100, 0)
	s.Schedule(VBlankStart, 50, 0)
	s.Schedule(HBlankStart, 200, 0)

	assert.Equal(t, 2, s.Len())
	first, _ := s.Pop()
	assert.Equal(t, VBlankStart, first.Type)
	assert.Equal(t, uint64(50), first.Timestamp)
	second, _ := s.Pop()
	assert.Equal(t, HBlankStart, second.Type)
	assert.Equal(t, uint64(200), second.Timestamp)
}

func TestQueueStaysAscendingSorted(t *testing.T) {
	s := New()
	s.Schedule(TimerOverflow, 500, 1)
	s.Schedule(DMA, 10, 2)
	s.Schedule(HBlankEnd, 300, 3)

	var last uint64
	for s.Len() > 0 {
		e, _ := s.Pop()
		assert.GreaterOrEqual(t, e.Timestamp, last)
		last = e.Timestamp
	}
}

func TestDescheduleRemovesAllOfType(t *testing.T) {
	s := New()
	s.Schedule(TimerOverflow, 10, 0)
	s.Deschedule(TimerOverflow)
	_, ok := s.Peek()
	assert.False(t, ok)
}

func TestAdvanceNeverDecreasesClock(t *testing.T) {
	s := New()
	s.Advance(100)
	assert.Equal(t, uint64(100), s.CurrentCycles())
	s.Advance(50)
	assert.Equal(t, uint64(150), s.CurrentCycles())
}

func TestRescheduleReusesParam(t *testing.T) {
	s := New()
	s.Schedule(DMA, 100, 7)
	s.Advance(0)
	s.Reschedule(DMA, 20)
	e, _ := s.Peek()
	assert.Equal(t, 7, e.Param)
	assert.Equal(t, uint64(20), e.Timestamp)
}
