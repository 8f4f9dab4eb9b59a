// Package scheduler implements the GBA event queue: a sorted array of
// pending cycle-timestamped events that the top-level run loop drains
// before every CPU instruction.
package scheduler

// EventType identifies what kind of event is pending. The concrete PPU/timer
// components interpret the type when a handler dispatches it; the scheduler
// itself only orders and stores them.
type EventType int

const (
	HBlankStart EventType = iota
	HBlankEnd
	VBlankStart
	TimerOverflow
	DMA
	FrameComplete
)

// maxEvents is the sorted array's preallocated capacity. insert does not
// enforce it; with at most one pending event per EventType the queue stays
// far below it.
const maxEvents = 32

// Event is one scheduled occurrence: an absolute cycle timestamp, a type,
// and an optional parameter (e.g. which timer or DMA channel).
type Event struct {
	Timestamp uint64
	Type      EventType
	Param     int
}

// visibleCycles is the GBA PPU's per-scanline visible-dot boundary (§3.5
// Reset); frameCycles is 228 scanlines x 1232 cycles.
const (
	visibleCycles = 960
	frameCycles   = 228 * 1232
)

// Scheduler holds the ascending-sorted event array and the monotonic cycle
// clock it is measured against (§3.5, §4.5).
type Scheduler struct {
	events        []Event
	currentCycles uint64
}

// New returns a scheduler with an empty queue and a zeroed clock; call
// Reset to install the initial HBlank/Frame-complete pair.
func New() *Scheduler {
	return &Scheduler{events: make([]Event, 0, maxEvents)}
}

// Reset clears the queue, zeroes current_cycles, and schedules the first
// HBlank-start and Frame-complete events (§4.5 Reset).
func (s *Scheduler) Reset() {
	s.events = s.events[:0]
	s.currentCycles = 0
	s.Schedule(HBlankStart, visibleCycles, 0)
	s.Schedule(FrameComplete, frameCycles, 0)
}

// CurrentCycles returns the monotonic clock.
func (s *Scheduler) CurrentCycles() uint64 { return s.currentCycles }

// Advance moves the clock forward by cycles. current_cycles never decreases
// (§4.5 Invariants); a negative or zero advance is a no-op.
func (s *Scheduler) Advance(cycles uint64) {
	s.currentCycles += cycles
}

// Schedule inserts an event at current_cycles+delay, displacing any
// existing event of the same type (§4.5 Operations).
func (s *Scheduler) Schedule(t EventType, delay uint64, param int) {
	s.ScheduleAbsolute(t, s.currentCycles+delay, param)
}

// ScheduleAbsolute inserts an event at an absolute timestamp, displacing
// any existing event of the same type.
func (s *Scheduler) ScheduleAbsolute(t EventType, timestamp uint64, param int) {
	s.Deschedule(t)
	s.insert(Event{Timestamp: timestamp, Type: t, Param: param})
}

// insert keeps the array ascending-sorted by timestamp, appending a new
// event and shifting it down to its sorted position. O(n), matching the
// spec's deliberately-array-not-heap design (§9).
func (s *Scheduler) insert(e Event) {
	s.events = append(s.events, e)
	i := len(s.events) - 1
	for i > 0 && s.events[i-1].Timestamp > e.Timestamp {
		s.events[i] = s.events[i-1]
		i--
	}
	s.events[i] = e
}

// Peek returns the earliest event without removing it, and whether one
// exists.
func (s *Scheduler) Peek() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false
	}
	return s.events[0], true
}

// Pop removes and returns the earliest event.
func (s *Scheduler) Pop() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false
	}
	e := s.events[0]
	s.events = s.events[1:]
	return e, true
}

// Deschedule removes every event of a given type (§4.5 Operations).
func (s *Scheduler) Deschedule(t EventType) {
	out := s.events[:0]
	for _, e := range s.events {
		if e.Type != t {
			out = append(out, e)
		}
	}
	s.events = out
}

// Reschedule replaces the existing event of type t (if any) with one at
// current_cycles+newDelay, reusing its param; a no-op if none is pending.
func (s *Scheduler) Reschedule(t EventType, newDelay uint64) {
	for _, e := range s.events {
		if e.Type == t {
			s.ScheduleAbsolute(t, s.currentCycles+newDelay, e.Param)
			return
		}
	}
}

// Len reports how many events are pending.
func (s *Scheduler) Len() int { return len(s.events) }
