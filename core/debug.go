package core

// DebugWriter is a function type for writing debug messages.
type DebugWriter func(string)

// TimingEvent captures a timing-critical event for post-mortem analysis.
type TimingEvent struct {
	EventType uint8  // Event type code
	OID       uint8  // Object ID (axis index, block slot, etc.)
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtBlockPush    = 1 // MotionPlanner pushed a block into the pipeline
	EvtLookahead    = 2 // RecomputeLookahead ran a reverse+forward pass
	EvtBlockClaim   = 3 // Actuator claimed the head block (isRunning set)
	EvtTickStep     = 4 // Tick emitted a step pulse
	EvtTimerPast    = 5 // Tick loop fell behind its deadline
	EvtBlockRelease = 6 // Actuator released a completed block
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code).
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active.
	// Disabled by default for performance; DebugPrintln checks this before
	// calling the writer, so a disabled logger costs one boolean test.
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem).
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingEnabled  bool  = true // Always capture timing events

	// Async debug output channel.
	debugChan chan string

	// totalStepCounter is reported by DumpTimingRing; set via SetStepCounter
	// so core has no dependency on the motion package.
	totalStepCounter func() uint64
)

// SetDebugWriter sets the platform-specific debug output function.
// This allows platforms to redirect debug output to UART, USB, a host
// logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled.
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetStepCounter registers a callback DumpTimingRing uses to report the
// total step count. The motion package calls this at startup.
func SetStepCounter(f func() uint64) {
	totalStepCounter = f
}

// InitAsyncDebug starts the async debug output goroutine.
// Call this from main() after SetDebugWriter.
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel.
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Blocks if debug is enabled (use DebugAsync for non-blocking).
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking).
// Returns immediately even if channel is full (drops message).
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
			// Channel full, drop message (non-blocking)
		}
	}
}

// RecordTiming captures a timing event in the ring buffer.
// Always non-blocking and allocation-free; safe to call from Actuator.Tick.
func RecordTiming(eventType, oid uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		OID:       oid,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error).
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	if totalStepCounter != nil {
		debugPrintln("[TIMING] Total steps executed: " + itoa(int(totalStepCounter())))
	}

	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		idx := (start + i) % TimingRingSize
		evt := &timingRing[idx]
		if evt.EventType == 0 {
			continue // Empty slot
		}

		var name string
		switch evt.EventType {
		case EvtBlockPush:
			name = "BLOCK_PUSH"
		case EvtLookahead:
			name = "LOOKAHEAD"
		case EvtBlockClaim:
			name = "BLOCK_CLAIM"
		case EvtTickStep:
			name = "TICK_STEP"
		case EvtTimerPast:
			name = "TIMER_PAST!"
		case EvtBlockRelease:
			name = "BLOCK_RELEASE"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TIMING] " + name +
			" oid=" + itoa(int(evt.OID)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer.
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
