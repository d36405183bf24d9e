package core

// Default tick frequency for the motion actuator (~1MHz, per motion.MotionParams).
// Targets with a different hardware timer should override via SetHardwareTimerFunc
// (tinygo build) or SetTime (host build/testing).
const (
	DefaultTickFreqHz = 1000000
)

var (
	bootTime uint64 // Time recorded by TimerInit; GetUptime does not read it

	// systemTicks backs getSystemTicks/setSystemTicks on the non-tinygo
	// build (timer_go.go); the tinygo build keeps its own atomic copy
	// (timer_tinygo.go) since it may be touched from an interrupt.
	systemTicks uint32
)

// GetTime returns the current system time in ticks.
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration).
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// AdvanceTime moves the system clock forward by delta ticks and returns the
// new value. Used by host-side callers driving the actuator tick-by-tick
// without a real hardware timer.
func AdvanceTime(delta uint32) uint32 {
	next := GetTime() + delta
	SetTime(next)
	return next
}

// GetUptime returns 64-bit uptime in ticks.
func GetUptime() uint64 {
	return uint64(GetTime())
}

// TimerFromUS converts microseconds to ticks at the given tick frequency.
func TimerFromUS(us uint32, tickFreqHz uint32) uint32 {
	return (us * tickFreqHz) / 1000000
}

// TimerToUS converts ticks to microseconds at the given tick frequency.
func TimerToUS(ticks uint32, tickFreqHz uint32) uint32 {
	return (ticks * 1000000) / tickFreqHz
}

// TimerInit records the boot time. Platform-specific code may call this
// once a hardware timer is available.
func TimerInit() {
	bootTime = uint64(GetTime())
}
