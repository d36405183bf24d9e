package motion

import "stepcore/core"

// AxisOutputs is the actuator's hardware capability: raise a step pulse,
// lower it again, and set a direction line per axis. Pin resolution and
// pulse-width timing are the implementation's concern; the actuator only
// calls these three methods from its tick loop, which must never allocate
// or block.
type AxisOutputs interface {
	Step(axis int)
	Unstep(axis int)
	SetDirection(axis int, reverse bool)
}

// GPIOAxisOutputs drives real step/dir pins through a core.GPIODriver.
// Grounded on gopper's standalone/stepgen.Stepper pin handling, generalized
// from per-stepper fields to a per-axis pin table.
type GPIOAxisOutputs struct {
	driver   core.GPIODriver
	stepPins [NumAxes]core.GPIOPin
	dirPins  [NumAxes]core.GPIOPin
	invert   [NumAxes]bool
	has      [NumAxes]bool
}

// NewGPIOAxisOutputs configures step/dir pins for every axis named in axes
// that carries a non-empty StepPinName. Pin name resolution is left to the
// caller-supplied lookup (mirrors gopper's core.LookupPin, which is a
// board-specific table this package does not own).
func NewGPIOAxisOutputs(driver core.GPIODriver, axes [NumAxes]AxisParams, lookup func(name string) (core.GPIOPin, error)) (*GPIOAxisOutputs, error) {
	o := &GPIOAxisOutputs{driver: driver}
	for i, a := range axes {
		if a.StepPinName == "" {
			continue
		}
		stepPin, err := lookup(a.StepPinName)
		if err != nil {
			return nil, err
		}
		dirPin, err := lookup(a.DirPinName)
		if err != nil {
			return nil, err
		}
		if err := driver.ConfigureOutput(stepPin); err != nil {
			return nil, err
		}
		if err := driver.ConfigureOutput(dirPin); err != nil {
			return nil, err
		}
		o.stepPins[i] = stepPin
		o.dirPins[i] = dirPin
		o.invert[i] = a.InvertDir
		o.has[i] = true
	}
	return o, nil
}

// Step raises the step pin for axis. The actuator is responsible for
// scheduling the falling edge; this call never blocks.
func (o *GPIOAxisOutputs) Step(axis int) {
	if !o.has[axis] {
		return
	}
	_ = o.driver.SetPin(o.stepPins[axis], true)
}

// Unstep lowers the step pin for axis (the trailing edge of the pulse).
func (o *GPIOAxisOutputs) Unstep(axis int) {
	if !o.has[axis] {
		return
	}
	_ = o.driver.SetPin(o.stepPins[axis], false)
}

// SetDirection sets the direction pin for axis, honoring InvertDir.
func (o *GPIOAxisOutputs) SetDirection(axis int, reverse bool) {
	if !o.has[axis] {
		return
	}
	value := reverse
	if o.invert[axis] {
		value = !value
	}
	_ = o.driver.SetPin(o.dirPins[axis], value)
}

// BackendAxisOutputs drives step/dir through a per-axis
// core.StepperBackend instead of raw GPIO pins — for boards whose
// StepperBackend implementation (e.g. a PIO program) generates the pulse
// width itself and so needs no Unstep call. Grounded on core/stepper_hal.go,
// which gopper defined as a hardware-abstraction seam but never wired to a
// concrete caller.
type BackendAxisOutputs struct {
	backends [NumAxes]core.StepperBackend
	has      [NumAxes]bool
}

// NewBackendAxisOutputs configures one StepperBackend per axis that has
// pin names set, using newBackend to construct the concrete backend and
// resolve pin numbers (PIO, bit-banged GPIO, etc. are the caller's choice).
func NewBackendAxisOutputs(axes [NumAxes]AxisParams, newBackend func(AxisParams) (core.StepperBackend, error)) (*BackendAxisOutputs, error) {
	o := &BackendAxisOutputs{}
	for i, a := range axes {
		if a.StepPinName == "" {
			continue
		}
		backend, err := newBackend(a)
		if err != nil {
			return nil, err
		}
		o.backends[i] = backend
		o.has[i] = true
	}
	return o, nil
}

// Step asks axis's backend to generate one pulse; pulse-width timing is the
// backend's responsibility.
func (o *BackendAxisOutputs) Step(axis int) {
	if o.has[axis] {
		o.backends[axis].Step()
	}
}

// Unstep is a no-op: a StepperBackend owns its own pulse width.
func (o *BackendAxisOutputs) Unstep(axis int) {}

// SetDirection forwards to the backend.
func (o *BackendAxisOutputs) SetDirection(axis int, reverse bool) {
	if o.has[axis] {
		o.backends[axis].SetDirection(reverse)
	}
}

// Stop halts every configured backend immediately (emergency-stop path).
func (o *BackendAxisOutputs) Stop() {
	for i, has := range o.has {
		if has {
			o.backends[i].Stop()
		}
	}
}

// RecordingAxisOutputs is an in-memory AxisOutputs used by tests and by the
// stepcore simulate command: it counts pulses and latches direction instead
// of touching real pins.
type RecordingAxisOutputs struct {
	StepCounts [NumAxes]uint64
	Reversed   [NumAxes]bool
}

// Step increments the pulse count for axis.
func (o *RecordingAxisOutputs) Step(axis int) {
	o.StepCounts[axis]++
}

// Unstep is a no-op; RecordingAxisOutputs only cares about pulse counts.
func (o *RecordingAxisOutputs) Unstep(axis int) {}

// SetDirection latches the requested direction for axis.
func (o *RecordingAxisOutputs) SetDirection(axis int, reverse bool) {
	o.Reversed[axis] = reverse
}
