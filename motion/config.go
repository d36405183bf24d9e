package motion

import "encoding/json"

// axisName maps the fixed axis indices to the config keys gopper's JSON
// format already uses ("x", "y", "z", "e").
var axisName = [NumAxes]string{"x", "y", "z", "e"}

// axisJSON mirrors gopper's standalone.AxisConfig field-for-field; kept as
// its own type (rather than reusing AxisParams directly) so the wire format
// stays stable even if AxisParams grows fields the config file shouldn't
// carry.
type axisJSON struct {
	StepPin      string  `json:"step_pin"`
	DirPin       string  `json:"dir_pin"`
	EnablePin    string  `json:"enable_pin"`
	StepsPerMM   float64 `json:"steps_per_mm"`
	MaxVelocity  float64 `json:"max_velocity"`
	MaxAccel     float64 `json:"max_accel"`
	MinPosition  float64 `json:"min_position"`
	MaxPosition  float64 `json:"max_position"`
	InvertDir    bool    `json:"invert_dir"`
	InvertEnable bool    `json:"invert_enable"`
}

// machineConfigJSON is the on-disk shape LoadMachineConfig parses. Grounded
// on gopper's standalone/config.LoadConfig / standalone.MachineConfig,
// narrowed to what the motion package actually consumes (kinematics choice,
// per-axis params, global tick/accel defaults).
type machineConfigJSON struct {
	Kinematics string              `json:"kinematics"`
	Axes       map[string]axisJSON `json:"axes"`

	DefaultVelocity float64 `json:"default_velocity"`
	DefaultAccel    float64 `json:"default_accel"`
	TickFreqHz      uint32  `json:"tick_freq_hz"`
	PipelineDepth   int     `json:"pipeline_depth"`
}

// MachineConfig is the parsed, defaulted configuration: per-axis parameters
// plus the global motion parameters shared by every block.
type MachineConfig struct {
	Kinematics    string
	Axes          [NumAxes]AxisParams
	Params        MotionParams
	PipelineDepth int
}

// LoadMachineConfig parses JSON configuration bytes and applies gopper-style
// defaults for anything left unset.
func LoadMachineConfig(data []byte) (*MachineConfig, error) {
	var raw machineConfigJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrConfigInvalid
	}
	applyConfigDefaults(&raw)

	cfg := &MachineConfig{
		Kinematics:    raw.Kinematics,
		PipelineDepth: raw.PipelineDepth,
		Params: MotionParams{
			MaxAccel:          raw.DefaultAccel,
			TickFreqHz:        raw.TickFreqHz,
			MinStepIntervalNS: 2,
			MaxStepIntervalNS: 1_000_000_000,
		},
	}

	masterStepsPerUnit := 0.0
	for i, name := range axisName {
		a, ok := raw.Axes[name]
		if !ok {
			return nil, ErrConfigInvalid
		}
		cfg.Axes[i] = AxisParams{
			Name:          name,
			StepPinName:   a.StepPin,
			DirPinName:    a.DirPin,
			EnablePinName: a.EnablePin,
			StepsPerUnit:  a.StepsPerMM,
			MaxSpeed:      a.MaxVelocity,
			MaxAccel:      a.MaxAccel,
			MinVal:        a.MinPosition,
			MaxVal:        a.MaxPosition,
			InvertDir:     a.InvertDir,
			InvertEnable:  a.InvertEnable,
		}
		if name == "x" {
			masterStepsPerUnit = a.StepsPerMM
		}
	}
	if masterStepsPerUnit > 0 {
		cfg.Params.StepDistance = 1.0 / masterStepsPerUnit
	}

	return cfg, nil
}

func applyConfigDefaults(c *machineConfigJSON) {
	if c.Kinematics == "" {
		c.Kinematics = "cartesian"
	}
	if c.DefaultVelocity == 0 {
		c.DefaultVelocity = 50.0
	}
	if c.DefaultAccel == 0 {
		c.DefaultAccel = 500.0
	}
	if c.TickFreqHz == 0 {
		c.TickFreqHz = DefaultTickFreqHz
	}
	if c.PipelineDepth == 0 {
		c.PipelineDepth = 32
	}
	if c.Axes == nil {
		c.Axes = make(map[string]axisJSON)
	}
	for name, axis := range c.Axes {
		if axis.MaxVelocity == 0 {
			axis.MaxVelocity = c.DefaultVelocity
		}
		if axis.MaxAccel == 0 {
			axis.MaxAccel = c.DefaultAccel
		}
		if axis.StepsPerMM == 0 {
			axis.StepsPerMM = 80.0
		}
		c.Axes[name] = axis
	}
}

// DefaultTickFreqHz mirrors core.DefaultTickFreqHz without importing core
// from the config path (config is pure data, no hardware dependency).
const DefaultTickFreqHz = 1_000_000

// DefaultCartesianMachineConfig returns a ready-to-use configuration for a
// small Cartesian printer, matching gopper's
// config.DefaultCartesianConfig dimensions.
func DefaultCartesianMachineConfig() *MachineConfig {
	cfg := &MachineConfig{
		Kinematics:    "cartesian",
		PipelineDepth: 32,
		Params: MotionParams{
			MaxAccel:          3000.0,
			StepDistance:      1.0 / 80.0,
			MinStepIntervalNS: 2,
			MaxStepIntervalNS: 1_000_000_000,
			TickFreqHz:        DefaultTickFreqHz,
		},
	}
	cfg.Axes[AxisX] = AxisParams{Name: "x", StepPinName: "gpio0", DirPinName: "gpio1", EnablePinName: "gpio8", StepsPerUnit: 80, MaxSpeed: 300, MaxAccel: 3000, MinVal: 0, MaxVal: 220}
	cfg.Axes[AxisY] = AxisParams{Name: "y", StepPinName: "gpio2", DirPinName: "gpio3", EnablePinName: "gpio8", StepsPerUnit: 80, MaxSpeed: 300, MaxAccel: 3000, MinVal: 0, MaxVal: 220}
	cfg.Axes[AxisZ] = AxisParams{Name: "z", StepPinName: "gpio4", DirPinName: "gpio5", EnablePinName: "gpio8", StepsPerUnit: 400, MaxSpeed: 10, MaxAccel: 100, MinVal: 0, MaxVal: 250}
	cfg.Axes[AxisE] = AxisParams{Name: "e", StepPinName: "gpio6", DirPinName: "gpio7", EnablePinName: "gpio8", StepsPerUnit: 96, MaxSpeed: 50, MaxAccel: 5000, MinVal: -10000, MaxVal: 10000}
	return cfg
}
