// Command stepcore demonstrates the motion pipeline end to end: feed it
// G-code and it reports the step pulses each axis would have emitted.
// Grounded on inference-sim's cobra/logrus CLI idiom — this repository's
// demo entrypoint, not a firmware image.
package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stepcore/core"
	"stepcore/gcodedemo"
	"stepcore/motion"
)

var (
	logLevel   string
	configPath string
)

const defaultProgram = "G0 X100 Y0\nG1 X100 Y100 F3000\nG0 X0 Y0\n"

var rootCmd = &cobra.Command{
	Use:   "stepcore",
	Short: "Look-ahead motion pipeline and step-generation core demo",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [FILE.gcode]",
	Short: "Run a G-code program through the planner and actuator and report step counts",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSimulate,
}

var describeCmd = &cobra.Command{
	Use:   "describe-config [FILE.json]",
	Short: "Load (or default) a machine configuration and print its effective axis parameters",
	Args:  cobra.MaximumNArgs(1),
	Run:   runDescribe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	simulateCmd.Flags().StringVar(&configPath, "config", "", "Machine configuration JSON file (defaults to the built-in Cartesian config)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(describeCmd)
}

func main() {
	Execute()
}

// loadConfig returns the machine config named by path, or the default
// Cartesian config if path is empty.
func loadConfig(path string) *motion.MachineConfig {
	if path == "" {
		return motion.DefaultCartesianMachineConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("reading config %s: %v", path, err)
	}
	cfg, err := motion.LoadMachineConfig(data)
	if err != nil {
		logrus.Fatalf("parsing config %s: %v", path, err)
	}
	return cfg
}

func runSimulate(cmd *cobra.Command, args []string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
	core.SetDebugWriter(func(s string) { logrus.Debug(s) })

	cfg := loadConfig(configPath)
	kin, err := motion.NewCartesian(cfg.Axes)
	if err != nil {
		logrus.Fatalf("building kinematics: %v", err)
	}

	pipeline := motion.NewMotionPipeline(cfg.PipelineDepth, cfg.Params)
	planner := motion.NewMotionPlanner(kin, pipeline, cfg.Params, cfg.Axes)
	outputs := &motion.RecordingAxisOutputs{}
	actuator := motion.NewMotionActuator(pipeline, outputs, cfg.Params)
	interp := gcodedemo.NewInterpreter(planner, 50.0)

	program := defaultProgram
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			logrus.Fatalf("reading program %s: %v", args[0], err)
		}
		program = string(data)
	}

	parser := gcodedemo.NewParser()
	scanner := bufio.NewScanner(strings.NewReader(program))
	for scanner.Scan() {
		line := scanner.Text()
		parsed, err := parser.ParseLine(line)
		if err != nil {
			logrus.Warnf("parse error on %q: %v", line, err)
			continue
		}
		if parsed == nil {
			continue
		}
		if err := interp.Execute(parsed); err != nil {
			logrus.Warnf("executing %q: %v", line, err)
		}
	}

	const maxTicks = 50_000_000
	ticks := 0
	for !planner.IsIdle() && ticks < maxTicks {
		core.CriticalSection(actuator.Tick)
		core.AdvanceTime(1) // no hardware timer on the host build; the tick loop is the clock
		ticks++
	}

	logrus.Infof("ran %d ticks", ticks)
	for i := 0; i < motion.NumAxes; i++ {
		logrus.Infof("axis %d: %d steps", i, outputs.StepCounts[i])
	}
	core.DumpTimingRing()
}

func runDescribe(cmd *cobra.Command, args []string) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	cfg := loadConfig(path)

	logrus.Infof("kinematics: %s", cfg.Kinematics)
	for i, a := range cfg.Axes {
		logrus.Infof("axis %d (%s): stepsPerUnit=%.1f maxSpeed=%.1f maxAccel=%.1f range=[%.1f,%.1f]",
			i, a.Name, a.StepsPerUnit, a.MaxSpeed, a.MaxAccel, a.MinVal, a.MaxVal)
	}
	logrus.Infof("tick freq: %d Hz, pipeline depth: %d", cfg.Params.TickFreqHz, cfg.PipelineDepth)
}
