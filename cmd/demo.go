package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/sheetchat/internal/demo"
	"github.com/zhubert/sheetchat/internal/demo/scenarios"
	"github.com/zhubert/sheetchat/internal/logger"
)

var (
	demoOutput     string
	demoFile       string
	demoWidth      int
	demoHeight     int
	demoCaptureAll bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate demo recordings of sheetchat",
	Long: `Generate demo recordings of sheetchat for documentation and presentations.
Scenarios drive the real app with a scripted provider, so no API key is needed.

Available subcommands:
  list      - List available demo scenarios
  run       - Run a scenario and print its frames (for testing)
  cast      - Generate an asciinema cast file`,
}

var demoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available demo scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Available demo scenarios:")
		fmt.Fprintln(w)
		for _, s := range scenarios.All() {
			fmt.Fprintf(w, "  %-15s %s\n", s.Name, s.Description)
		}
	},
}

var demoRunCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Run a scenario and print its frames (for testing)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDemoRun,
}

var demoCastCmd = &cobra.Command{
	Use:   "cast [scenario]",
	Short: "Generate an asciinema cast file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDemoCast,
}

func init() {
	// Add flags to subcommands that need them
	for _, cmd := range []*cobra.Command{demoRunCmd, demoCastCmd} {
		cmd.Flags().StringVarP(&demoOutput, "output", "o", "", "Output file")
		cmd.Flags().StringVar(&demoFile, "file", "", "Load the scenario from a YAML file instead of the built-ins")
		cmd.Flags().IntVarP(&demoWidth, "width", "w", 0, "Terminal width (default: the scenario's)")
		cmd.Flags().IntVarP(&demoHeight, "height", "H", 0, "Terminal height (default: the scenario's)")
		cmd.Flags().BoolVar(&demoCaptureAll, "capture-all", false, "Capture frame after every step (for debugging)")
	}

	demoCmd.AddCommand(demoListCmd)
	demoCmd.AddCommand(demoRunCmd)
	demoCmd.AddCommand(demoCastCmd)
	rootCmd.AddCommand(demoCmd)
}

// getScenario resolves the scenario named in args, or the --file scenario.
func getScenario(args []string) (*demo.Scenario, error) {
	var scenario *demo.Scenario
	switch {
	case demoFile != "" && len(args) > 0:
		return nil, fmt.Errorf("give a scenario name or --file, not both")
	case demoFile != "":
		s, err := demo.LoadScenario(demoFile)
		if err != nil {
			return nil, err
		}
		scenario = s
	case len(args) == 1:
		scenario = scenarios.Get(args[0])
		if scenario == nil {
			return nil, fmt.Errorf("unknown scenario %q\nRun 'sheetchat demo list' to see available scenarios", args[0])
		}
	default:
		return nil, fmt.Errorf("a scenario name or --file is required")
	}

	// Override dimensions if specified
	if demoWidth > 0 {
		scenario.Width = demoWidth
	}
	if demoHeight > 0 {
		scenario.Height = demoHeight
	}

	return scenario, nil
}

func executeScenario(scenario *demo.Scenario) ([]demo.Frame, error) {
	// Keep demo logs apart from the TUI's
	if err := logger.Init(logger.DemoLogPath(scenario.Name)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	execCfg := demo.DefaultExecutorConfig()
	execCfg.CaptureEveryStep = demoCaptureAll

	executor := demo.NewExecutor(execCfg)
	return executor.Run(scenario)
}

// outputWriter returns the --output file, or w when none was given.
func outputWriter(w io.Writer, defaultName string) (io.Writer, func() error, error) {
	name := demoOutput
	if name == "" && defaultName == "" {
		return w, func() error { return nil }, nil
	}
	if name == "" {
		name = defaultName
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}

func runDemoRun(cmd *cobra.Command, args []string) error {
	scenario, err := getScenario(args)
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario)
	if err != nil {
		return fmt.Errorf("error running scenario: %w", err)
	}

	w, closeOut, err := outputWriter(cmd.OutOrStdout(), "")
	if err != nil {
		return err
	}
	defer closeOut()

	writeFrames(w, frames)
	return nil
}

// writeFrames prints frames as plain text, one header per frame.
func writeFrames(w io.Writer, frames []demo.Frame) {
	fmt.Fprintf(w, "Captured %d frames\n", len(frames))
	for i, f := range frames {
		fmt.Fprintf(w, "\n=== Frame %d (delay: %v) ===\n", i, f.Delay)
		if f.Annotation != "" {
			fmt.Fprintf(w, "Annotation: %s\n", f.Annotation)
		}
		fmt.Fprintln(w, f.Content)
	}
}

func runDemoCast(cmd *cobra.Command, args []string) error {
	scenario, err := getScenario(args)
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario)
	if err != nil {
		return fmt.Errorf("error running scenario: %w", err)
	}

	outputFile := demoOutput
	if outputFile == "" {
		outputFile = scenario.Name + ".cast"
	}
	w, closeOut, err := outputWriter(cmd.OutOrStdout(), outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := demo.GenerateASCIICast(w, frames, scenario.Width, scenario.Height); err != nil {
		return fmt.Errorf("error generating cast file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d frames)\n", outputFile, len(frames))
	fmt.Fprintf(cmd.OutOrStdout(), "Play with: asciinema play %s\n", outputFile)
	return nil
}
