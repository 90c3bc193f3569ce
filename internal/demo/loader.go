package demo

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that implements YAML unmarshaling
// from human-readable strings like "500ms", "2s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// scenarioFile is the YAML form of a Scenario. Each step sets exactly one
// action key:
//
//	steps:
//	  - attach: {name: sales.xlsx, size: 48213}
//	  - type: "Which region grew fastest?"
//	  - key: enter
//	  - wait: 1s
//	  - reply: "The West region grew 18%."
type scenarioFile struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	Setup       *setupFile `yaml:"setup"`
	Steps       []stepFile `yaml:"steps"`
}

type setupFile struct {
	Greeting string    `yaml:"greeting"`
	Focus    string    `yaml:"focus"`
	File     *FileSpec `yaml:"file"`
}

type stepFile struct {
	Description string `yaml:"description"`

	Wait     *Duration `yaml:"wait"`
	Key      *string   `yaml:"key"`
	Type     *string   `yaml:"type"`
	Reply    *string   `yaml:"reply"`
	Fail     *string   `yaml:"fail"`
	Attach   *FileSpec `yaml:"attach"`
	Drop     *FileSpec `yaml:"drop"`
	Capture  bool      `yaml:"capture"`
	Annotate *string   `yaml:"annotate"`
}

func (f stepFile) toStep() (Step, error) {
	var steps []Step
	if f.Wait != nil {
		steps = append(steps, Wait(f.Wait.Duration))
	}
	if f.Key != nil {
		steps = append(steps, Key(*f.Key))
	}
	if f.Type != nil {
		steps = append(steps, Type(*f.Type))
	}
	if f.Reply != nil {
		steps = append(steps, Reply(*f.Reply))
	}
	if f.Fail != nil {
		steps = append(steps, Fail(*f.Fail))
	}
	if f.Attach != nil {
		steps = append(steps, Attach(withDefaultMIME(*f.Attach)))
	}
	if f.Drop != nil {
		steps = append(steps, Drop(withDefaultMIME(*f.Drop)))
	}
	if f.Capture {
		steps = append(steps, Capture())
	}
	if f.Annotate != nil {
		steps = append(steps, Annotate(*f.Annotate))
	}

	if len(steps) != 1 {
		return Step{}, fmt.Errorf("each step needs exactly one action, got %d", len(steps))
	}
	step := steps[0]
	step.Description = f.Description
	return step, nil
}

// withDefaultMIME fills in the MIME type a browser would report for an
// Excel file name, so YAML scenarios only need a name.
func withDefaultMIME(f FileSpec) FileSpec {
	if f.MIMEType == "" {
		f.MIMEType = mimeForName(f.Name)
	}
	return f
}

// ParseScenario parses a YAML scenario and validates it.
func ParseScenario(data []byte) (*Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	s := &Scenario{
		Name:        f.Name,
		Description: f.Description,
		Width:       f.Width,
		Height:      f.Height,
	}
	if f.Setup != nil {
		s.Setup = &ScenarioSetup{Greeting: f.Setup.Greeting, Focus: f.Setup.Focus}
		if f.Setup.File != nil {
			file := withDefaultMIME(*f.Setup.File)
			s.Setup.File = &file
		}
	}
	for i, sf := range f.Steps {
		step, err := sf.toStep()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		s.Steps = append(s.Steps, step)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(data)
}
