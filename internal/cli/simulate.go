package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/comon-ext/comon/internal/comguid"
	"github.com/comon-ext/comon/internal/comon"
	"github.com/comon-ext/comon/internal/dbgeng"
)

// scenario is the yaml shape driving one sandbox run: the debuggee's
// module map, the attach filter tokens, and the event/command steps to
// replay against the engine.
type scenario struct {
	Modules []struct {
		Name string `yaml:"name"`
		Base uint64 `yaml:"base"`
		Size uint64 `yaml:"size"`
		Bits int    `yaml:"bits"`
	} `yaml:"modules"`
	Filter []string       `yaml:"filter"`
	Steps  []scenarioStep `yaml:"steps"`
}

type scenarioStep struct {
	// Op is one of register, pause, resume, breakpoint, remove, status.
	Op      string `yaml:"op"`
	CLSID   string `yaml:"clsid,omitempty"`
	IID     string `yaml:"iid,omitempty"`
	Address uint64 `yaml:"address,omitempty"`
	Bits    int    `yaml:"bits,omitempty"`
	Method  string `yaml:"method,omitempty"`
	ID      uint32 `yaml:"id,omitempty"`
}

func (c *CLI) newSimulateCmd() *cobra.Command {
	var filterTokens []string

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Replay a scenario of COM object events against the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}

			tokens := filterTokens
			if len(tokens) == 0 {
				tokens = sc.Filter
			}
			if len(tokens) == 0 {
				tokens = c.cfg.Filter
			}

			return c.runScenario(sc, comon.ParseFilter(tokens))
		},
	}
	cmd.Flags().StringSliceVar(&filterTokens, "filter", nil,
		"Filter tokens overriding the scenario's (CLSIDs plus -i or -e)")
	return cmd
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

func (c *CLI) runScenario(sc *scenario, filter comon.Filter) error {
	modules := make([]dbgeng.ModuleInfo, 0, len(sc.Modules))
	for _, m := range sc.Modules {
		modules = append(modules, dbgeng.ModuleInfo{
			Name:    m.Name,
			Base:    m.Base,
			Size:    m.Size,
			Is64Bit: m.Bits != 32,
		})
	}
	sim := dbgeng.NewSimulator(modules...)

	session := comon.NewSession(c.logger, sim, c.store)
	defer session.Close()

	if err := session.Attach(filter); err != nil {
		return err
	}
	monitor, err := session.Monitor()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "COM monitor enabled, filter: %s\n", filter)

	for i, step := range sc.Steps {
		if err := c.runStep(monitor, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}

	fmt.Fprintln(c.out)
	if err := writeStatus(c.out, monitor, c.store); err != nil {
		return err
	}
	fmt.Fprintln(c.out)
	return writeBreakpoints(c.out, monitor.ListBreakpoints())
}

func (c *CLI) runStep(monitor *comon.Monitor, step scenarioStep) error {
	switch step.Op {
	case "register":
		clsid, iid, err := parsePair(step.CLSID, step.IID)
		if err != nil {
			return err
		}
		return monitor.RegisterVtable(clsid, iid, step.Address, step.Bits != 32)

	case "pause":
		monitor.Pause()
		return nil

	case "resume":
		monitor.Resume()
		return nil

	case "breakpoint":
		clsid, iid, err := parsePair(step.CLSID, step.IID)
		if err != nil {
			return err
		}
		bp, err := monitor.CreateBreakpoint(clsid, iid, comon.ParseMethodSelector(step.Method))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "breakpoint %d at %#x: %s\n", bp.ID, bp.Address, bp.Description)
		return nil

	case "remove":
		return monitor.RemoveBreakpoint(step.ID)

	case "status":
		return writeStatus(c.out, monitor, c.store)

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func parsePair(clsidText, iidText string) (comguid.CLSID, comguid.IID, error) {
	clsid, err := comguid.ParseCLSID(clsidText)
	if err != nil {
		return comguid.CLSID{}, comguid.IID{}, err
	}
	iid, err := comguid.ParseIID(iidText)
	if err != nil {
		return comguid.CLSID{}, comguid.IID{}, err
	}
	return clsid, iid, nil
}
