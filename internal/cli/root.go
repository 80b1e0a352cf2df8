// Package cli implements the comon command line: a sandbox driver for
// the interception engine and an inspector for recorded COM metadata.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comon-ext/comon/internal/cometa"
	"github.com/comon-ext/comon/internal/config"
	"github.com/comon-ext/comon/internal/logging"
)

// CLI carries the state shared by all subcommands: config, logger and
// the metadata store.
type CLI struct {
	cfgPath string
	cfg     *config.Config
	logger  zerolog.Logger
	store   *cometa.Store
	out     io.Writer
}

// Execute runs the root command against os.Stdout.
func Execute() error {
	return NewRootCmd(os.Stdout).Execute()
}

// NewRootCmd builds the comon command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	c := &CLI{out: out}

	root := &cobra.Command{
		Use:           "comon",
		Short:         "COM-call interception sandbox and metadata inspector",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "Path to a yaml config file")

	root.AddCommand(c.newSimulateCmd())
	root.AddCommand(c.newInspectCmd())
	return root
}

func (c *CLI) init() error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	c.store = cometa.NewStore(c.logger)

	if cfg.Metadata != "" {
		if err := c.store.LoadFile(cfg.Metadata); err != nil {
			return fmt.Errorf("load metadata seed: %w", err)
		}
	}
	return nil
}
