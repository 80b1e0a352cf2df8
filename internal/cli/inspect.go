package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comon-ext/comon/internal/comguid"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect recorded COM metadata",
	}
	cmd.AddCommand(c.newInspectTypeCmd())
	cmd.AddCommand(c.newInspectClassCmd())
	return cmd
}

func (c *CLI) newInspectTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type <iid>",
		Short: "Show an interface's name and vtable method list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iid, err := comguid.ParseIID(args[0])
			if err != nil {
				return err
			}

			cotype, ok := c.store.ResolveType(iid)
			if !ok {
				fmt.Fprintf(c.out, "No details on IID %s in the metadata.\n", iid)
				return nil
			}
			return writeType(c.out, cotype)
		},
	}
}

func (c *CLI) newInspectClassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "class <clsid>",
		Short: "Show a class's display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clsid, err := comguid.ParseCLSID(args[0])
			if err != nil {
				return err
			}

			class, ok := c.store.ResolveClass(clsid)
			if !ok {
				fmt.Fprintf(c.out, "No details on CLSID %s in the metadata.\n", clsid)
				return nil
			}
			fmt.Fprintf(c.out, "Found: %s (%s)\n", class.CLSID, class.Name)
			return nil
		},
	}
}
