package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/comon-ext/comon/internal/comguid"
	"github.com/comon-ext/comon/internal/cometa"
	"github.com/comon-ext/comon/internal/comon"
)

// writeStatus prints the monitor state and the recorded vtables
// grouped by class, classes in byte order, vtables in observation
// order. Unresolvable names print as N/A, matching the display the
// metadata-less case deserves.
func writeStatus(w io.Writer, monitor *comon.Monitor, meta cometa.Resolver) error {
	state := "RUNNING"
	if monitor.IsPaused() {
		state = "PAUSED"
	}
	if _, err := fmt.Fprintf(w, "COM monitor is %s\n", state); err != nil {
		return err
	}

	grouped := monitor.ListCoTypes()
	if len(grouped) == 0 {
		_, err := fmt.Fprintln(w, "No COM types recorded for the current target.")
		return err
	}

	clsids := make([]comguid.CLSID, 0, len(grouped))
	for clsid := range grouped {
		clsids = append(clsids, clsid)
	}
	sort.Slice(clsids, func(i, j int) bool { return clsids[i].Compare(clsids[j]) < 0 })

	fmt.Fprintln(w, "COM types recorded for the current target:")
	for _, clsid := range clsids {
		fmt.Fprintf(w, "CLSID: %s (%s)\n", clsid, nameOr(meta.ResolveClassName(clsid)))
		for _, binding := range grouped[clsid] {
			fmt.Fprintf(w, "  IID: %s (%s), address: %#x\n",
				binding.IID, nameOr(meta.ResolveTypeName(binding.IID)), binding.Address)
		}
	}
	return nil
}

func writeBreakpoints(w io.Writer, bps []comon.Breakpoint) error {
	if len(bps) == 0 {
		_, err := fmt.Fprintln(w, "No breakpoints set.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDRESS\tDESCRIPTION")
	for _, bp := range bps {
		fmt.Fprintf(tw, "%d\t%#x\t%s\n", bp.ID, bp.Address, bp.Description)
	}
	return tw.Flush()
}

func writeType(w io.Writer, cotype cometa.CoType) error {
	if _, err := fmt.Fprintf(w, "Found: %s (%s)\n", cotype.IID, cotype.Name); err != nil {
		return err
	}
	if len(cotype.Methods) == 0 {
		_, err := fmt.Fprintln(w, "No information about the interface methods.")
		return err
	}

	fmt.Fprintln(w, "Methods:")
	for i, method := range cotype.Methods {
		fmt.Fprintf(w, "- [%d] %s\n", i, method)
	}
	return nil
}

func nameOr(name string, ok bool) string {
	if !ok {
		return "N/A"
	}
	return name
}
