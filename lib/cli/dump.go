package cli

import (
	"fmt"
	"io"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sddm/sddm-sub001/lib/confstore"
)

func (a *app) newDumpCommand() *cobra.Command {
	var state, all bool
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration",
		Long: `Print the merged configuration. By default only values that differ
from their defaults are shown; --all prints every entry, and in ini format
includes the descriptions, which makes a complete example file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.openStore(state)
			switch format {
			case "ini":
				dumpINI(cmd.OutOrStdout(), store, all)
				return nil
			case "yaml":
				return dumpYAML(cmd.OutOrStdout(), store, all)
			default:
				return oops.Errorf("unknown format %q, want ini or yaml", format)
			}
		},
	}
	cmd.Flags().BoolVar(&state, "state", false, "dump the state file instead")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include values equal to their defaults")
	cmd.Flags().StringVarP(&format, "format", "f", "ini", "output format: ini or yaml")
	return cmd
}

// shown returns the entries of sec that a dump prints.
func shown(sec *confstore.Section, all bool) []confstore.Value {
	var out []confstore.Value
	for _, e := range sec.Entries() {
		if all || !e.MatchesDefault() {
			out = append(out, e)
		}
	}
	return out
}

func dumpINI(w io.Writer, store *confstore.Store, all bool) {
	first := true
	for _, sec := range store.Sections() {
		if all {
			fmt.Fprint(w, sec.FullBlock())
			continue
		}
		entries := shown(sec, false)
		if len(entries) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintln(w, sec.ShortHeader())
		for _, e := range entries {
			fmt.Fprintln(w, e.ShortLine())
		}
	}
}

func dumpYAML(w io.Writer, store *confstore.Store, all bool) error {
	doc := make(map[string]map[string]any)
	for _, sec := range store.Sections() {
		entries := shown(sec, all)
		if len(entries) == 0 {
			continue
		}
		values := make(map[string]any, len(entries))
		for _, e := range entries {
			values[e.Name()] = yamlValue(e)
		}
		doc[sec.Name()] = values
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return oops.Wrapf(err, "encoding yaml")
	}
	return enc.Close()
}

// yamlValue keeps native YAML types for scalars and lists and falls back to
// the config text for everything else, enums included.
func yamlValue(e confstore.Value) any {
	switch v := e.Interface().(type) {
	case string, bool, int, uint, float64:
		return v
	case []string:
		if v == nil {
			return []string{}
		}
		return v
	default:
		return e.Format()
	}
}
