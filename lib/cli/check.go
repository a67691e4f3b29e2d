package cli

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/sddm/sddm-sub001/lib/confstore"
	"github.com/sddm/sddm-sub001/lib/util"
)

func (a *app) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report unknown sections and variables",
		Long: `Load every layer and report sections and variables the display manager
does not know. Exits non-zero when one is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			paths := a.settings.Paths

			report := func(label, path string, ok bool) {
				status := "ok"
				if !ok {
					status = "missing"
				}
				fmt.Fprintf(out, "%-12s %s (%s)\n", label, path, status)
			}
			report("primary", paths.ConfigFile, util.CheckFileExists(a.fs, paths.ConfigFile))
			report("user dir", paths.UserDir, util.CheckDirExists(a.fs, paths.UserDir))
			report("system dir", paths.SystemDir, util.CheckDirExists(a.fs, paths.SystemDir))

			main := a.openMain()
			if !main.HasUnused() {
				fmt.Fprintln(out, "configuration ok")
				return nil
			}
			lines, err := unusedLines(main.Store)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(out, "unused:", line)
			}
			if len(lines) == 0 {
				fmt.Fprintln(out, "unused: entries in overlay fragments")
			}
			return oops.Errorf("configuration has %d unused line(s)", len(lines))
		},
	}
}

// unusedLines lists the lines of the primary file a save would mark as
// unused, along with the quarantined section headers.
func unusedLines(store *confstore.Store) ([]string, error) {
	content, _, err := store.Render(confstore.Scope{})
	if err != nil {
		return nil, err
	}

	var out []string
	quarantined := false
	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == confstore.UnusedSectionsBanner:
			quarantined = true
		case strings.HasSuffix(line, confstore.UnusedVariableComment):
			out = append(out, strings.TrimSpace(strings.TrimSuffix(line, confstore.UnusedVariableComment)))
		case quarantined && strings.HasPrefix(line, "["):
			out = append(out, line)
		}
	}
	return out, nil
}
