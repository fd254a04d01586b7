package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/msto63/modlevel/pkg/core/modlevel"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse CONFIG",
	Short: "Shows how a configuration string is parsed",
	Long: `Parses a MODULE=LEVEL[,MODULE=LEVEL]* configuration string and prints
the resulting module levels.

Entries without "=", with an empty module or with an unknown level are
skipped. When a module appears more than once the last entry wins.

Examples:
  modlevel parse "db=debug,http=error"
  modlevel parse --json "$VMODULE"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Output as JSON object")
}

func runParse(cmd *cobra.Command, args []string) error {
	return writeParsed(cmd.OutOrStdout(), args[0], parseJSON)
}

func writeParsed(out io.Writer, config string, asJSON bool) error {
	modules := modlevel.Parse(config)

	if asJSON {
		data := make(map[string]string, len(modules))
		for module, level := range modules {
			data[module] = level.String()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	if len(modules) == 0 {
		_, err := fmt.Fprintln(out, "no module levels")
		return err
	}

	names := make([]string, 0, len(modules))
	for module := range modules {
		names = append(names, module)
	}
	sort.Strings(names)

	for _, module := range names {
		if _, err := fmt.Fprintf(out, "%-24s %s\n", module, modules[module]); err != nil {
			return err
		}
	}
	return nil
}
