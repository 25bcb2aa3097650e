package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shantanuseth8203/Data-Visualization/internal/files"
)

// sourcesCmd lists the snapshots found in the data directory
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List snapshots in the data directory",
	Long: `Lists the Excel workbooks and CSV snapshot directories (holding
sales.csv and products.csv) found in the configured data directory,
oldest first.

Example:
  salespulse sources
  salespulse sources --dir exports`,
	RunE: runSources,
}

var sourcesDir string

func init() {
	rootCmd.AddCommand(sourcesCmd)

	sourcesCmd.Flags().StringVar(&sourcesDir, "dir", "", "directory to search (default from config)")
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	dir := cfg.Paths.DataDir
	if sourcesDir != "" {
		dir = sourcesDir
	}

	snapshots, err := files.NewDiscovery("").FindSnapshots(dir)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no snapshots found in %s\n", dir)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tMODIFIED\tSIZE\tPATH")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Kind, s.ModTime.Format("2006-01-02 15:04"), s.Size, s.Path)
	}
	return w.Flush()
}
