package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jward/scenemap"
	"github.com/jward/scenemap/internal/config"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "scenemap",
	Short:         "Structural relationship graph for project scenes and code",
	Long:          "Scenemap builds a deduplicated, identity-resolved graph from extracted scene and code records, lays it out deterministically, and can search or export the result.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "scenemap.toml", "configuration file path")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
}

// newEngine loads config and builds the graph from a record file.
func newEngine(recordPath string) (*scenemap.Engine, error) {
	cfg := config.Load(flagConfig)
	e := scenemap.New(scenemap.WithConfig(cfg))
	if err := e.LoadFile(recordPath); err != nil {
		return nil, err
	}
	return e, nil
}

var buildCmd = &cobra.Command{
	Use:   "build <records-file>",
	Short: "Build the graph from a record file and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

var flagExportDB string

func init() {
	buildCmd.Flags().StringVar(&flagExportDB, "export", "", "also write a SQLite snapshot to this path")
}

func runBuild(cmd *cobra.Command, args []string) error {
	e, err := newEngine(args[0])
	if err != nil {
		return err
	}

	stats := e.Stats()
	bold := color.New(color.Bold)
	bold.Printf("Graph built from %s\n", args[0])
	fmt.Printf("  nodes:   %d\n", stats.Nodes)
	fmt.Printf("  edges:   %d\n", stats.Edges)
	if stats.DroppedEdges > 0 {
		color.Yellow("  dropped: %d unresolvable relations", stats.DroppedEdges)
	}
	fmt.Printf("  build:   %s\n", stats.BuildID)

	if flagExportDB != "" {
		if err := e.Export(flagExportDB); err != nil {
			return err
		}
		fmt.Printf("Snapshot: %s\n", flagExportDB)
	}
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search <records-file> <query>",
	Short: "Build the graph and list nodes matching a query",
	Args:  cobra.ExactArgs(2),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := newEngine(args[0])
	if err != nil {
		return err
	}

	e.Filter(args[1])
	nodes, _ := e.View().Frame()

	match := color.New(color.FgGreen, color.Bold)
	count := 0
	for _, rn := range nodes {
		if !rn.Emphasis {
			continue
		}
		match.Printf("%-14s", string(rn.Node.Kind))
		fmt.Printf(" %s  (%.0f, %.0f)\n", rn.Node.DisplayName, rn.X, rn.Y)
		count++
	}
	if count == 0 {
		fmt.Printf("no nodes match %q\n", args[1])
	}
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export <records-file> <db-path>",
	Short: "Build the graph and write a SQLite snapshot",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := newEngine(args[0])
	if err != nil {
		return err
	}
	if err := e.Export(args[1]); err != nil {
		return err
	}
	stats := e.Stats()
	fmt.Printf("Exported %d nodes, %d edges to %s\n", stats.Nodes, stats.Edges, args[1])
	return nil
}
