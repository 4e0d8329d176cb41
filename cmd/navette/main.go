package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/coolbeans/navette/pkg/batch"
	"github.com/coolbeans/navette/pkg/catalogue"
	"github.com/coolbeans/navette/pkg/fetch"
	"github.com/coolbeans/navette/pkg/page"
	"github.com/coolbeans/navette/pkg/reference"
	"github.com/coolbeans/navette/pkg/texte"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "navette",
		Short: "French legislative bill text extractor",
		Long: `Navette turns the published HTML of French legislative bills
(Assemblée nationale and Sénat) into structured NDJSON records.

It extracts:
  - Bill metadata (identifier, chamber, title, source URL)
  - The section hierarchy (titres, chapitres, sections)
  - Article texts split into numbered alineas, with amendment status
  - Failure notices when a reading adopted no text`,
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(catalogueCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var order int
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "parse [url-or-file]",
		Short: "Parse one bill text to NDJSON on stdout",
		Long: `Parse a single bill text and write its records as NDJSON to stdout.

The argument is either a bill URL or the path of a previously fetched
page whose name embeds the URL.

Example:
  navette parse http://www.senat.fr/leg/pjl06-042.html
  navette parse cache/http%3A%2F%2Fwww.senat.fr%2Fleg%2Fpjl06-042.html --order 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := reference.Resolve(args[0], order)
			if err != nil {
				return err
			}

			var body []byte
			if _, statErr := os.Stat(args[0]); statErr == nil {
				body, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", args[0], err)
				}
			} else {
				config := fetch.DefaultConfig()
				config.CacheDir = cacheDir
				client, err := fetch.NewClient(config)
				if err != nil {
					return err
				}
				body, err = client.Get(ref.Source)
				if err != nil {
					return err
				}
			}

			doc, err := page.Parse(bytes.NewReader(body))
			if err != nil {
				return err
			}

			input := texte.Input{
				Source: ref.Source,
				Titre:  doc.Title,
				ID:     ref.ID,
				Numero: ref.Numero,
			}
			return texte.NewParser().Parse(input, doc.Blocks, texte.NewJSONEmitter(os.Stdout))
		},
	}

	cmd.Flags().IntVar(&order, "order", -1, "position of this text in an ordered series (prefixes the ID)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache fetched pages in this directory")

	return cmd
}

func batchCmd() *cobra.Command {
	var configPath string
	var urlsFile string
	var catalogueDir string
	var cacheDir string
	var ordered bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Fetch, parse and catalogue a list of bill URLs",
		Long: `Process a list of bill URLs: each is fetched, parsed and filed in the
catalogue. Documents already catalogued are skipped, so an interrupted
run can simply be restarted.

Example:
  navette batch --urls bills.txt --catalogue ./catalogue
  navette batch --config batch.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := batch.DefaultConfig()
			if configPath != "" {
				loaded, err := batch.LoadConfig(configPath)
				if err != nil {
					return err
				}
				config = loaded
			}
			if urlsFile != "" {
				config.URLsFile = urlsFile
			}
			if catalogueDir != "" {
				config.CatalogueDir = catalogueDir
			}
			if cacheDir != "" {
				config.CacheDir = cacheDir
			}
			if cmd.Flags().Changed("ordered") {
				config.Ordered = ordered
			}

			if config.URLsFile == "" {
				return fmt.Errorf("no URL list: pass --urls or set urls_file in the config")
			}

			urls, err := batch.ReadURLList(config.URLsFile)
			if err != nil {
				return err
			}

			runner, err := batch.NewRunner(config)
			if err != nil {
				return err
			}

			report := runner.Run(urls)
			report.PrintSummary(os.Stdout)

			if report.Failed > 0 {
				return fmt.Errorf("%d document(s) failed", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&urlsFile, "urls", "", "text file with one bill URL per line")
	cmd.Flags().StringVar(&catalogueDir, "catalogue", "", "catalogue directory (default \"catalogue\")")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache fetched pages in this directory")
	cmd.Flags().BoolVar(&ordered, "ordered", false, "prefix document IDs with their position in the list")

	return cmd
}

// openCatalogue opens an existing catalogue without creating one.
func openCatalogue(dir string) (*catalogue.Catalogue, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("no catalogue at %s", dir)
	}
	return catalogue.Open(dir)
}

func catalogueCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Inspect the document catalogue",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "catalogue", "catalogue directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalogued documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalogue(dir)
			if err != nil {
				return err
			}

			entries := cat.List()
			if len(entries) == 0 {
				fmt.Println("Catalogue is empty.")
				return nil
			}

			fmt.Printf("%-20s %-10s %-10s %-8s %s\n", "ID", "Chamber", "Status", "Records", "Source")
			for _, entry := range entries {
				fmt.Printf("%-20s %-10s %-10s %-8d %s\n",
					entry.ID, entry.Chamber, entry.Status, entry.Records, entry.Source)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show catalogue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalogue(dir)
			if err != nil {
				return err
			}

			stats := cat.Stats()
			fmt.Printf("Documents: %d\n", stats.TotalDocuments)
			fmt.Printf("Records:   %d\n", stats.TotalRecords)
			for status, count := range stats.ByStatus {
				fmt.Printf("  %s: %d\n", status, count)
			}
			if len(stats.ByChamber) > 0 {
				fmt.Println("By chamber:")
				for chamber, count := range stats.ByChamber {
					fmt.Printf("  %s: %d\n", chamber, count)
				}
			}
			return nil
		},
	})

	return cmd
}
