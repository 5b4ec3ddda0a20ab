package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/evelogos/alliancelogos/internal/config"
	"github.com/evelogos/alliancelogos/internal/database"
	"github.com/evelogos/alliancelogos/internal/pipeline"
	"github.com/evelogos/alliancelogos/internal/report"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "alliancelogos",
	Short:   "Track EVE Online alliance logos",
	Long:    "alliancelogos syncs the alliance catalog, detects newly uploaded custom logos, and publishes a JSON summary and HTML gallery.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to listen on")
}

func openDB() (*database.DB, error) {
	dbPath := filepath.Join(cfg.GetDataDir(), "alliances.db")
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("alliancelogos", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/alliancelogos/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure ESI endpoints, probing, and the webhook.")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: reconcile, probe, notify, report",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p := pipeline.New(cfg, db)
		result := p.Run(context.Background())

		fmt.Println("\nRun summary:")
		for _, step := range result.Steps {
			if step.Err != nil {
				fmt.Printf("  %-10s ERROR: %v\n", step.Name, step.Err)
				continue
			}
			fmt.Printf("  %-10s %s\n", step.Name, step.Summary)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rebuild the JSON and HTML artifacts from the store (no network)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		eligible, err := db.EligibleAlliances()
		if err != nil {
			return fmt.Errorf("querying eligible alliances: %w", err)
		}

		model := report.Build(eligible)
		if err := report.WriteSite(cfg.Output.SiteDir, model, cfg.Output.FooterMarkdown); err != nil {
			return err
		}

		fmt.Printf("Wrote %s (%d alliances, %d month groups)\n",
			cfg.Output.SiteDir, len(eligible), len(model.Months))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Today: %s\n\n", database.Today())
		fmt.Println("Alliances:")
		fmt.Printf("  Total tracked: %d\n", stats.TotalAlliances)
		fmt.Printf("  With custom logo: %d\n", stats.WithLogo)
		fmt.Printf("  Never classified: %d\n", stats.Unclassified)
		if stats.NewestLogo != nil {
			fmt.Printf("  Newest logo seen: %s\n", *stats.NewestLogo)
		}
		return nil
	},
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated site directory locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf("127.0.0.1:%d", servePort)
		log.Printf("Serving %s on http://%s", cfg.Output.SiteDir, addr)
		return http.ListenAndServe(addr, http.FileServer(http.Dir(cfg.Output.SiteDir)))
	},
}
