package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	sitePath   string
	fileKey    string
	nodeIDs    string
	dialect    string
	pageTitle  string
	pageSlug   string
	pageID     int
	apiKey     string
	dbPath     string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "pagegen",
	Short: "AI-assisted page generation from design files",
	Long:  `Builds deployable web pages from design-tool documents: analyzes the design, classifies sections, generates markup, validates it, and deploys a draft page with its image assets.`,
	Run: func(cmd *cobra.Command, args []string) {
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			log.Fatal("API key required: use --api-key flag or ANTHROPIC_API_KEY environment variable")
		}
		if fileKey == "" {
			log.Fatal("Design file key required: use --file-key")
		}

		if debugMode {
			SetDebugMode(true)
		}

		if err := ensureConfigExists(); err != nil {
			log.Fatalf("Failed to prepare config: %v", err)
		}

		settings, err := loadSettings(getConfigPath("settings.yaml"))
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}

		profile, err := LoadSiteProfile(sitePath)
		if err != nil {
			log.Fatalf("Failed to load site profile: %v", err)
		}
		if profile.FigmaToken == "" {
			profile.FigmaToken = os.Getenv("FIGMA_TOKEN")
		}
		if profile.FigmaToken == "" {
			log.Fatal("Figma token required: set figma_token in the site profile or FIGMA_TOKEN environment variable")
		}

		if dbPath == "" {
			dbPath = settings.Database
		}
		store, err := OpenStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to open build store: %v", err)
		}
		defer store.Close()

		builder, err := NewPageBuilder(apiKey, profile, settings, store)
		if err != nil {
			log.Fatalf("Failed to create page builder: %v", err)
		}

		build := &Build{
			SiteID:    profile.ID,
			FileKey:   fileKey,
			Dialect:   Dialect(dialect),
			PageTitle: pageTitle,
			PageSlug:  pageSlug,
		}
		if nodeIDs != "" {
			build.NodeIDs = strings.Split(nodeIDs, ",")
		}
		if build.PageSlug == "" {
			build.PageSlug = slugFromTitle(build.PageTitle)
		}
		if pageID > 0 {
			build.PageID = &pageID
		}
		switch build.Dialect {
		case DialectGutenberg, DialectElementor, DialectShortcode:
		default:
			log.Fatalf("Unknown dialect %q: use gutenberg, elementor, or shortcode", dialect)
		}

		if err := builder.RunBuild(build); err != nil {
			log.Fatalf("Build failed: %v", err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&sitePath, "site", "site.yaml", "Path to the site profile YAML")
	rootCmd.Flags().StringVar(&fileKey, "file-key", "", "Design file key to build from")
	rootCmd.Flags().StringVar(&nodeIDs, "node-ids", "", "Comma-separated node IDs to build (whole file if empty)")
	rootCmd.Flags().StringVar(&dialect, "dialect", "gutenberg", "Target markup dialect: gutenberg, elementor, or shortcode")
	rootCmd.Flags().StringVar(&pageTitle, "title", "Generated Page", "Destination page title")
	rootCmd.Flags().StringVar(&pageSlug, "slug", "", "Destination page slug (derived from title if empty)")
	rootCmd.Flags().IntVar(&pageID, "page-id", 0, "Existing destination page ID to update instead of creating")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API key")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to the build database (default from settings)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	// A missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
