// Command migrate-legacy splits a monolithic styles_v1.json into
// per-category packs under the library's packs directory.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dpshade/pocket-styler/internal/authoring"
	"github.com/dpshade/pocket-styler/internal/config"
	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/storage"
)

func main() {
	library := flag.String("library", "", "library directory (default: $POCKET_STYLER_DIR or ~/.pocket-styler)")
	legacyPath := flag.String("legacy", "", "legacy styles file (default: from config)")
	yes := flag.Bool("yes", false, "write without asking")
	dryRun := flag.Bool("dry-run", false, "print the plan only")
	flag.Parse()

	log, err := logger.New("development", "info")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	mgr, err := config.NewManager("")
	if err != nil {
		log.Error("failed to load config", "cause", err)
		os.Exit(1)
	}
	cfg := mgr.Get()
	if *library != "" {
		if cfg, err = cfg.WithLibraryDir(*library); err != nil {
			log.Error("invalid library directory", "cause", err)
			os.Exit(1)
		}
	}
	if *legacyPath == "" {
		*legacyPath = cfg.LegacyFile
	}

	if _, err := os.Stat(*legacyPath); err != nil {
		log.Error("legacy file not found", "path", *legacyPath)
		os.Exit(1)
	}
	legacy, err := storage.LoadOrInitPack(*legacyPath)
	if err != nil {
		log.Error("failed to read legacy file", "path", *legacyPath, "cause", err)
		os.Exit(1)
	}

	plan, err := authoring.PlanMigration(legacy, cfg.PacksDir)
	if err != nil {
		log.Error("failed to plan migration", "cause", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d styles in %s\n", len(legacy.Styles), *legacyPath)
	for _, pack := range plan.Packs {
		fmt.Printf("  - %s (%d styles)\n", pack.Path, len(pack.Styles))
	}
	if plan.Existing > 0 {
		fmt.Printf("%d styles already present in their packs will be left alone\n", plan.Existing)
	}
	if *dryRun {
		return
	}

	if !*yes {
		fmt.Print("\nProceed with migration? (y/N): ")
		response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if r := strings.ToLower(strings.TrimSpace(response)); r != "y" && r != "yes" {
			fmt.Println("Migration cancelled")
			return
		}
	}

	if err := plan.Apply(); err != nil {
		log.Error("migration failed", "cause", err)
		os.Exit(1)
	}
	log.Info("migration complete", "packs", len(plan.Packs), "styles", len(legacy.Styles)-plan.Existing)
	fmt.Println("The packs now take precedence; the legacy file is only read when no pack loads.")
}
