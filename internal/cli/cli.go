// Package cli builds the pocket-styler command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpshade/pocket-styler/internal/config"
	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/service"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "0.1.0"

// CLI holds the state shared by every command
type CLI struct {
	cfgFile    string
	libraryDir string
	verbose    bool

	manager *config.Manager
	cfg     *config.Config
	log     *logger.Logger
	service *service.Service
}

// NewRootCommand returns the root command with every subcommand attached
func NewRootCommand() *cobra.Command {
	c := &CLI{}

	root := &cobra.Command{
		Use:   "pocket-styler",
		Short: "Compose image prompts with a library of named styles",
		Long: `pocket-styler keeps a library of named prompt styles and applies them to
your prompts. Styles live in JSON or YAML packs under the library directory,
with a single legacy file as fallback.

Library directory: ~/.pocket-styler (override with POCKET_STYLER_DIR or --library)`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				c.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ./config.yaml or <library>/config.yaml)")
	root.PersistentFlags().StringVar(&c.libraryDir, "library", "", "library directory (default: $POCKET_STYLER_DIR or ~/.pocket-styler)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose logging and error details")

	root.AddCommand(
		c.composeCommand(),
		c.pickCommand(),
		c.listCommand(),
		c.searchCommand(),
		c.showCommand(),
		c.categoriesCommand(),
		c.statsCommand(),
		c.addCommand(),
		c.bulkCommand(),
		c.wizardCommand(),
		c.validateCommand(),
		c.auditCommand(),
		c.schemaCommand(),
		c.watchCommand(),
		c.initCommand(),
		c.configCommand(),
		versionCommand(),
	)
	return root
}

// setup loads configuration and builds the service
func (c *CLI) setup() error {
	mgr, err := config.NewManager(c.cfgFile)
	if err != nil {
		return err
	}
	cfg := mgr.Get()
	if c.libraryDir != "" {
		if cfg, err = cfg.WithLibraryDir(c.libraryDir); err != nil {
			return err
		}
	}

	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	}
	log, err := logger.New(cfg.LogMode, level)
	if err != nil {
		return fmt.Errorf("invalid logging settings: %w", err)
	}

	svc, err := service.NewService(cfg, log)
	if err != nil {
		return err
	}

	c.manager = mgr
	c.cfg = cfg
	c.log = log
	c.service = svc
	log.Debug("configuration loaded", "config_file", mgr.ConfigFile(), "library", cfg.LibraryDir)
	return nil
}

// Execute runs the command tree and prints any error the way the CLI
// error handler formats it.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	verbose, _ := root.PersistentFlags().GetBool("verbose")
	log := logger.Nop()
	if verbose {
		if l, lerr := logger.New("development", "debug"); lerr == nil {
			log = l
		}
	}
	handler := errors.NewCLIErrorHandler(verbose, log)
	fmt.Fprintln(stderr, handler.HandleError(err))
	if cmd != nil && !errors.IsAppError(err) {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return 1
}

// Main is the entry point used by main.go
func Main(ctx context.Context) int {
	return Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no library
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pocket-styler %s\n", Version)
		},
	}
}
