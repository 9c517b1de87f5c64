package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/pocket-styler/internal/config"
	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/renderer"
	"github.com/dpshade/pocket-styler/internal/validation"
	"github.com/dpshade/pocket-styler/internal/watch"
)

func (c *CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the library directory, starter styles and config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.service.InitLibrary()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Library: %s\n", res.LibraryDir)
			if res.StarterWritten {
				fmt.Fprintf(out, "Wrote starter styles to %s\n", c.cfg.LegacyFile)
			}
			if res.ConfigWritten {
				fmt.Fprintf(out, "Wrote config to %s\n", res.ConfigFile)
			}
			if !res.StarterWritten && !res.ConfigWritten {
				fmt.Fprintln(out, "Already initialized.")
			}
			return nil
		},
	}
}

func (c *CLI) validateCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the library for missing or duplicate ids and names",
		Long: `Check that every style has a non-empty unique id and name and a default
object with prefix and suffix. --strict also checks each source file
against the pack JSON schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := c.service.ValidateLibrary(strict)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, issue := range outcome.Report.Issues {
				if issue.Source != "" {
					fmt.Fprintf(out, "ERROR: [%d] %s (%s)\n", issue.Index, issue.Message, issue.Source)
				} else {
					fmt.Fprintf(out, "ERROR: [%d] %s\n", issue.Index, issue.Message)
				}
			}
			for _, e := range outcome.SchemaErrors {
				fmt.Fprintf(out, "SCHEMA: %v\n", e)
			}
			fmt.Fprintln(out, outcome.Report.Summary())
			if !outcome.OK() {
				return errors.ValidationError("library validation failed")
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also validate each file against the pack schema")
	return cmd
}

func (c *CLI) auditCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report style-quality warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printAudit(cmd, c.service.AuditLibrary(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func printAudit(cmd *cobra.Command, report *validation.AuditReport, format string) error {
	switch format {
	case "json":
		text, err := renderer.JSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
	case "text", "":
		fmt.Fprint(cmd.OutOrStdout(), renderer.AuditText(report))
	default:
		return errors.InvalidInputError(fmt.Sprintf("unknown format %q (expected text or json)", format))
	}
	return nil
}

func (c *CLI) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for style packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := validation.PackSchemaJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}

func (c *CLI) watchCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the audit whenever a pack changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := printAudit(cmd, c.service.AuditLibrary(), format); err != nil {
				return err
			}

			c.manager.OnChange(func(cfg *config.Config) {
				c.log.Info("config changed", "log_level", cfg.LogLevel, "default_variant", cfg.DefaultVariant)
			})
			c.manager.WatchConfig()

			w := watch.New(c.cfg.Sources(), c.log)
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", c.cfg.PacksDir)
			return w.Run(cmd.Context(), func(ch watch.Change) {
				fmt.Fprintf(cmd.OutOrStdout(), "\n--- changed: %s\n", strings.Join(ch.Paths, ", "))
				cat := c.service.Catalog()
				fmt.Fprintf(cmd.OutOrStdout(), "catalog: %d styles (%s)\n", len(cat.Templates), cat.Strategy)
				if err := printAudit(cmd, c.service.AuditLibrary(), format); err != nil {
					c.log.Warn("audit failed", "cause", err)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(c.cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if f := c.manager.ConfigFile(); f != "" {
				fmt.Fprintf(out, "# from %s\n", f)
			} else {
				fmt.Fprintln(out, "# built-in defaults")
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}
