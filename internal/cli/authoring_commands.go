package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpshade/pocket-styler/internal/authoring"
	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/renderer"
	"github.com/dpshade/pocket-styler/internal/ui"
)

func (c *CLI) categoriesCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List known categories with style counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			counts := c.service.Categories()
			if format == "json" {
				text, err := renderer.JSON(counts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderer.CategoriesText(counts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print style counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			total, counts := c.service.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total styles: %d\n", total)
			if len(counts) > 0 {
				fmt.Fprintln(out, renderer.CategoriesText(counts))
			}
			return nil
		},
	}
}

func (c *CLI) addCommand() *cobra.Command {
	var (
		in      authoring.StyleInput
		core    string
		details string
		tags    string
		pack    string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one style to a pack",
		Long: `Add one style. The category's base phrases are merged with --core
(prefix) and --details (suffix). The id is <id_prefix>_<name slug> unless
--id is given; collisions get _2, _3 and so on.

Example:
  pocket-styler add --name "Moody Forest" --category User/Forest \
    --core "foggy pines, muted greens" --details "soft diffused light" --tags forest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Core = authoring.SplitList(core)
			in.Details = authoring.SplitList(details)
			in.Tags = authoring.SplitList(tags)

			draft, err := c.service.DraftStyle(pack, in)
			if err != nil {
				return err
			}
			text, err := renderer.JSON(draft.Entry)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			if err := c.service.SaveDraft(draft); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			fmt.Fprintf(cmd.ErrOrStderr(), "Added %s to %s\n", draft.Entry.ID, draft.Pack.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "style name (required)")
	cmd.Flags().StringVar(&in.Category, "category", "", "category, e.g. Cinema or User/Forest (required)")
	cmd.Flags().StringVar(&core, "core", "", "comma-separated phrases for the prefix")
	cmd.Flags().StringVar(&details, "details", "", "comma-separated phrases for the suffix")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&in.ID, "id", "", "explicit id (snake_case)")
	cmd.Flags().StringVar(&in.Flux, "flux", "", "FLUX prose; generated when omitted")
	cmd.Flags().StringVar(&pack, "pack", "", "pack file to write (default: user pack)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the entry without writing it")
	return cmd
}

func (c *CLI) bulkCommand() *cobra.Command {
	var (
		csvPath  string
		jsonPath string
		pack     string
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Add many styles from a CSV or JSON file",
		Long: `Add many styles in one write.

CSV files need a header row; recognized columns are name, category, core,
details, tags, id and flux. JSON files hold a list of objects or
{"styles": [...]}. Items without a name or category are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				items []authoring.StyleInput
				err   error
			)
			switch {
			case csvPath != "" && jsonPath != "":
				return errors.InvalidInputError("use only one of --csv and --json")
			case csvPath != "":
				items, err = authoring.ReadBulkCSV(csvPath)
			case jsonPath != "":
				items, err = authoring.ReadBulkJSON(jsonPath)
			default:
				return errors.InvalidInputError("one of --csv or --json is required")
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read bulk input")
			}

			res, err := c.service.BulkAddStyles(pack, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d styles to %s (skipped %d)\n", len(res.Added), res.Path, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV input file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "JSON input file")
	cmd.Flags().StringVar(&pack, "pack", "", "pack file to write (default: user pack)")
	return cmd
}

func (c *CLI) wizardCommand() *cobra.Command {
	var pack string
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Create a style interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := ui.RunWizard(c.service, pack)
			if err != nil {
				return err
			}
			if saved == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", saved.Label())
			return nil
		},
	}
	cmd.Flags().StringVar(&pack, "pack", "", "pack file to write (default: user pack)")
	return cmd
}
