package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpshade/pocket-styler/internal/clipboard"
	"github.com/dpshade/pocket-styler/internal/composer"
	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/renderer"
	"github.com/dpshade/pocket-styler/internal/service"
	"github.com/dpshade/pocket-styler/internal/ui"
)

func (c *CLI) composeCommand() *cobra.Command {
	var (
		style    string
		override string
		variant  string
		noStyle  bool
		encode   bool
		copyOut  bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "compose <prompt...>",
		Short: "Apply a style to a prompt",
		Long: `Apply a style to a prompt and print the styled prompt.

The style is chosen with --id, or with --style as a choice label
"category | name | id". --id wins when both are given.

Examples:
  pocket-styler compose --id cin_film_noir "a detective in the rain"
  pocket-styler compose --style "Cinema | Film Noir | cin_film_noir" a detective
  pocket-styler compose --id cin_film_noir --variant flux_2_klein --encode -f json a detective`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.variant(variant)
			if err != nil {
				return err
			}
			req := composer.Request{
				Prompt:          strings.Join(args, " "),
				ApplyStyle:      !noStyle,
				Style:           style,
				StyleIDOverride: override,
				Variant:         v,
			}

			var (
				styled string
				tmpl   *models.StyleTemplate
				res    *composer.Result
			)
			if encode {
				if res, err = c.service.Encode(req); err != nil {
					return err
				}
				styled, tmpl = res.StyledPrompt, res.Template
			} else if styled, tmpl, err = c.service.Compose(req); err != nil {
				return err
			}

			if copyOut {
				if _, err := clipboard.Default().Copy(styled); err != nil {
					c.log.Warn("copy failed", "cause", err)
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				text, err := renderer.JSON(renderer.NewComposition(req, styled, tmpl, res))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
			case "text", "":
				fmt.Fprintln(out, styled)
				if res != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "encoded: %d dims\n", len(res.Conditioning))
				}
			default:
				return errors.InvalidInputError(fmt.Sprintf("unknown format %q (expected text or json)", format))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", "", "style choice label \"category | name | id\"")
	cmd.Flags().StringVar(&override, "id", "", "style id (wins over --style)")
	cmd.Flags().StringVar(&variant, "variant", "", "template variant: "+strings.Join(models.VariantNames(), ", ")+" (default from config)")
	cmd.Flags().BoolVar(&noStyle, "no-style", false, "return the prompt unchanged")
	cmd.Flags().BoolVar(&encode, "encode", false, "also run the preview encoder")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the styled prompt to the clipboard")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

// variant parses name, falling back to the configured default
func (c *CLI) variant(name string) (models.Variant, error) {
	if strings.TrimSpace(name) == "" {
		return c.service.DefaultVariant(), nil
	}
	v, err := models.ParseVariant(name)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error())
	}
	return v, nil
}

func (c *CLI) pickCommand() *cobra.Command {
	var (
		variant string
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "pick [prompt...]",
		Short: "Browse styles interactively and print the styled prompt",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.variant(variant)
			if err != nil {
				return err
			}
			final, err := ui.RunPicker(c.service, ui.PickerOptions{Prompt: strings.Join(args, " "), Variant: v})
			if err != nil {
				return err
			}
			chosen := final.Chosen()
			if chosen == nil {
				return nil
			}
			styled := composer.StylePrompt(*chosen, strings.Join(args, " "), final.Variant())
			if copyOut {
				msg, err := clipboard.CopyWithFallback(styled)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styled)
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "initial template variant")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the styled prompt to the clipboard")
	return cmd
}

func (c *CLI) listCommand() *cobra.Command {
	var filter service.ListFilter
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List styles",
		Long: `List styles in catalog order.

--tags takes a boolean expression over tags: AND, OR, XOR, NOT and
parentheses, matched case-insensitively.

Examples:
  pocket-styler list --category Cinema
  pocket-styler list --tags "photography AND NOT neon" --format ids`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			styles, err := c.service.ListStyles(filter)
			if err != nil {
				return err
			}
			return printList(cmd, styles, format)
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "only this category")
	cmd.Flags().StringVar(&filter.Tags, "tags", "", "boolean tag expression")
	cmd.Flags().StringVarP(&format, "format", "f", renderer.FormatTable, "output format: table, labels, ids, json")
	return cmd
}

func printList(cmd *cobra.Command, styles []models.StyleTemplate, format string) error {
	if len(styles) == 0 && format != renderer.FormatJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), "No styles found.")
		return nil
	}
	out, err := renderer.RenderList(styles, format)
	if err != nil {
		return errors.InvalidInputError(err.Error())
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (c *CLI) searchCommand() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Fuzzy-search styles by label and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			styles, err := c.service.SearchStyles(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if limit > 0 && len(styles) > limit {
				styles = styles[:limit]
			}
			return printList(cmd, styles, format)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", renderer.FormatLabels, "output format: table, labels, ids, json")
	return cmd
}

func (c *CLI) showCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id | label>",
		Short: "Show one style",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.service.GetStyle(strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				text, err := renderer.JSON(renderer.ViewOf(t))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
			case "markdown":
				fmt.Fprint(out, renderer.StyleMarkdown(t))
			case "pretty", "":
				r, err := renderer.NewMarkdownRenderer(80)
				if err != nil {
					return err
				}
				text, err := renderer.RenderStyle(r, t)
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
			default:
				return errors.InvalidInputError(fmt.Sprintf("unknown format %q (expected pretty, markdown or json)", format))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "output format: pretty, markdown, json")
	return cmd
}
