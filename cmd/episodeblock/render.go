package main

import (
	"fmt"
	"os"

	"github.com/mmcdole/episodeblock/internal/block"
	"github.com/mmcdole/episodeblock/internal/render"
	"github.com/mmcdole/episodeblock/internal/search"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var renderCmd = &cobra.Command{
	Use:   "render [item-id]",
	Short: "Render the block for a content item",
	Long: `Render the related episodes block as if the given content item were bound
to the current route. Use --title to pick the item by fuzzy title match instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()

		var id string
		if len(args) == 1 {
			id = args[0]
		}
		if title, _ := cmd.Flags().GetString("title"); title != "" {
			all, err := a.store.All(ctx)
			if err != nil {
				return err
			}
			item, err := search.ResolveTitle(title, "", all)
			if err != nil {
				return err
			}
			a.logger.Debug("resolved title", "query", title, "item", item.ID)
			id = item.ID
		}

		route := block.RouteParams{}
		if id != "" {
			route = block.NodeRoute(id)
		}

		out, err := a.block.Build(ctx, route)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")
		f, err := formatter(format)
		if err != nil {
			return err
		}
		return f.Format(os.Stdout, block.AdminLabel, out)
	},
}

// formatter picks the output format; text is styled only on a terminal
func formatter(name string) (render.Formatter, error) {
	switch name {
	case "text", "":
		return render.TextFormatter{Styled: term.IsTerminal(int(os.Stdout.Fd()))}, nil
	case "json":
		return render.JSONFormatter{}, nil
	case "html":
		return render.HTMLFormatter{BlockID: block.ID}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or html)", name)
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("format", "f", "text", "Output format: text, json, html")
	renderCmd.Flags().StringP("title", "t", "", "Select the current item by title")
}
