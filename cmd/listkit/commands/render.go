package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cobra"

	"github.com/go-drift/listkit/pkg/config"
	"github.com/go-drift/listkit/pkg/dom"
	"github.com/go-drift/listkit/pkg/fetch"
	"github.com/go-drift/listkit/pkg/list"
	"github.com/go-drift/listkit/pkg/sched"
	"github.com/go-drift/listkit/pkg/template"
)

type renderOptions struct {
	src          string
	templatePath string
	path         string
	maxItems     int
}

func newRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch a collection and print the rendered list",
		Long: `Render runs one full pipeline cycle: fetch the JSON document at --src,
select the collection at the expression path, expand each item through the
template file, and print the resulting container markup to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.src, "src", "", "URL of the JSON document to fetch (required)")
	cmd.Flags().StringVar(&opts.templatePath, "template", "", "path to the item template file (required)")
	cmd.Flags().StringVar(&opts.path, "path", "", "expression path of the collection (default \"items\")")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", 0, "cap on rendered items, 0 for no cap")
	_ = cmd.MarkFlagRequired("src")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, opts *renderOptions) error {
	cfg, err := config.LoadOptional(configDir)
	if err != nil {
		return err
	}

	tplSource, err := os.ReadFile(opts.templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	doc := dom.NewDocument()
	host := doc.CreateElement("div")
	doc.Root().AppendChild(host)
	host.SetAttribute("src", opts.src)
	doc.RegisterTemplate("cli", string(tplSource))
	host.SetAttribute("template", "cli")

	renderer := template.NewTemplateRenderer()
	if cfg.Sanitizer.Policy == "strict" {
		renderer.Policy = bluemonday.StrictPolicy()
	}

	source := &fetch.HTTPDataSource{
		Client: &http.Client{Timeout: cfg.Timeout()},
	}

	path := opts.path
	if path == "" {
		path = cfg.Defaults.ExpressionPath
	}
	maxItems := opts.maxItems
	if maxItems == 0 {
		maxItems = cfg.Defaults.MaxItems
	}

	scheduler := sched.NewFrameScheduler()
	ctrl := list.New(doc, host, source, renderer, scheduler, list.Options{
		ExpressionPath: path,
		MaxItems:       maxItems,
	})

	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	scheduler.FlushAll()

	fmt.Fprintln(cmd.OutOrStdout(), ctrl.Container().OuterHTML())
	return nil
}
