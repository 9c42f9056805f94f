package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/catalogsearch/internal/logger"
)

type queryOptions struct {
	query    string
	category string
	json     bool
	verbose  bool
	timeout  time.Duration
}

func newQueryCmd() *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one search against the live catalog",
		Long: `Run one search in-process and print the result tag and matching products.

Examples:
  catalogsearch query -q "running shoes under $100 with good reviews"
  catalogsearch query -q "at least 4 stars" -c electronics --json
  catalogsearch query -c jewelery          # browse a category`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Natural-language query (empty browses the category)")
	cmd.Flags().StringVarP(&opts.category, "category", "c", request.AllCategories, "Category filter")
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "Output results in JSON format")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log search decisions to stderr")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "Overall timeout")
	return cmd
}

func runQuery(ctx context.Context, out io.Writer, opts *queryOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := request.New(opts.query, opts.category)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := ""
	if opts.verbose {
		level = "debug"
	}
	logger, err := logpkg.NewLogger("cli", level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	a, err := buildApp(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.search.Search(ctx, a.catalog.Snapshot(ctx), req)
	if opts.json {
		return writeJSONResult(out, &res)
	}
	return writeTextResult(out, &res)
}

type jsonProduct struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Rating   *float64 `json:"rating,omitempty"`
}

type jsonResult struct {
	Note     string        `json:"note"`
	Count    int           `json:"count"`
	Products []jsonProduct `json:"products"`
}

func writeJSONResult(out io.Writer, res *result.Result) error {
	items := res.Items()
	body := jsonResult{Note: string(res.Tag()), Count: len(items), Products: make([]jsonProduct, len(items))}
	for i := range items {
		p := &items[i]
		body.Products[i] = jsonProduct{ID: p.ID(), Title: p.Title(), Category: p.Category(), Price: p.Price()}
		if r := p.Rating(); r != nil {
			rate := r.Rate
			body.Products[i].Rating = &rate
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func writeTextResult(out io.Writer, res *result.Result) error {
	items := res.Items()
	fmt.Fprintf(out, "note: %s  (%d products)\n", res.Tag(), len(items))
	if len(items) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tRATING")
	for i := range items {
		p := &items[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID(), p.Title(), p.Category(),
			strconv.FormatFloat(p.Price(), 'f', 2, 64)+" "+product.Currency, ratingText(p))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func ratingText(p *product.Product) string {
	r := p.Rating()
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d)", r.Rate, r.Count)
}
