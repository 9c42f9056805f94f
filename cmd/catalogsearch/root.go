package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/catalogsearch/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogsearch",
		Short: "Natural-language product search over a store catalog",
		Long: `catalogsearch answers shopper queries such as "running shoes under $100 with
good reviews" against a FakeStore-compatible catalog. A completion model picks
the matching products when an API key is configured; a deterministic price,
rating and keyword interpreter is used otherwise and whenever the model fails.

Configuration is read from config/<ENV>.yaml (ENV defaults to local).`,
		SilenceUsage: true,
		Version:      version.Version,
	}
	root.SetVersionTemplate(version.String() + "\n")

	root.AddCommand(newServeCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	}
}
