package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/quickview/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "quickview",
	Short: "Storefront with quick view product previews",
	Long: `quickview serves a small storefront whose catalog listing lets
customers open a product in an overlay, pick options and add it to
their cart without leaving the page.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
