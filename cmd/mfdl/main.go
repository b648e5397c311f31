package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "mfdl <url>",
		Short: "mfdl - concurrent MediaFire downloader",
		Long: `Download a MediaFire file or a whole folder tree from a share link.

Files are fetched by a pool of parallel workers; individual failures are
listed at the end and do not stop the rest of the download.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDownload,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default searches ./configs, $HOME/.mfdl, /etc/mfdl)")

	rootCmd.Flags().StringP("output", "o", ".", "Output directory")
	rootCmd.Flags().IntP("max", "m", 10, "Maximum concurrent downloads")
	rootCmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
