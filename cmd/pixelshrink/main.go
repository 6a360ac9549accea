package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "pixelshrink",
	Short:   "Compress JPEG and PNG images to a target size",
	Long:    `PixelShrink serves a browser UI and JSON API that recompress an image until it fits a target size.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(newServeCmd(), newCompressCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
