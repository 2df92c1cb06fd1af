package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photo-organizer",
	Short: "A CLI tool for organizing photo collections",
	Long: `Photo Organizer scans photo directories, extracts EXIF metadata,
detects and clusters faces, and groups photos into events and locations.
Results are stored in a local database and can be browsed over a web API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
