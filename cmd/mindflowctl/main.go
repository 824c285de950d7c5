package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag  string
	jsonFlag bool
	rootCmd  = &cobra.Command{
		Use:   "mindflowctl",
		Short: "CLI client for the MindFlow wellness API",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "MindFlow service base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print raw JSON responses")
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
