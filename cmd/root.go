package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "arznote",
	Short: "Extract structured data from Austrian doctor's invoices",
	Long: `Arznote reads scanned or born-digital PDF invoices (Wahlarztrechnungen),
extracts a structured invoice record via a schema-constrained language model,
and scores the result with rule-based plausibility checks.

Digital PDFs are converted from their text layer; scans are rasterized and
read by a vision OCR model first.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.arznote/config.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not determine home directory:", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".arznote"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Maps OCR_BASE_URL to ocr.base_url, and so on.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// config.yaml is optional when env vars or defaults suffice
	}
}
