package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arznote/arznote/internal/config"
	"github.com/arznote/arznote/internal/display"
)

var extractModel string

var extractCmd = &cobra.Command{
	Use:   "extract <invoice.pdf>",
	Short: "Extract one invoice PDF and print the result as JSON",
	Long: `Runs the full pipeline on a single PDF file:
  1. Classifies the document as digital or scan
  2. Extracts its text (text layer or vision OCR)
  3. Runs schema-constrained structured extraction
  4. Validates the result and prints invoice + score as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractModel, "model", "m", "light", "Extraction model alias or name (light|full|<model>)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return errors.New("only PDF files are supported")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}

	pipe, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	model := cfg.ResolveModel(extractModel)
	display.Step(1, 2, fmt.Sprintf("Processing %s with %s...", filepath.Base(path), model))

	res, err := pipe.Process(context.Background(), data, model)
	if err != nil {
		display.ErrorMsg(err.Error())
		return err
	}
	display.StepResult("pdf type", res.PDFType)

	if res.Invoice == nil {
		display.Warn("could not extract invoice data")
		os.Exit(2)
	}

	display.Step(2, 2, "Validation")
	display.StepResult("score", fmt.Sprintf("%.2f", res.Validation.Score))

	out, err := json.MarshalIndent(map[string]interface{}{
		"filename":   filepath.Base(path),
		"pdf_type":   res.PDFType,
		"model":      model,
		"invoice":    res.Invoice,
		"validation": res.Validation,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))

	display.Success("done")
	return nil
}
