package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/arznote/arznote/internal/config"
	"github.com/arznote/arznote/internal/display"
	"github.com/arznote/arznote/internal/extract"
	"github.com/arznote/arznote/internal/llm"
	"github.com/arznote/arznote/internal/metadata"
	"github.com/arznote/arznote/internal/pipeline"
	"github.com/arznote/arznote/internal/server"
)

var (
	servePort     int
	serveMetadata string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the invoice extraction HTTP server",
	Long: `Starts the HTTP server on port 8000 (or $PORT).

Endpoints:
  POST /extract  - multipart PDF upload, optional 'model' field (light|full)
  GET  /health

Provider settings come from ~/.arznote/config.yaml or environment variables:
  LLM_BASE_URL, LLM_API_KEY, OCR_BASE_URL, OCR_API_KEY, OCR_MODEL
  MODELS_LIGHT, MODELS_FULL, METADATA_FILE`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to listen on")
	serveCmd.Flags().StringVar(&serveMetadata, "metadata", "", "Path to the ground-truth metadata file (json or yaml)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serveMetadata != "" {
		cfg.MetadataFile = serveMetadata
	}

	// Use PORT env variable if set (container environments)
	if envPort := os.Getenv("PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &servePort)
	}

	pipe, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(pipe, metadata.NewStore(cfg.MetadataFile), cfg)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	addr := fmt.Sprintf(":%d", servePort)
	display.Banner(display.ServerInfo{
		Version:      version,
		Addr:         addr,
		OCRModel:     cfg.OCR.Model,
		LightModel:   cfg.Models.Light,
		FullModel:    cfg.Models.Full,
		LLMBaseURL:   cfg.LLM.BaseURL,
		OCRBaseURL:   cfg.OCR.BaseURL,
		MetadataFile: cfg.MetadataFile,
	})

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}
	return httpServer.ListenAndServe()
}

// buildPipeline wires the extraction stages from provider config.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	ocrClient, err := llm.NewClient(&cfg.OCR)
	if err != nil {
		return nil, fmt.Errorf("create OCR client: %w", err)
	}
	llmCfg := cfg.LLM
	if llmCfg.Model == "" {
		llmCfg.Model = cfg.Models.Light
	}
	llmClient, err := llm.NewClient(&llmCfg)
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	structured, err := extract.NewStructuredExtractor(llmClient)
	if err != nil {
		return nil, fmt.Errorf("create structured extractor: %w", err)
	}
	return pipeline.New(extract.DigitalExtractor{}, extract.NewScanExtractor(ocrClient), structured), nil
}
