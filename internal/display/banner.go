package display

import (
	"fmt"
	"os"
)

// ANSI color codes
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	italic = "\033[3m"

	red     = "\033[31m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	blue    = "\033[34m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
	white   = "\033[37m"

	brightRed     = "\033[91m"
	brightGreen   = "\033[92m"
	brightYellow  = "\033[93m"
	brightBlue    = "\033[94m"
	brightMagenta = "\033[95m"
	brightCyan    = "\033[96m"
	brightWhite   = "\033[97m"
)

// ServerInfo holds the information shown in the startup banner.
type ServerInfo struct {
	Version string
	Addr    string

	OCRModel   string
	LightModel string
	FullModel  string

	LLMBaseURL string
	OCRBaseURL string

	MetadataFile string
}

// Banner prints the serve startup banner.
func Banner(info ServerInfo) {
	fmt.Fprintln(os.Stdout)
	fmt.Fprintf(os.Stdout, "  %s%sarznote%s %s%s%s\n", bold, brightCyan, reset, dim, info.Version, reset)
	fmt.Fprintf(os.Stdout, "  %s%s%s\n", dim+cyan, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━", reset)

	KeyValue("listen", "http://0.0.0.0"+info.Addr, brightGreen)
	KeyValue("ocr model", info.OCRModel, brightMagenta)
	KeyValue("llm light", info.LightModel, brightMagenta)
	KeyValue("llm full", info.FullModel, brightMagenta)
	KeyValue("llm endpoint", info.LLMBaseURL, white)
	KeyValue("ocr endpoint", info.OCRBaseURL, white)
	if info.MetadataFile != "" {
		KeyValue("ground truth", info.MetadataFile, white)
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintf(os.Stdout, "  %sEndpoints:%s\n", bold, reset)
	fmt.Fprintf(os.Stdout, "    %sPOST%s /extract   %smultipart PDF upload, optional 'model' field%s\n", brightGreen, reset, dim, reset)
	fmt.Fprintf(os.Stdout, "    %sGET%s  /health\n\n", brightBlue, reset)
}

// KeyValue prints a labeled value.
func KeyValue(key string, value interface{}, valueColor string) {
	paddedKey := padRight(key, 14)
	fmt.Fprintf(os.Stdout, "    %s%s%s  %s%v%s\n", dim, paddedKey, reset, valueColor, value, reset)
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
