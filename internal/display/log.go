package display

import (
	"fmt"
	"os"
	"time"
)

// Step prints a pipeline step like "  [1/4] Classifying document..."
func Step(step, total int, msg string) {
	fmt.Fprintf(os.Stdout, "  %s%s[%d/%d]%s %s%s%s\n",
		bold, brightCyan, step, total, reset,
		white, msg, reset,
	)
}

// StepResult prints a success result for a step with a highlighted value.
func StepResult(label string, value interface{}) {
	fmt.Fprintf(os.Stdout, "        %s%s%s %s%v%s\n",
		dim, label, reset,
		bold+brightGreen, value, reset,
	)
}

// Success prints a green success message.
func Success(msg string) {
	fmt.Fprintf(os.Stdout, "  %s%s✓%s %s\n", brightGreen, bold, reset, msg)
}

// Warn prints a yellow warning message.
func Warn(msg string) {
	fmt.Fprintf(os.Stdout, "  %s%s⚠%s %s%s%s\n", brightYellow, bold, reset, yellow, msg, reset)
}

// ErrorMsg prints a red error message.
func ErrorMsg(msg string) {
	fmt.Fprintf(os.Stderr, "  %s%s✗%s %s%s%s\n", brightRed, bold, reset, red, msg, reset)
}

// LogRequest prints a colorized HTTP request log line to stdout.
func LogRequest(method, path string, status int, duration time.Duration, remote string) {
	methodColor := colorForMethod(method)
	statusColor := colorForStatus(status)
	dur := formatDuration(duration)

	fmt.Fprintf(os.Stdout, "  %s%s%-7s%s %s%-20s%s %s%s%d%s %s%s%s %s%s%s\n",
		bold, methodColor, method, reset,
		white, path, reset,
		bold, statusColor, status, reset,
		dim, dur, reset,
		dim+white, remote, reset,
	)
}

func colorForMethod(method string) string {
	switch method {
	case "GET":
		return brightBlue
	case "POST":
		return brightGreen
	case "PUT", "PATCH":
		return brightYellow
	case "DELETE":
		return brightRed
	case "OPTIONS":
		return dim + white
	default:
		return white
	}
}

func colorForStatus(code int) string {
	switch {
	case code >= 500:
		return brightRed
	case code >= 400:
		return brightYellow
	case code >= 300:
		return brightCyan
	case code >= 200:
		return brightGreen
	default:
		return white
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dμs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
