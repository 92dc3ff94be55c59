package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

var (
	// Emojis
	SuccessEmoji = "✅"
	ErrorEmoji   = "❌"
	InfoEmoji    = "ℹ️ "
	WarnEmoji    = "⚠️ "

	// Printers
	Info    = pterm.PrefixPrinter{Prefix: pterm.Prefix{Text: InfoEmoji, Style: pterm.NewStyle(pterm.FgCyan)}, MessageStyle: pterm.NewStyle(pterm.FgDefault)}
	Success = pterm.PrefixPrinter{Prefix: pterm.Prefix{Text: SuccessEmoji, Style: pterm.NewStyle(pterm.FgGreen)}, MessageStyle: pterm.NewStyle(pterm.FgDefault)}
	Warn    = pterm.PrefixPrinter{Prefix: pterm.Prefix{Text: WarnEmoji, Style: pterm.NewStyle(pterm.FgYellow)}, MessageStyle: pterm.NewStyle(pterm.FgDefault)}
	Error   = pterm.PrefixPrinter{Prefix: pterm.Prefix{Text: ErrorEmoji, Style: pterm.NewStyle(pterm.FgRed)}, MessageStyle: pterm.NewStyle(pterm.FgDefault)}
)

// Logger is the structured logger used by services. Its level is set from
// the loaded configuration.
var Logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelInfo).WithWriter(os.Stderr)

func init() {
	pterm.EnableColor()
}

var levels = map[string]pterm.LogLevel{
	"trace": pterm.LogLevelTrace,
	"debug": pterm.LogLevelDebug,
	"info":  pterm.LogLevelInfo,
	"warn":  pterm.LogLevelWarn,
	"error": pterm.LogLevelError,
}

// ParseLevel maps a level name to a pterm log level.
func ParseLevel(name string) (pterm.LogLevel, error) {
	lvl, ok := levels[name]
	if !ok {
		return pterm.LogLevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}

// SetLogLevel changes the level of Logger. Unknown names are rejected.
func SetLogLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	Logger = Logger.WithLevel(lvl)
	return nil
}

// SetOutput redirects Logger, mostly for tests.
func SetOutput(w io.Writer) {
	Logger = Logger.WithWriter(w)
}
