package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// Browser opens movie web pages outside the terminal
type Browser struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	goos    string
	logger  *slog.Logger

	// start runs a command without waiting for it to exit
	start func(name string, args ...string) error
}

// NewBrowser creates a Browser. An empty command uses the system default handler.
func NewBrowser(cfg BrowserConfig, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		command: cfg.Command,
		args:    cfg.Args,
		goos:    runtime.GOOS,
		logger:  logger,
		start:   startCommand,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens u in the configured browser or the system default
func (b *Browser) Open(u *url.URL) error {
	if u == nil {
		return fmt.Errorf("no page to open")
	}
	target := u.String()

	// Tier 1: user configured a specific browser
	if b.command != "" {
		args := append(append([]string{}, b.args...), target)
		b.logger.Info("opening with configured browser", "command", b.command, "url", target)
		if err := b.start(b.command, args...); err != nil {
			return fmt.Errorf("failed to start %s: %w", b.command, err)
		}
		return nil
	}

	// Tier 2: system default handler (open/xdg-open/start)
	name, args := defaultOpener(b.goos, target)
	b.logger.Info("opening with system default", "os", b.goos, "url", target)
	if err := b.start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}

// defaultOpener returns the platform command that opens target
func defaultOpener(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "cmd", []string{"/c", "start", "", target}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{target}
	}
}
