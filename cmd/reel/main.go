package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/httpclient"
	"github.com/mmcdole/reel/internal/adapter/source/tmdb"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	showVersion bool
	configPath  string
	search      string
	details     string
}

func main() {
	flags := pflag.NewFlagSet("reel", pflag.ContinueOnError)
	var opts options
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "print version")
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/reel/config.yaml)")
	flags.String("api-key", "", "TMDB API key")
	flags.String("log-level", "", "log level: DEBUG, INFO, WARN or ERROR")
	flags.StringVarP(&opts.search, "search", "s", "", "print search results for a title and exit")
	flags.StringVarP(&opts.details, "details", "d", "", "print the details of a TMDB movie id and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("reel %s\n", Version)
		return
	}

	if err := run(opts, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, flags *pflag.FlagSet) error {
	v := viper.New()

	// Load configuration
	cfg, err := adapter.LoadConfig(v, opts.configPath, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		closer = io.NopCloser(nil)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.Info("starting reel", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(v, cfg); err != nil {
			return err
		}
	}

	// Create loaders
	client := httpclient.NewClient(cfg.HTTP.Timeout, logger)
	endpoints := tmdb.Endpoints{
		APIHost:    cfg.TMDB.APIHost,
		ImageHost:  cfg.TMDB.ImageHost,
		PosterSize: cfg.TMDB.PosterSize,
		Language:   cfg.TMDB.Language,
		APIKey:     cfg.TMDB.APIKey,
		WebHost:    cfg.TMDB.WebHost,
	}
	services := tui.Services{
		Movies:  tmdb.NewMoviesLoader(client, endpoints, logger),
		Details: tmdb.NewMovieDetailsLoader(client, endpoints, logger),
		Images:  tmdb.NewImageDataLoader(client, logger),
		URLs:    endpoints,
		Pages:   endpoints,
		Browser: adapter.NewBrowser(cfg.Browser, logger),
	}

	switch {
	case opts.search != "":
		return printSearch(os.Stdout, services, opts.search, cfg.TMDB.Page)
	case opts.details != "":
		return printDetails(os.Stdout, services, opts.details)
	}

	// Create TUI model
	model := tui.NewModel(services, tui.Options{
		Page:         cfg.TMDB.Page,
		PrefetchRows: cfg.UI.PrefetchRows,
		PosterWidth:  cfg.UI.PosterWidth,
	}, logger)

	// Loader goroutines still blocked on dispatch are released once the program exits
	defer model.Queue().Close()

	// Run the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow asks for a TMDB API key and saves it
func runSetupFlow(v *viper.Viper, cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to reel!")
	fmt.Println()
	fmt.Println("reel needs a TMDB API key. Create one at https://www.themoviedb.org/settings/api")
	fmt.Println()

	for {
		fmt.Print("API key: ")
		key, err := readSecret()
		if err != nil {
			return fmt.Errorf("failed to read api key: %w", err)
		}
		fmt.Println() // Add newline after hidden input

		key = strings.TrimSpace(key)
		if key == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}
		cfg.TMDB.APIKey = key
		break
	}

	if err := adapter.SaveConfig(v, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret() (string, error) {
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// printSearch runs one search and prints a row per result
func printSearch(w io.Writer, services tui.Services, query string, page int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("type a movie title to search")
	}
	u, err := services.URLs.SearchURL(query, page)
	if err != nil {
		return err
	}
	movies, err := await(services.Movies, u)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}
	for _, m := range movies {
		fmt.Fprintf(w, "%-10s %s (%s)\n", m.ID, m.Title, m.ReleaseDate)
	}
	return nil
}

// printDetails loads one movie by id and prints its details
func printDetails(w io.Writer, services tui.Services, id string) error {
	u, err := services.URLs.DetailsURL(strings.TrimSpace(id))
	if err != nil {
		return err
	}
	d, err := await(services.Details, u)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s)\n", d.Title, d.ReleaseDate)
	if d.OriginalTitle != "" && d.OriginalTitle != d.Title {
		fmt.Fprintf(w, "Original title: %s\n", d.OriginalTitle)
	}
	if d.Duration != "" {
		fmt.Fprintf(w, "Duration: %s\n", d.Duration)
	}
	if d.PosterImageURL != nil {
		fmt.Fprintf(w, "Poster: %s\n", d.PosterImageURL)
	}
	if d.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", d.Overview)
	}
	return nil
}

type result[T any] struct {
	value T
	err   error
}

// await starts a load and blocks until it completes or the process is interrupted
func await[T any](loader domain.Loader[T], u *url.URL) (T, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ch := make(chan result[T], 1)
	task := loader.Load(u, func(v T, err error) {
		ch <- result[T]{value: v, err: err}
	})

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		task.Cancel()
		var zero T
		return zero, ctx.Err()
	}
}
