package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/analyzer"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/config"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/gemini"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/i18n"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/store"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/tui"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "ASHRAFGHWIL",
		Repository: "Medication-Analyzer-Pro",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		logging.Debug("Update check failed", "error", err)
		return
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: medanalyzer [options] [medication...]\n\n")
		fmt.Fprintf(os.Stderr, "medanalyzer asks a generative AI model for a physician-style analysis of a\n")
		fmt.Fprintf(os.Stderr, "list of medications: details per medication plus the interactions between them.\n")
		fmt.Fprintf(os.Stderr, "The result is for educational purposes only and is not medical advice.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  medanalyzer                             # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  medanalyzer -r Aspirin Warfarin         # Print a text report\n")
		fmt.Fprintf(os.Stderr, "  medanalyzer -r -o r.txt Aspirin         # Save report to file\n")
		fmt.Fprintf(os.Stderr, "  medanalyzer -j --no-images Metformin    # Output analysis as JSON\n")
		fmt.Fprintf(os.Stderr, "  medanalyzer -w --addr :9090             # Start the web API\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment: GEMINI_API_KEY (or API_KEY), see .env.example\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Output the finished analysis as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print a text report of the analysis (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save the report or JSON to the specified file")
	imagesDirFlag := pflag.String("images-dir", "", "Save generated images to this directory")
	noImagesFlag := pflag.Bool("no-images", false, "Skip image generation in report/JSON modes")
	langFlag := pflag.String("lang", "", "Response and UI language: en or ar (saved as preference)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include descriptions and dosage reasoning; log to stderr")
	webFlag := pflag.BoolP("web", "w", false, "Start the web API")
	addrFlag := pflag.String("addr", "", "Web listen address (default from WEB_ADDRESS/WEB_PORT)")
	historyFlag := pflag.Bool("history", false, "List saved analyses")
	clearHistoryFlag := pflag.Bool("clear-history", false, "Delete all saved analyses")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for the latest release")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("medanalyzer version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so it only logs to file.
	var console io.Writer
	if *webFlag || *verboseFlag {
		console = os.Stderr
	}
	_, closer := logging.Init(logging.Options{
		Dir:            cfg.LogDir,
		RetentionWeeks: cfg.LogRetentionWeeks,
		Level:          cfg.LogLevel,
		Console:        console,
	})
	defer closer.Close()

	kv, err := store.NewFileKV(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data directory: %v\n", err)
		os.Exit(1)
	}
	accessor := store.NewAccessor(kv)

	if *clearHistoryFlag {
		if err := accessor.ClearHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	if *historyFlag {
		printHistory(accessor.LoadHistory())
		return
	}

	if err := cfg.RequireAPIKey(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var opts []analyzer.Option
	if args := pflag.Args(); len(args) > 0 {
		opts = append(opts, analyzer.WithMedications(args))
	}
	if *noImagesFlag && (*reportFlag || *jsonFlag) {
		opts = append(opts, analyzer.WithoutImages())
	}
	orch := analyzer.New(gemini.FromConfig(cfg), accessor, opts...)

	if *langFlag != "" {
		lang, ok := model.ParseLanguage(*langFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unsupported language %q (use en or ar)\n", *langFlag)
			os.Exit(1)
		}
		orch.SetLanguage(lang)
	}

	if *webFlag {
		addr := *addrFlag
		if addr == "" {
			addr = cfg.WebListenAddr()
		}
		runWebMode(orch, addr)
		return
	}

	if *reportFlag || *jsonFlag {
		runHeadlessMode(orch, headlessOptions{
			json:      *jsonFlag,
			output:    *outputFlag,
			imagesDir: *imagesDirFlag,
			verbose:   *verboseFlag,
		})
		return
	}

	// Default: TUI
	imagesDir := *imagesDirFlag
	if imagesDir == "" {
		imagesDir = filepath.Join(cfg.DataDir, "images")
	}
	runTuiMode(orch, imagesDir)
}

type headlessOptions struct {
	json      bool
	output    string
	imagesDir string
	verbose   bool
}

func runHeadlessMode(orch *analyzer.Orchestrator, opts headlessOptions) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := i18n.For(orch.Snapshot().Language)
	var last model.LoadingState
	item, err := orch.Run(ctx, func(s analyzer.Snapshot) {
		if s.Phase == last {
			return
		}
		last = s.Phase
		switch s.Phase {
		case model.AnalyzingText:
			fmt.Fprintln(os.Stderr, t.LoadingAnalysis)
		case model.GeneratingImages:
			fmt.Fprintln(os.Stderr, t.LoadingImages)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", t.ErrorText(err))
		if opts.verbose {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		os.Exit(1)
	}

	if opts.imagesDir != "" {
		for _, med := range item.Result.Medications {
			if med.ImageURL == "" {
				continue
			}
			path, err := model.SaveImage(opts.imagesDir, med.Name, med.ImageURL)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error saving image for %s: %v\n", med.Name, err)
				continue
			}
			fmt.Fprintf(os.Stderr, "%s %s\n", t.ImageSaved, path)
		}
	}

	var out []byte
	if opts.json {
		out, err = json.MarshalIndent(item, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		out = append(out, '\n')
	} else {
		out = []byte(analyzer.GenerateReport(item, t, opts.verbose))
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, out, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to %s: %v\n", opts.output, err)
			os.Exit(1)
		}
		fmt.Printf("Saved to %s\n", opts.output)
		return
	}
	os.Stdout.Write(out)
}

func printHistory(items []model.HistoryItem) {
	if len(items) == 0 {
		fmt.Println("No saved analyses.")
		return
	}
	for _, item := range items {
		when := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04")
		fmt.Printf("%s  %s  %s (%d interactions)\n",
			item.ID, when, strings.Join(item.Medications, ", "), len(item.Result.Interactions))
	}
}

func runWebMode(orch *analyzer.Orchestrator, addr string) {
	srv := web.NewServer(addr, orch)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Printf("Starting medanalyzer web API at http://%s\n", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("Web server failed", "error", err)
			os.Exit(1)
		}
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			logging.Error("Shutdown error", "error", err)
		}
	}
}

func runTuiMode(orch *analyzer.Orchestrator, imagesDir string) {
	m := tui.InitialModel(orch, imagesDir)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
