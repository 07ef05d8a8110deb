package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scicoda/coda/cmd/codabrowse/logger"
	"github.com/scicoda/coda/pkg/coda"
)

func main() {
	args := os.Args[1:]
	debugMode := false

	filteredArgs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	if filteredArgs[0] == "--help" || filteredArgs[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if filteredArgs[0] == "--version" || filteredArgs[0] == "-v" {
		fmt.Printf("codabrowse %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	productPath := filteredArgs[0]
	logger.Info("starting codabrowse", "path", productPath, "debug", debugMode)

	if _, err := os.Stat(productPath); err != nil {
		logger.Error("product file not found", "path", productPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: product file not found: %s\n", productPath)
		os.Exit(1)
	}

	if err := coda.Init(); err != nil {
		logger.Error("failed to initialize module", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer coda.Done()

	m, err := NewModel(productPath)
	if err != nil {
		logger.Error("failed to open product", "path", productPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			logger.Warn("error closing resources", "error", err)
		}
	}

	logger.Info("codabrowse exited normally")
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: codabrowse [options] <product-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'codabrowse --help' for more information.\n")
}

func printHelp() {
	fmt.Println("codabrowse - Interactive TUI for scientific data products")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  codabrowse [options] <product-file>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches an interactive terminal UI for exploring a product's type")
	fmt.Println("  tree: records, arrays, and leaf values, navigated with a live cursor.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Split-pane layout (tree view + value detail)")
	fmt.Println("    - Keyboard navigation (vim-style keys supported)")
	fmt.Println("    - Expand/collapse record fields and array elements")
	fmt.Println("    - View scalar and array values with proper formatting")
	fmt.Println("    - Copy the current path to the clipboard (y)")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Move selection")
	fmt.Println("    →/l, Enter  Expand / descend into field")
	fmt.Println("    ←/h         Collapse / go to parent")
	fmt.Println("    y           Copy current path to clipboard")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.codabrowse/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  codabrowse granule.bin")
	fmt.Println("  codabrowse profile.xml")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'codainspect' command instead.")
}
