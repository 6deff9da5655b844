package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yetics/armkit/cmd/armkit/commands"
	"github.com/yetics/armkit/internal/config"
)

// Version info for the armkit tool
// These variables are injected at build time via ldflags by goreleaser
var (
	// Version is the current version of the armkit tool
	Version = "dev"

	// BuildTime is the time at which the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit that was compiled
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	switch command {
	case "--version", "-v", "version":
		_, _ = fmt.Fprintf(os.Stdout, "armkit %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		return nil
	case "--help", "-h", "help":
		printUsage()
		return nil
	case "import", "discover":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	env := commands.Env{Config: cfg, Logger: logger, Stdout: os.Stdout}
	if command == "import" {
		return commands.ImportCommand(ctx, env, args)
	}
	return commands.DiscoverCommand(ctx, env, args)
}

func printUsage() {
	_, _ = fmt.Fprintln(os.Stdout, "armkit - Azure Resource Manager schema importer")
	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintln(os.Stdout, "Usage:")
	_, _ = fmt.Fprintln(os.Stdout, "  armkit <command> [arguments]")
	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintln(os.Stdout, "Commands:")
	_, _ = fmt.Fprintln(os.Stdout, "  import        Generate a construct manifest from a resource schema")
	_, _ = fmt.Fprintln(os.Stdout, "  discover      List the resource schemas a deployment template references")
	_, _ = fmt.Fprintln(os.Stdout, "  version       Print version information")
	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintln(os.Stdout, "Use 'armkit <command> -h' for more information about a command.")
}
