package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is overridden at link time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "build":
		runBuild(ctx, os.Args[2:])
	case "show":
		runShow(ctx, os.Args[2:])
	case "check":
		runCheck(ctx, os.Args[2:])
	case "install":
		runInstall(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "watch":
		runWatch(ctx, os.Args[2:])
	case "version", "--version":
		fmt.Println("psetup", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`psetup - Package builder for the p Pump.io command-line tool

Usage:
  psetup <command> [options]

Commands:
  build    Build the source distribution and its security artifacts
  show     Print the package descriptor
  check    Validate the manifest and readme
  install  Install the p script into a prefix
  verify   Verify checksums and signature of an sdist
  watch    Rebuild the descriptor whenever the manifest or readme changes
  version  Print the psetup version

Use "psetup <command> --help" for more information about a command.`)
}

// fail prints err the way every subcommand reports errors and exits 1
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
