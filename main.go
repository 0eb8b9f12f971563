package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/sitegen/internal/commands"
	"github.com/gerunddev/sitegen/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		commands.Build(os.Args[2:])
	case "watch":
		commands.Watch(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "preview":
		commands.Preview(os.Args[2:])
	case "status":
		commands.Status(os.Args[2:])
	case "title":
		commands.Title(os.Args[2:])
	case "init":
		commands.Init(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("sitegen v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`sitegen - Static site generator for a small Markdown dialect

Usage:
  sitegen <command> [options]

Commands:
  build       Generate the public site (use --dry-run to preview)
  watch       Rebuild changed pages every interval
  diff        Show how a page's output would change on the next build
  preview     Render a Markdown page in the terminal
  status      List pages and what the next build would do
  title       Print the title extracted from a page
  init        Write a default config and starter site
  version     Show version information
  help        Show this help message

Options:
  --config F      Use config file F
  --base-path P   Prefix root-relative links with P (build)
  --force         Rebuild every page (build, status)
  --dry-run       Render without writing anything (build)
  --interval D    Rebuild interval, e.g. 5s (watch)

Examples:
  sitegen init
  sitegen build
  sitegen build --base-path /blog/
  sitegen watch --interval 5s
  sitegen status
  sitegen diff content/index.md
  sitegen title content/index.md

Configuration:
  Config file: ./%s or %s
  State file:  %s
`, config.LocalConfigFile, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
