// Package cli implements the mila CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michaperki/mila/internal/app"
	"github.com/michaperki/mila/internal/config"
	"github.com/michaperki/mila/internal/store"
)

var (
	dbPath     string
	configPath string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mila",
	Short: "Hebrew reading companion",
	Long:  "Split Hebrew text into sentences and clitic-aware tokens, find roots and glosses, and keep a vocabulary of starred words. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MILA_DB or ~/.mila/mila.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $MILA_CONFIG or ./mila.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("MILA_CONFIG")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		p, err := config.ExpandHome(dbPath)
		if err != nil {
			return nil, fmt.Errorf("db path: %w", err)
		}
		cfg.DB.Path = p
	}
	return cfg, nil
}

func loadApp() *app.App {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		exitErr("init", err)
	}
	return a
}

func openStore(a *app.App) *store.SQLiteStore {
	s, err := a.OpenStore()
	if err != nil {
		exitErr("open store", err)
	}
	return s
}

// readInput joins args, or reads stdin when no args are given and stdin is
// not a terminal.
func readInput(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, _ := os.Stdin.Stat()
	if stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return string(b)
	}
	return ""
}

func textFormat() bool {
	return strings.EqualFold(formatFlag, "text")
}

// printJSON writes v as indented JSON on stdout.
func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode output", err)
	}
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
