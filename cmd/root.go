package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cudabot/octobot/agent"
	"github.com/cudabot/octobot/config"
	"github.com/cudabot/octobot/stats"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	fs  = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "octobot",
	Short: "Tactical decision engine for the octospace grid game",
	Long: `octobot plays one side of an octospace match: every turn it reads the
observation, assigns each ship a role and answers with one action per ship.

Available commands:
  serve     Answer a local game runner over a unix socket
  connect   Play against a remote runner over a websocket
  replay    Re-run a recorded match and report divergent turns`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(fs, configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") || loaded.LogLevel == "" {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		setupLogging(cfg.LogLevel)
		slog.Debug("config loaded", "path", configPath, "config", cfg)
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		l = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
}

// agents tracks live agents so a config reload reaches all of them.
type agents struct {
	mu   sync.Mutex
	list []*agent.Agent
}

func (as *agents) add(a *agent.Agent) {
	as.mu.Lock()
	as.list = append(as.list, a)
	as.mu.Unlock()
}

func (as *agents) remove(a *agent.Agent) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.list = slices.DeleteFunc(as.list, func(x *agent.Agent) bool { return x == a })
}

func (as *agents) len() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return len(as.list)
}

func (as *agents) reconfigure(c *config.Config) {
	as.mu.Lock()
	defer as.mu.Unlock()
	for _, a := range as.list {
		if err := a.Reconfigure(c); err != nil {
			slog.Warn("agent kept previous rules", "error", err)
		}
	}
}

// openStats opens the stats database when one is configured.
func openStats() (*stats.Store, error) {
	if cfg.Stats.Path == "" {
		return nil, nil
	}
	s, err := stats.Open(cfg.Stats.Path)
	if err != nil {
		return nil, fmt.Errorf("open stats: %w", err)
	}
	slog.Info("recording stats", "path", cfg.Stats.Path)
	return s, nil
}

func newAgent(store *stats.Store) (*agent.Agent, error) {
	a, err := agent.New(cfg)
	if err != nil {
		return nil, err
	}
	a.Fs = fs
	a.Stats = store
	return a, nil
}
