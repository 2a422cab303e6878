package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cudabot/octobot/config"
	"github.com/cudabot/octobot/ipc"
)

var (
	socketPath string
	watch      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve matches over a unix socket",
	Long: `Listen on a unix socket for a local game runner. Each connection is one
match: the runner sends hello, then one observation per turn, and receives one
actions message per observation.

Examples:
  octobot serve
  octobot serve --socket /tmp/octo.sock --config octobot.yaml --watch`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&socketPath, "socket", "/tmp/octobot.sock", "unix socket path")
	serveCmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	printBanner(cmd.OutOrStdout())
	slog.Info("starting octobot", "version", version)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStats()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var live agents
	if err := startWatch(ctx, &live); err != nil {
		return err
	}

	ln, err := ipc.ListenUnix(socketPath)
	if err != nil {
		return err
	}
	defer os.Remove(socketPath)
	slog.Info("listening on domain socket", "path", socketPath)

	err = ipc.Serve(ctx, ln, func(c *ipc.Connection) {
		a, err := newAgent(store)
		if err != nil {
			slog.Error("failed to create agent", "error", err)
			return
		}
		live.add(a)
		a.Register(c)
		c.OnClose(func() {
			live.remove(a)
			slog.Debug("agent released", "session", a.Session(), "live", live.len())
		})
	})
	slog.Info("shutting down")
	return err
}

func startWatch(ctx context.Context, live *agents) error {
	if !watch {
		return nil
	}
	if configPath == "" {
		slog.Warn("--watch needs --config; not watching")
		return nil
	}
	return config.Watch(ctx, fs, configPath, live.reconfigure)
}
