package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cudabot/octobot/ipc"
	"github.com/cudabot/octobot/model"
)

var (
	runnerURL  string
	playerName string
	sideFlag   string
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Play a match against a websocket runner",
	Long: `Dial a websocket game runner, introduce the bot with a hello message and
answer observations until the runner closes the connection.

Examples:
  octobot connect --url ws://localhost:8080/v1/ws
  octobot connect --url ws://runner:8080/v1/ws --side B --player octo-b`,
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVar(&runnerURL, "url", "ws://localhost:8080/v1/ws", "runner websocket url")
	connectCmd.Flags().StringVar(&playerName, "player", "octobot", "player name sent in hello")
	connectCmd.Flags().StringVar(&sideFlag, "side", "", "A or B; inferred from the first observation when empty")
	connectCmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
	rootCmd.AddCommand(connectCmd)
}

func parseSide(s string) (*model.Side, error) {
	switch s {
	case "":
		return nil, nil
	case "A", "a":
		side := model.SideA
		return &side, nil
	case "B", "b":
		side := model.SideB
		return &side, nil
	}
	return nil, fmt.Errorf("unknown side %q", s)
}

func runConnect(cmd *cobra.Command, args []string) error {
	side, err := parseSide(sideFlag)
	if err != nil {
		return err
	}
	printBanner(cmd.OutOrStdout())
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStats()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	a, err := newAgent(store)
	if err != nil {
		return err
	}
	var live agents
	live.add(a)
	if err := startWatch(ctx, &live); err != nil {
		return err
	}

	t, err := ipc.DialWS(runnerURL)
	if err != nil {
		return err
	}
	slog.Info("connected to runner", "url", runnerURL)

	// The runner never sends hello here, so the agent opens the match itself.
	hello := ipc.HelloMessage{Player: playerName, Side: side}
	env, err := ipc.NewEnvelope(ipc.TypeHello, hello)
	if err != nil {
		return err
	}
	if _, err := a.HandleHello(env); err != nil {
		return err
	}

	c := ipc.NewConnection(t, nil)
	c.Player = playerName
	c.RegisterHandler(ipc.TypeObservation, a.HandleObservation)
	c.RegisterHandler(ipc.TypeGameOver, a.HandleGameOver)
	c.RegisterHandler(ipc.TypeAck, func(env ipc.Envelope) (*ipc.Envelope, error) {
		slog.Debug("runner acknowledged hello")
		return nil, nil
	})
	if err := c.Send(ipc.TypeHello, hello); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		_ = t.Close()
		<-done
	}
	return a.EndMatch(context.Background(), "")
}
