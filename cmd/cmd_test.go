package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cudabot/octobot/config"
	"github.com/cudabot/octobot/model"
)

func TestParseSide(t *testing.T) {
	s, err := parseSide("")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = parseSide("b")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, model.SideB, *s)

	_, err = parseSide("C")
	assert.Error(t, err)
}

func TestAgentsRemove(t *testing.T) {
	cfg = config.Default()
	var live agents
	a, err := newAgent(nil)
	require.NoError(t, err)
	b, err := newAgent(nil)
	require.NoError(t, err)
	live.add(a)
	live.add(b)

	live.remove(a)
	assert.Equal(t, 1, live.len())

	tuned := config.Default()
	tuned.Construction.Count = 4
	live.reconfigure(tuned)
	assert.Equal(t, 4, b.HoldAll().Construction)
	assert.Equal(t, 10, a.HoldAll().Construction, "removed agent must not be reconfigured")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "octobot v"+version+"\n", out.String())
}

func TestReplayNeedsFile(t *testing.T) {
	rootCmd.SetArgs([]string{"replay"})
	defer rootCmd.SetArgs(nil)
	assert.Error(t, rootCmd.Execute())
}
