package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "boxoffice", cmd.Use)
	assert.Contains(t, cmd.Long, "ticket ledger")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"create-event", "purchase", "purchase-batch", "transfer",
		"show", "price", "events", "tickets", "history", "stats",
		"tick", "account", "seed", "verify", "test", "serve",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestNestedCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	paths := [][]string{
		{"show", "event"},
		{"show", "ticket"},
		{"account", "fund"},
		{"account", "balance"},
	}

	for _, path := range paths {
		t.Run(path[0]+"_"+path[1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "boxoffice.yaml", configFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	bankFlag := cmd.PersistentFlags().Lookup("bank")
	require.NotNil(t, bankFlag)
	assert.Equal(t, "", bankFlag.DefValue)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCreateEventCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	createCmd, _, err := cmd.Find([]string{"create-event"})
	require.NoError(t, err)

	for _, name := range []string{"as", "name", "description", "venue", "type", "height", "supply", "price", "at"} {
		assert.NotNil(t, createCmd.Flags().Lookup(name), "flag --%s should exist", name)
	}
}

func TestPurchaseBatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	batchCmd, _, err := cmd.Find([]string{"purchase-batch"})
	require.NoError(t, err)

	quantityFlag := batchCmd.Flags().Lookup("quantity")
	require.NotNil(t, quantityFlag)
	assert.Equal(t, "0", quantityFlag.DefValue)

	require.NotNil(t, batchCmd.Flags().Lookup("seats"))
	require.NotNil(t, batchCmd.Flags().Lookup("group-discount"))
}

func TestTicketsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	ticketsCmd, _, err := cmd.Find([]string{"tickets"})
	require.NoError(t, err)

	require.NotNil(t, ticketsCmd.Flags().Lookup("owner"))
	require.NotNil(t, ticketsCmd.Flags().Lookup("event"))
}

func TestTickCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	tickCmd, _, err := cmd.Find([]string{"tick"})
	require.NoError(t, err)

	byFlag := tickCmd.Flags().Lookup("by")
	require.NotNil(t, byFlag)
	assert.Equal(t, "1", byFlag.DefValue)
}

func TestSeedCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	seedCmd, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)

	require.NotNil(t, seedCmd.Flags().Lookup("as"))
	dryRunFlag := seedCmd.Flags().Lookup("dry-run")
	require.NotNil(t, dryRunFlag)
	assert.Equal(t, "false", dryRunFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	require.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	require.NotNil(t, serveCmd.Flags().Lookup("listen"))
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	assert.Contains(t, cmd.Short, "boxoffice")
	assert.Contains(t, cmd.Long, "demand-sensitive pricing")
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "events"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
