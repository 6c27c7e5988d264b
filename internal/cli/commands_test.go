package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fraudlab/txload/pkg/txload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["load"])
	assert.True(t, names["version"])
}

func TestHostShorthand(t *testing.T) {
	for _, cmd := range []string{"", "load"} {
		c := rootCmd
		if cmd != "" {
			found, _, err := rootCmd.Find([]string{cmd})
			require.NoError(t, err)
			c = found
		}
		flag := c.Flags().ShorthandLookup("h")
		require.NotNil(t, flag, "command %q", c.Name())
		assert.Equal(t, "host", flag.Name)
	}
}

func TestUsageErrorsMapToExitCode(t *testing.T) {
	tests := [][]string{
		{"--no-such-flag"},
		{"surprise"},
		{"load", "--port"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(args)
			t.Cleanup(func() {
				rootCmd.SetArgs(nil)
				rootCmd.SetOut(nil)
				rootCmd.SetErr(nil)
			})

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Equal(t, txload.ExitUsageError, txload.ExitCodeForError(err), err.Error())
		})
	}
}

func TestPrintSuccess_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf)
	assert.Equal(t, "Data imported successfully!\n", buf.String())
}

func TestPrintTableSummary(t *testing.T) {
	var buf bytes.Buffer
	printTableSummary(&buf, &txload.Result{
		RunID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Tables: []txload.TableResult{
			{Dataset: "train", Table: "train_transactions", Rows: 1296675, Columns: 23},
			{Dataset: "test", Table: "test_transactions", Rows: 555719, Columns: 23},
		},
		Duration: 1500 * time.Millisecond,
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "train_transactions: 1296675 rows, 23 columns")
	assert.Contains(t, lines[1], "test_transactions: 555719 rows, 23 columns")
	assert.Contains(t, lines[2], "1852394 rows in 1.5s")
}

func TestVersion(t *testing.T) {
	origV, origC, origD := version, commit, date
	t.Cleanup(func() { version, commit, date = origV, origC, origD })

	version, commit, date = "1.2.3", "abc1234", "2026-01-01"
	v, c, d := resolveVersionInfo()
	assert.Equal(t, "1.2.3", v)
	assert.Equal(t, "abc1234", c)
	assert.Equal(t, "2026-01-01", d)

	var buf bytes.Buffer
	printVersionInfo(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "txload 1.2.3 (abc1234, 2026-01-01) "), buf.String())
}
