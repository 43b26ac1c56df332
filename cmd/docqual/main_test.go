package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/docqual/pkg/config"
	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/connector/sources/memory"
	"github.com/ajitpratap0/docqual/pkg/testutil"
)

func memoryOpener(src *memory.Source) sourceOpener {
	return func(context.Context, *config.Config, *zap.Logger) (core.Source, error) {
		return src, nil
	}
}

func execute(t *testing.T, open sourceOpener, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docqual v"+version)
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("DB_NAME", "from_env")

	out, err := execute(t, nil, "config", "--collections", "orders,users")
	require.NoError(t, err)
	assert.Contains(t, out, "database: from_env")
	assert.Contains(t, out, "- orders")
	assert.Contains(t, out, "summary_path: data_quality_report.csv")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	summary := filepath.Join(dir, "summary.csv")
	inventory := filepath.Join(dir, "inventory.csv")

	src := memory.New()
	src.Add("orders", testutil.Doc("id", 1, "amt", 10), testutil.Doc("id", 2, "amt", 10))
	src.Add("logs")

	out, err := execute(t, memoryOpener(src), "run",
		"--summary", summary, "--inventory", inventory, "--workers", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Data Quality Report saved to: "+summary)

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{
		"Collection,RowCount,ColumnCount,DuplicateRows,MissingPercentOver50",
		"orders,2,2,0,0",
		"logs,0,0,N/A,N/A",
	}, lines)

	data, err = os.ReadFile(inventory)
	require.NoError(t, err)
	assert.Contains(t, string(data), "orders,id,amt")
}

func TestInventoryCommandEmptyDatabase(t *testing.T) {
	inventory := filepath.Join(t.TempDir(), "inventory.csv")

	_, err := execute(t, memoryOpener(memory.New()), "inventory", "--inventory", inventory, "--log-level", "error")
	require.Error(t, err)
	assert.NoFileExists(t, inventory)
}

func TestListCommand(t *testing.T) {
	src := memory.New()
	src.Add("a")
	src.Add("b")

	out, err := execute(t, memoryOpener(src), "list", "--collections", "b", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "  - b\n", out)
}

func TestRunHelpMentionsIDExclusion(t *testing.T) {
	out, err := execute(t, nil, "run", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "_id field is excluded by default")
	assert.Contains(t, out, "--exclude-fields")
}
