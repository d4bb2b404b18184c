package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemind/config"
	"notemind/flashcards"
	"notemind/markdown"
)

func runCommand(t *testing.T, newCmd func() *cobra.Command, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := newCmd()
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetIn(strings.NewReader(stdin))
	c.SetArgs(args)
	require.NoError(t, c.Execute())
	return out.String()
}

func TestExtractCommand(t *testing.T) {
	out := runCommand(t, newExtractCommand, "Here is the summary: plain words\n")
	assert.Equal(t, "plain words\n", out)

	out = runCommand(t, newExtractCommand, "chatter\n---\n# Title\ncontent\n---\nbye", "--json")
	assert.Contains(t, out, `"markdown": "# Title\ncontent"`)
}

func TestExtractCommand_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\ncontent"), 0o600))

	out := runCommand(t, newExtractCommand, "", path)
	assert.Equal(t, "# Title\ncontent\n", out)
}

func TestSectionsCommand(t *testing.T) {
	out := runCommand(t, newSectionsCommand, "Intro\n# A\nx\n## B\ny", "--json")

	var sections []markdown.Section
	require.NoError(t, json.Unmarshal([]byte(out), &sections))
	require.Len(t, sections, 3)
	assert.Equal(t, "Introduction", sections[0].Title)
	assert.Equal(t, 2, sections[2].Level)

	out = runCommand(t, newSectionsCommand, "Intro\n# A\nx")
	assert.Equal(t, "# Introduction\nIntro\n# A\nx\n", out)

	out = runCommand(t, newSectionsCommand, "   \n")
	assert.Empty(t, out)
}

func TestSectionsCommand_Extract(t *testing.T) {
	out := runCommand(t, newSectionsCommand, "Sure!\n---\n# A\nx\n---\nBye", "--extract", "--json")

	var sections []markdown.Section
	require.NoError(t, json.Unmarshal([]byte(out), &sections))
	require.Len(t, sections, 1)
	assert.Equal(t, "A", sections[0].Title)
	assert.Equal(t, "x", sections[0].Content)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := RootCommand()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "extract", "sections"})
}

func TestOpenBackend_InMemory(t *testing.T) {
	logger, hook := test.NewNullLogger()
	storage, err := openBackend(context.Background(), config.Default(), logger, true)
	require.NoError(t, err)
	assert.NotNil(t, storage.repo)
	assert.NotNil(t, storage.index)
	assert.NoError(t, storage.close())
	assert.NotEmpty(t, hook.Entries)
}

func TestNewGenerator_DefaultsToOpenAI(t *testing.T) {
	cfg := config.Default()
	generator, closeFn, err := newGenerator(context.Background(), cfg, openai.NewClient())
	require.NoError(t, err)
	assert.IsType(t, &flashcards.OpenAIGenerator{}, generator)
	assert.NoError(t, closeFn())
}
