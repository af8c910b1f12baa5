package cli

import (
	"strings"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecReader(t *testing.T) {
	t.Parallel()

	var lines []string
	err := ExecReader(strings.NewReader("PAPP 00750\n\n  show \r\nsend"), func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PAPP 00750", "show", "send"}, lines)
}

func TestSuggester(t *testing.T) {
	t.Parallel()

	complete := Suggester("show", "send", "clear")
	buf := prompt.NewBuffer()
	buf.InsertText("s", false, true)
	got := complete(*buf.Document())
	texts := make([]string, 0, len(got))
	for _, s := range got {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"show", "send"}, texts)
}
