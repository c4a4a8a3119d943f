package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf-docat-backend/internal/engine"
)

func TestParseBlocks_HeadingsAndParagraphs(t *testing.T) {
	blocks := engine.ParseBlocks("# Invoice\n\nTotal due by Friday.\nSee attached.\n\n## Details")

	require.Len(t, blocks, 3)
	assert.Equal(t, "heading", blocks[0].Type)
	assert.Equal(t, "Invoice", blocks[0].Content)
	assert.Equal(t, 1, blocks[0].Level)

	assert.Equal(t, "text", blocks[1].Type)
	assert.Equal(t, "Total due by Friday.\nSee attached.", blocks[1].Content)

	assert.Equal(t, "heading", blocks[2].Type)
	assert.Equal(t, 2, blocks[2].Level)
}

func TestParseBlocks_CodeFence(t *testing.T) {
	blocks := engine.ParseBlocks("```python\nprint(\"hi\")\n```\nafter")

	require.Len(t, blocks, 2)
	assert.Equal(t, "code", blocks[0].Type)
	assert.Equal(t, "python", blocks[0].Language)
	assert.Equal(t, "print(\"hi\")", blocks[0].Content)
	assert.Equal(t, "text", blocks[1].Type)
}

func TestParseBlocks_Table(t *testing.T) {
	blocks := engine.ParseBlocks("| Item | Qty |\n| --- | --- |\n| Pens | 3 |\n| Paper | 12 |")

	require.Len(t, blocks, 1)
	assert.Equal(t, "table", blocks[0].Type)
	assert.Equal(t, []string{"Item", "Qty"}, blocks[0].Headers)
	require.Len(t, blocks[0].Rows, 2)
	assert.Equal(t, []string{"Pens", "3"}, blocks[0].Rows[0])
	assert.Equal(t, []string{"Paper", "12"}, blocks[0].Rows[1])
}

func TestParseBlocks_TableFollowedByText(t *testing.T) {
	blocks := engine.ParseBlocks("| A | B |\n| 1 | 2 |\nplain line")

	require.Len(t, blocks, 2)
	assert.Equal(t, "table", blocks[0].Type)
	assert.Equal(t, "text", blocks[1].Type)
	assert.Equal(t, "plain line", blocks[1].Content)
}

func TestParseBlocks_Empty(t *testing.T) {
	assert.Empty(t, engine.ParseBlocks(""))
	assert.Empty(t, engine.ParseBlocks("\n\n  \n"))
}

func TestCountWords(t *testing.T) {
	blocks := engine.ParseBlocks("# Title\n\none two three\n\n| H1 | H2 |\n| a b | c |")
	// Title + 3 paragraph words + 2 headers + 3 cell words.
	assert.Equal(t, 9, engine.CountWords(blocks))
}
