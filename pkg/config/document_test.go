package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalekundert/sparekeys/pkg/plugins"
)

func TestDocumentBlocks(t *testing.T) {
	doc, err := DocumentFromMap(map[string]interface{}{
		"archive": map[string]interface{}{
			"ssh": map[string]interface{}{},
			"file": []interface{}{
				map[string]interface{}{"src": "~/first"},
				map[string]interface{}{"src": "~/second", "disable": true},
			},
			"broken": []interface{}{"not a table"},
			"scalar": "also not a table",
		},
	})
	require.NoError(t, err)

	t.Run("single table yields one block", func(t *testing.T) {
		blocks, err := doc.Blocks(plugins.StageArchive, "ssh")
		require.NoError(t, err)
		assert.Len(t, blocks, 1)
	})

	t.Run("array yields one block per element in order", func(t *testing.T) {
		blocks, err := doc.Blocks(plugins.StageArchive, "file")
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		assert.Equal(t, "~/first", blocks[0].String("src"))
		assert.True(t, blocks[1].Disabled())
	})

	t.Run("absent table yields nil", func(t *testing.T) {
		blocks, err := doc.Blocks(plugins.StageArchive, "gpg")
		require.NoError(t, err)
		assert.Nil(t, blocks)
	})

	t.Run("array of non-tables is a config error", func(t *testing.T) {
		_, err := doc.Blocks(plugins.StageArchive, "broken")
		require.Error(t, err)
	})

	t.Run("scalar in table position is a config error", func(t *testing.T) {
		_, err := doc.Blocks(plugins.StageArchive, "scalar")
		require.Error(t, err)
	})
}

func TestDocumentSprint(t *testing.T) {
	doc, err := DocumentFromMap(map[string]interface{}{
		"archive_name": "{host}",
	})
	require.NoError(t, err)

	assert.Contains(t, doc.Sprint(), "archive_name")
}

func TestSnapshot(t *testing.T) {
	out, err := Snapshot(Default())
	require.NoError(t, err)

	assert.Contains(t, out, "archive_name")
	assert.Contains(t, out, "ssh")
}
