package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-crossval/fold"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFoldFile(t *testing.T) {
	testData := map[string]struct {
		content  string
		expected []fold.Fold
		err      error
	}{
		"valid": {
			content:  "folds:\n  - [0, 1]\n  - [2, 3]\n",
			expected: []fold.Fold{{0, 1}, {2, 3}},
		},
		"empty": {
			content: "folds: []\n",
			err:     errEmptyFoldFile,
		},
		"no folds key": {
			content: "other: 1\n",
			err:     errEmptyFoldFile,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "folds.yaml")
			require.Nil(t, os.WriteFile(path, []byte(td.content), 0o644))

			folds, err := readFoldFile(path)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, folds)
		})
	}
}

func TestReadFoldFileMissing(t *testing.T) {
	_, err := readFoldFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NotNil(t, err)
}
