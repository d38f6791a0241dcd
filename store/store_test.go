package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDBCreatesMainTable(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenDB(filepath.Join(dir, DBFileName))
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='main'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "main", name)
}

func TestZeroize(t *testing.T) {
	masterKey := []byte{1, 2, 3}
	signingSecret := []byte{4, 5, 6}

	Zeroize(masterKey, signingSecret)

	assert.Equal(t, []byte{0, 0, 0}, masterKey)
	assert.Equal(t, []byte{0, 0, 0}, signingSecret)
}
