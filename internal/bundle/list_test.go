package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "vitanet.db")
	seedStore(t, storePath, row{"a", 1})

	older := NewManager(storePath, WithClock(func() time.Time { return fixedNow }))
	newer := NewManager(storePath, WithClock(func() time.Time { return fixedNow.Add(time.Hour) }))

	require.True(t, older.Create(context.Background(), filepath.Join(dir, "b-old"), nil).Success)
	require.True(t, newer.Create(context.Background(), filepath.Join(dir, "a-new"), nil).Success)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.vitanet"), []byte("junk"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.vitanet"), 0o700))

	got, err := List(dir)
	require.NoError(t, err)
	require.Len(t, got, 3)

	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.Contains(t, names, "junk.vitanet")

	var valid []Summary
	for _, s := range got {
		if s.Name == "junk.vitanet" {
			assert.NotEmpty(t, s.Error)
			assert.Nil(t, s.Metadata)
			continue
		}
		assert.Empty(t, s.Error)
		valid = append(valid, s)
	}
	require.Len(t, valid, 2)
	assert.Equal(t, "a-new.vitanet", valid[0].Name)
	assert.Equal(t, "b-old.vitanet", valid[1].Name)
	assert.Equal(t, fixedNow.Add(time.Hour), valid[0].CreatedAt())
}

func TestList_MissingDir(t *testing.T) {
	got, err := List(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
