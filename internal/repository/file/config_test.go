package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/FireKid846/TG-bot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRepo_LoadMissing(t *testing.T) {
	repo := NewConfigRepo(filepath.Join(t.TempDir(), "lib", "config.json"))

	data, err := repo.Load(context.Background())

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, data)
}

func TestConfigRepo_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib", "config.json")
	repo := NewConfigRepo(path)

	err := repo.Save(context.Background(), []byte(`{"cooldown": 2}`))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"cooldown": 2}`, string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConfigRepo_SaveOverwrites(t *testing.T) {
	repo := NewConfigRepo(filepath.Join(t.TempDir(), "config.json"))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []byte("first")))
	require.NoError(t, repo.Save(ctx, []byte("second")))

	data, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestConfigRepo_ConcurrentSaves(t *testing.T) {
	dir := t.TempDir()
	repo := NewConfigRepo(filepath.Join(dir, "config.json"))
	ctx := context.Background()

	const writers = 50
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Save(ctx, []byte(fmt.Sprintf(`{"cooldown": %d}`, i)))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	data, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"cooldown": \d+\}$`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
