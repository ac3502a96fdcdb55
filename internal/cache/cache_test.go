package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"git.lost.host/meutraa/xylo/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAudio(t *testing.T, dir, name string, content []byte) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir, "song.mp3", []byte("ID3 not really an mp3"))
	c := New(filepath.Join(dir, "cache"))

	_, ok := c.Load(audio)
	assert.False(t, ok)

	chart, err := testdata.GetChart()
	require.NoError(t, err)
	chart.Notes = append(chart.Notes, &game.Note{Lane: 1, Time: 3333333333})
	require.NoError(t, c.Store(audio, chart))

	loaded, ok := c.Load(audio)
	require.True(t, ok)
	require.Len(t, loaded.Notes, len(chart.Notes))
	for i, n := range chart.Notes {
		assert.Equal(t, n.Lane, loaded.Notes[i].Lane)
		assert.Equal(t, n.Time, loaded.Notes[i].Time)
		assert.True(t, loaded.Notes[i].Pending())
	}
	assert.InDelta(t, chart.Tempo, loaded.Tempo, 1e-9)
	assert.Equal(t, chart.Duration, loaded.Duration)
}

func TestKeyUsesBaseNameAndPrefix(t *testing.T) {
	dir := t.TempDir()
	a := writeAudio(t, dir, "track.ogg", []byte("aaaa"))
	key, err := Key(a)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "track_"))
	assert.Len(t, key, len("track_")+8)

	// Same name, new content: new key
	require.NoError(t, os.WriteFile(a, []byte("bbbb"), 0o644))
	other, err := Key(a)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	// Bytes after the prefix do not matter
	long := make([]byte, prefixSize+10)
	b := writeAudio(t, dir, "long.wav", long)
	k1, err := Key(b)
	require.NoError(t, err)
	long[prefixSize+5] = 1
	require.NoError(t, os.WriteFile(b, long, 0o644))
	k2, err := Key(b)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestReplacedFileMisses(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir, "song.wav", []byte("first"))
	c := New(dir)
	require.NoError(t, c.Store(audio, &game.Chart{Tempo: 100, Duration: time.Second}))

	require.NoError(t, os.WriteFile(audio, []byte("second"), 0o644))
	_, ok := c.Load(audio)
	assert.False(t, ok)
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir, "song.wav", []byte("content"))
	c := New(dir)
	p, err := c.path(audio)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, []byte("{\"notes\": [tru"), 0o644))

	_, ok := c.Load(audio)
	assert.False(t, ok)
}

func TestMissingSourceIsAMiss(t *testing.T) {
	c := New(t.TempDir())
	_, ok := c.Load(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.False(t, ok)
	assert.Error(t, c.Store(filepath.Join(t.TempDir(), "missing.mp3"), &game.Chart{}))
}

func TestStoreLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir, "song.wav", []byte("content"))
	cacheDir := filepath.Join(dir, "c")
	c := New(cacheDir)
	require.NoError(t, c.Store(audio, &game.Chart{}))

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "song_"))

	data, err := os.ReadFile(filepath.Join(cacheDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"notes\": []")
}
