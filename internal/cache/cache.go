// Package cache stores generated charts on disk, one JSON file per audio
// file, keyed by the file name and a fingerprint of its first bytes.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"github.com/cespare/xxhash/v2"
)

// Only this many leading bytes of the audio file are fingerprinted.
const prefixSize = 8192

type noteEntry struct {
	Time float64 `json:"time"`
	Lane int     `json:"lane"`
}

type entry struct {
	Notes    []noteEntry `json:"notes"`
	Tempo    float64     `json:"tempo"`
	Duration float64     `json:"duration"`
}

type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) Dir() string {
	return c.dir
}

// Fingerprint hashes the first bytes of the file and keeps eight hex digits.
func Fingerprint(audioFile string) (string, error) {
	f, err := os.Open(audioFile)
	if nil != err {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.CopyN(h, f, prefixSize); nil != err && !errors.Is(err, io.EOF) {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64())[:8], nil
}

// Key combines the base name without extension with the fingerprint.
func Key(audioFile string) (string, error) {
	digest, err := Fingerprint(audioFile)
	if nil != err {
		return "", err
	}
	base := filepath.Base(audioFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_" + digest, nil
}

func (c *Cache) path(audioFile string) (string, error) {
	key, err := Key(audioFile)
	if nil != err {
		return "", err
	}
	return filepath.Join(c.dir, key+".json"), nil
}

// Load returns the cached chart for the audio file. Missing, unreadable or
// corrupt entries are all reported as a miss.
func (c *Cache) Load(audioFile string) (*game.Chart, bool) {
	p, err := c.path(audioFile)
	if nil != err {
		log.Println("unable to fingerprint", audioFile, err)
		return nil, false
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	} else if nil != err {
		log.Println("unable to read cache entry", p, err)
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); nil != err {
		log.Println("ignoring corrupt cache entry", p, err)
		return nil, false
	}
	return e.chart(), true
}

// Store writes the entry to a temporary file first so a reader never sees a
// partially written chart.
func (c *Cache) Store(audioFile string, chart *game.Chart) error {
	p, err := c.path(audioFile)
	if nil != err {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); nil != err {
		return fmt.Errorf("unable to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if nil != err {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newEntry(chart)); nil != err {
		tmp.Close()
		return fmt.Errorf("unable to encode chart: %w", err)
	}
	if err := tmp.Close(); nil != err {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func newEntry(chart *game.Chart) entry {
	e := entry{
		Notes:    make([]noteEntry, len(chart.Notes)),
		Tempo:    chart.Tempo,
		Duration: chart.Duration.Seconds(),
	}
	for i, n := range chart.Notes {
		e.Notes[i] = noteEntry{Time: n.Time.Seconds(), Lane: n.Lane}
	}
	return e
}

func (e entry) chart() *game.Chart {
	chart := &game.Chart{
		Notes:    make([]*game.Note, len(e.Notes)),
		Tempo:    e.Tempo,
		Duration: seconds(e.Duration),
	}
	for i, n := range e.Notes {
		chart.Notes[i] = &game.Note{Lane: n.Lane, Time: seconds(n.Time)}
	}
	return chart
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
