package playback

import (
	"errors"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/xylo/internal/decode"
)

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.ogg"))
	if !errors.Is(err, decode.ErrSourceNotFound) {
		t.Log(err)
		t.Fail()
	}
}
