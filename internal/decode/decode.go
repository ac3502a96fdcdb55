// Package decode turns compressed audio files into mono float samples at a
// fixed sample rate.
package decode

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var (
	ErrSourceNotFound = errors.New("audio source not found")
	ErrDecodeFailure  = errors.New("unable to decode audio")
)

// Extensions lists the formats Open understands.
var Extensions = []string{".mp3", ".ogg", ".wav"}

func Supported(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Open picks a decoder by file extension.
func Open(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrSourceNotFound, file)
	} else if nil != err {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: unsupported format %s", ErrDecodeFailure, filepath.Ext(file))
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return streamer, format, nil
}

// File decodes the whole file, mixes it down to mono and resamples it.
func File(file string, sampleRate int) ([]float64, error) {
	streamer, format, err := Open(file)
	if nil != err {
		return nil, err
	}
	defer streamer.Close()

	samples, err := Mono(streamer, format.SampleRate, beep.SampleRate(sampleRate))
	if nil != err {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return samples, nil
}

// Mono drains the streamer, averaging both channels.
func Mono(s beep.Streamer, from, to beep.SampleRate) ([]float64, error) {
	var source beep.Streamer = s
	if from != to {
		source = beep.Resample(4, from, to, s)
	}

	var out []float64
	buf := make([][2]float64, 4096)
	for {
		n, ok := source.Stream(buf)
		for _, frame := range buf[:n] {
			out = append(out, (frame[0]+frame[1])/2)
		}
		if !ok {
			break
		}
	}
	if err := source.Err(); nil != err {
		return nil, err
	}
	return out, nil
}
