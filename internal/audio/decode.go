// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNotWavFile        = errors.New("not a valid WAV file")
	ErrEmptyStream       = errors.New("audio stream contains no samples")
)

// PCM is a fully decoded mono signal.
type PCM struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the playing time of the signal.
func (p *PCM) Duration() float64 {
	if p.SampleRate == 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(p.SampleRate)
}

// DecodeFile decodes a WAV, MP3 or Ogg Vorbis file chosen by extension and
// downmixes it to mono.
func DecodeFile(path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var pcm *PCM
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		pcm, err = decodeWAV(f)
	case ".mp3":
		pcm, err = decodeMP3(f)
	case ".ogg", ".oga":
		pcm, err = decodeOgg(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if len(pcm.Samples) == 0 {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), ErrEmptyStream)
	}
	return pcm, nil
}

func decodeWAV(r io.ReadSeeker) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrNotWavFile
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	return &PCM{
		Samples:    intBufferToMono(buf, bitDepth),
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// intBufferToMono scales integer PCM of the given bit depth to [-1,1] and
// averages the channels of each frame.
func intBufferToMono(buf *audio.IntBuffer, bitDepth int) []float32 {
	channels := max(buf.Format.NumChannels, 1)
	scale := float32(1)
	if bitDepth > 1 {
		scale = 1 / float32(int64(1)<<(bitDepth-1))
	}

	out := make([]float32, len(buf.Data)/channels)
	for i := range out {
		var sum float32
		for c := range channels {
			sum += float32(buf.Data[i*channels+c]) * scale
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// go-mp3 always produces 16-bit little-endian stereo.
func decodeMP3(r io.Reader) (*PCM, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	const channels = 2
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		samples[i] = float32(int16(uint16(raw[2*i])|uint16(raw[2*i+1])<<8)) / 32768.0
	}
	return &PCM{Samples: Downmix(samples, channels), SampleRate: dec.SampleRate()}, nil
}

func decodeOgg(r io.Reader) (*PCM, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &PCM{Samples: Downmix(data, format.Channels), SampleRate: format.SampleRate}, nil
}

// Downmix averages interleaved frames of the given channel count into mono.
// A trailing partial frame is dropped.
func Downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}

	out := make([]float32, len(interleaved)/channels)
	for i := range out {
		var sum float32
		for _, s := range interleaved[i*channels : (i+1)*channels] {
			sum += s
		}
		out[i] = sum / float32(channels)
	}
	return out
}
