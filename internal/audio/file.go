// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"sync"
	"time"

	"visualizer/internal/config"
	"visualizer/internal/fft"
	"visualizer/internal/log"
)

// pumpInterval is how often the file pump catches up with the wall clock.
const pumpInterval = 5 * time.Millisecond

// FileSource plays a decoded audio file into the analyser at real-time
// speed. It produces no sound.
type FileSource struct {
	feed
	path string
	log  *log.Logger

	decode func(string) (*PCM, error)
	now    func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

// NewFileSource returns a source for cfg.InputFile writing into analyser.
func NewFileSource(cfg config.AudioConfig, analyser *fft.Analyser) *FileSource {
	return &FileSource{
		feed:   newFeed(analyser, cfg.GateThreshold),
		path:   cfg.InputFile,
		log:    log.Named("audio"),
		decode: DecodeFile,
		now:    time.Now,
		done:   make(chan struct{}),
	}
}

// Start decodes the file and begins playback. A decode failure is logged
// and the source stays silent.
func (s *FileSource) Start(ctx context.Context) error {
	pcm, err := s.decode(s.path)
	if err != nil {
		s.log.Errorf("error accessing audio file: %v", err)
		close(s.done)
		return nil
	}
	s.log.Infof("playing %s: %d Hz, %.1fs", s.path, pcm.SampleRate, pcm.Duration())

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.pump(ctx, pcm)
	return nil
}

// Done is closed when playback has finished or could not start.
func (s *FileSource) Done() <-chan struct{} { return s.done }

// pump writes every sample whose play time has passed. After the last
// sample the analyser is fed silence so the spectrum decays to zero.
func (s *FileSource) pump(ctx context.Context, pcm *PCM) {
	defer s.wg.Done()
	defer close(s.done)

	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()

	block := make([]float32, 0, s.analyser.FFTSize())
	start := s.now()
	pos := 0

	for pos < len(pcm.Samples) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		due := min(int(s.now().Sub(start).Seconds()*float64(pcm.SampleRate)), len(pcm.Samples))
		for pos < due {
			n := min(due-pos, cap(block))
			block = append(block[:0], pcm.Samples[pos:pos+n]...)
			s.push(block)
			pos += n
		}
	}

	s.analyser.Write(make([]float32, s.analyser.FFTSize()))
	s.log.Infof("finished playing %s", s.path)
}

func (s *FileSource) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}
