// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"visualizer/internal/analysis"
	"visualizer/internal/log"
	"visualizer/internal/render"
)

// DefaultInterval is used when a non-positive interval is configured.
const DefaultInterval = 16 * time.Millisecond

// PacketSender writes one datagram per call. *UDPSender implements it.
type PacketSender interface {
	Send(data []byte) error
	Close() error
}

// UDPPublisher sends the most recent band energies on a fixed interval.
// Send only records the latest bands; packing and writing happen on the
// publisher's own goroutine.
type UDPPublisher struct {
	sender   PacketSender
	interval time.Duration
	latest   atomic.Pointer[analysis.BandEnergies]
	now      func() time.Time

	ticker   *time.Ticker   // Ticker that triggers packet sending.
	doneChan chan struct{}  // Signals the publisher goroutine to stop.
	stopOnce sync.Once      // Ensures the stop logic runs only once per Start/Stop cycle.
	wg       sync.WaitGroup // Waits for the publisher goroutine to finish during Stop.
	mu       sync.Mutex     // Protects ticker and doneChan during Start/Stop.

	sequenceNum  uint32
	values       [3]float32
	packetBuffer *bytes.Buffer
	log          *log.Logger
}

// NewUDPPublisher creates a publisher writing through sender. If the
// interval is invalid (<= 0), it defaults to 16ms (~60Hz).
func NewUDPPublisher(interval time.Duration, sender PacketSender) (*UDPPublisher, error) {
	if sender == nil {
		return nil, errors.New("UDPPublisher: UDP sender cannot be nil")
	}

	l := log.Named("udp")
	if interval <= 0 {
		interval = DefaultInterval
		l.Warnf("invalid interval provided, defaulting to %s", interval)
	}

	return &UDPPublisher{
		sender:       sender,
		interval:     interval,
		now:          time.Now,
		packetBuffer: new(bytes.Buffer),
		log:          l,
	}, nil
}

// Publish stores bands as the snapshot for the next packet.
func (p *UDPPublisher) Publish(bands analysis.BandEnergies) {
	p.latest.Store(&bands)
}

// Send accepts render.Frame (or a pointer to one) and
// analysis.BandEnergies values; anything else is ignored.
func (p *UDPPublisher) Send(data any) error {
	switch v := data.(type) {
	case render.Frame:
		p.Publish(v.Bands)
	case *render.Frame:
		p.Publish(v.Bands)
	case analysis.BandEnergies:
		p.Publish(v)
	}
	return nil
}

// Start begins the periodic publishing process. Calling Start on a running
// publisher is a no-op.
func (p *UDPPublisher) Start() error {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		p.log.Warnf("start called but already running")
		return nil
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.log.Infof("publishing band energies every %s", p.interval)
		for {
			select {
			case <-ticker.C:
				p.buildAndSendPacket()
			case <-doneChan:
				return
			}
		}
	}()
	return nil
}

// Stop signals the publisher goroutine to terminate and waits for it.
// It is safe to call Stop multiple times.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}

	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Debugf("publisher goroutine finished")
	return nil
}

// buildAndSendPacket packs the latest snapshot. Nothing is sent before the
// first Publish.
func (p *UDPPublisher) buildAndSendPacket() {
	bands := p.latest.Load()
	if bands == nil {
		return
	}

	p.values = [3]float32{float32(bands.Low), float32(bands.Mid), float32(bands.High)}
	p.sequenceNum++

	pkt := Packet{
		Seq:       p.sequenceNum,
		Timestamp: p.now().UnixNano(),
		Values:    p.values[:],
	}
	if err := pkt.Encode(p.packetBuffer); err != nil {
		p.log.Errorf("error packing packet %d: %v", p.sequenceNum, err)
		return
	}

	if err := p.sender.Send(p.packetBuffer.Bytes()); err == nil {
		p.log.Debugf("sent packet %d (%d bytes)", p.sequenceNum, p.packetBuffer.Len())
	}
}

// Close stops the publisher and closes its sender.
func (p *UDPPublisher) Close() error {
	return errors.Join(p.Stop(), p.sender.Close())
}
