package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Mirrorer copies the stored dataset to its mirror.
type Mirrorer interface {
	MirrorNow(ctx context.Context) error
}

// MirrorProcessorConfig holds configuration for the mirror processor
type MirrorProcessorConfig struct {
	// Interval is how often the whole dataset is mirrored (default: 5m)
	Interval time.Duration
}

func DefaultMirrorProcessorConfig() MirrorProcessorConfig {
	return MirrorProcessorConfig{Interval: 5 * time.Minute}
}

// MirrorProcessor re-mirrors the dataset on a fixed interval, covering
// change messages that were never published or got lost.
type MirrorProcessor struct {
	mirrorer Mirrorer
	config   MirrorProcessorConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewMirrorProcessor(m Mirrorer, config MirrorProcessorConfig) *MirrorProcessor {
	if config.Interval <= 0 {
		config.Interval = DefaultMirrorProcessorConfig().Interval
	}
	return &MirrorProcessor{mirrorer: m, config: config}
}

// Start begins the processing loop. Returns an error if already running.
func (p *MirrorProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("mirror processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Mirror processor started", "interval", p.config.Interval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *MirrorProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Mirror processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Mirror processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *MirrorProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *MirrorProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.mirror(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mirror(ctx)
		}
	}
}

func (p *MirrorProcessor) mirror(ctx context.Context) {
	if err := p.mirrorer.MirrorNow(ctx); err != nil {
		slog.ErrorContext(ctx, "Periodic mirror failed", "error", err)
	}
}
