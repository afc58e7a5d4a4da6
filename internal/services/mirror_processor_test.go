package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingMirrorer struct {
	calls atomic.Int32
}

func (m *countingMirrorer) MirrorNow(context.Context) error {
	m.calls.Add(1)
	return nil
}

func TestDefaultMirrorProcessorConfig(t *testing.T) {
	config := DefaultMirrorProcessorConfig()
	if config.Interval != 5*time.Minute {
		t.Errorf("expected Interval 5m, got %v", config.Interval)
	}
}

func TestNewMirrorProcessor_DefaultsInterval(t *testing.T) {
	p := NewMirrorProcessor(&countingMirrorer{}, MirrorProcessorConfig{})
	if p.config.Interval != 5*time.Minute {
		t.Errorf("expected default interval, got %v", p.config.Interval)
	}
	if p.IsRunning() {
		t.Error("processor should not be running initially")
	}
}

func TestMirrorProcessor_StartTwice(t *testing.T) {
	p := NewMirrorProcessor(&countingMirrorer{}, MirrorProcessorConfig{Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Start(ctx); err == nil {
		t.Error("expected error when starting already running processor")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if p.IsRunning() {
		t.Error("processor should not be running after Stop")
	}
}

func TestMirrorProcessor_StopNotRunning(t *testing.T) {
	p := NewMirrorProcessor(&countingMirrorer{}, DefaultMirrorProcessorConfig())
	if err := p.Stop(context.Background()); err != nil {
		t.Errorf("Stop on non-running processor should return nil, got %v", err)
	}
}

func TestMirrorProcessor_MirrorsImmediatelyAndOnTick(t *testing.T) {
	m := &countingMirrorer{}
	p := NewMirrorProcessor(m, MirrorProcessorConfig{Interval: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := m.calls.Load(); got < 2 {
		t.Fatalf("expected at least 2 mirror runs, got %d", got)
	}
}
