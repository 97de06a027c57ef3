// pkg/engine/loop.go
package engine

import (
	"context"
	"time"

	"github.com/opd-ai/go-orrery/pkg/config"
)

// Loop drives a Simulation from one goroutine: a variable-rate frame pass
// and a fixed-rate physics pass that never run concurrently. Parameter
// updates and commands from other goroutines are applied between passes.
type Loop struct {
	sim           *Simulation
	frameInterval time.Duration
	tickInterval  time.Duration
	params        <-chan Parameters
	commands      chan func(*Simulation)

	// OnFrame runs after every frame pass, typically to render.
	OnFrame func(*Simulation)
}

// NewLoop creates a loop for sim at the configured rates.
func NewLoop(sim *Simulation, rates config.LoopConfig) *Loop {
	return &Loop{
		sim:           sim,
		frameInterval: rateInterval(rates.FrameRate, config.DefaultFrameRate),
		tickInterval:  rateInterval(rates.TickRate, config.DefaultTickRate),
		commands:      make(chan func(*Simulation), 16),
	}
}

func rateInterval(hz, fallback int) time.Duration {
	if hz <= 0 {
		hz = fallback
	}
	return time.Second / time.Duration(hz)
}

// WatchParameters makes the loop apply every Parameters value received on ch.
func (l *Loop) WatchParameters(ch <-chan Parameters) {
	l.params = ch
}

// Do queues fn to run on the loop goroutine. It blocks until the command is
// queued or ctx is done.
func (l *Loop) Do(ctx context.Context, fn func(*Simulation)) error {
	select {
	case l.commands <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	frame := time.NewTicker(l.frameInterval)
	defer frame.Stop()
	fixed := time.NewTicker(l.tickInterval)
	defer fixed.Stop()

	last := time.Now()
	params := l.params
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-frame.C:
			dt := now.Sub(last).Seconds()
			last = now
			l.sim.Frame(dt)
			if l.OnFrame != nil {
				l.OnFrame(l.sim)
			}
		case <-fixed.C:
			l.sim.FixedUpdate()
		case p, ok := <-params:
			if !ok {
				params = nil
				continue
			}
			l.sim.SetParameters(p)
		case fn := <-l.commands:
			fn(l.sim)
		}
	}
}
