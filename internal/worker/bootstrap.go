package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
)

const maxMessageBytes = 1 << 20

// Bootstrapper turns the first configuration it receives into a Worker.
// Every later configuration is refused.
type Bootstrapper struct {
	tables Tables
	opts   []Option

	mu     sync.Mutex
	worker *Worker
	booted chan struct{}

	logger *logger.Logger
}

func NewBootstrapper(tables Tables, log *logger.Logger, opts ...Option) *Bootstrapper {
	return &Bootstrapper{
		tables: tables,
		opts:   opts,
		booted: make(chan struct{}),
		logger: log,
	}
}

// Configure builds the worker from cfg. A second call fails with
// ErrAlreadyBootstrapped and leaves the running worker untouched. A failed
// build does not count as a boot.
func (b *Bootstrapper) Configure(ctx context.Context, cfg config.Config) (*Worker, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.worker != nil {
		return nil, ErrAlreadyBootstrapped
	}

	w, err := New(ctx, cfg, b.tables, b.logger, b.opts...)
	if err != nil {
		return nil, err
	}

	b.worker = w
	close(b.booted)
	return w, nil
}

// Worker returns the booted worker, or nil before the first configuration.
func (b *Bootstrapper) Worker() *Worker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.worker
}

// Booted is closed once a worker was built.
func (b *Bootstrapper) Booted() <-chan struct{} {
	return b.booted
}

// Listen reads newline separated JSON messages from r. Messages without a
// configuration are skipped; the first configuration boots the worker and
// Listen returns it. An invalid configuration is fatal.
//
// After the boot r keeps being consumed in the background until it ends or
// ctx is done: further configurations are logged and ignored.
func (b *Bootstrapper) Listen(ctx context.Context, r io.Reader) (*Worker, error) {
	scanner := newScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg, err := config.ParseBootstrap(scanner.Bytes())
		if errors.Is(err, config.ErrNotBootstrapMessage) {
			b.logger.Debug().Msg("skipping message without configuration")
			continue
		}
		if err != nil {
			return nil, err
		}

		w, err := b.Configure(ctx, cfg)
		if err != nil {
			return nil, err
		}
		go b.drain(ctx, scanner)
		return w, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading bootstrap input: %w", err)
	}
	return nil, ErrNoConfiguration
}

func (b *Bootstrapper) drain(ctx context.Context, scanner *bufio.Scanner) {
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		if _, err := config.ParseBootstrap(scanner.Bytes()); errors.Is(err, config.ErrNotBootstrapMessage) {
			continue
		}
		b.logger.Warn().Err(ErrAlreadyBootstrapped).Msg("ignoring repeated configuration")
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageBytes)
	return scanner
}
