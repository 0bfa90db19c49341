// Package supervisor manages the tini-presence-core helper process: spawn,
// kill, orphan cleanup, the protocol write path, and the read workers that
// route helper output into cached state and events.
package supervisor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/tini-presence/tinibar/internal/protocol"
	"github.com/tini-presence/tinibar/internal/state"
)

// ErrNotRunning is returned by Send when no helper is active.
var ErrNotRunning = errors.New("helper not running")

// Options configures a Supervisor.
type Options struct {
	// HelperPath is the resolved helper executable.
	HelperPath string
	// HelperName is the logical executable name used by the orphan sweep.
	HelperName string
	// Args are extra arguments passed to the helper.
	Args []string
	// SweepSettle overrides the pause after the orphan sweep.
	SweepSettle time.Duration
	// Sweep overrides the orphan sweep itself. Nil uses pkill matching.
	Sweep func()
}

// Supervisor owns the helper child process. There is at most one live child
// at any time. The child handle is guarded by its own mutex, held only for
// spawn/kill/write — never across the read loop's I/O wait — so sending a
// command never blocks behind a pending read.
type Supervisor struct {
	opts  Options
	store *state.Store
	sink  Sink

	mu    sync.Mutex
	child *exec.Cmd
	stdin io.WriteCloser
	gen   uint64 // child generation; bumped on spawn and on Stop
}

// New creates a Supervisor writing into store and emitting events to sink.
func New(opts Options, store *state.Store, sink Sink) *Supervisor {
	if opts.SweepSettle <= 0 {
		opts.SweepSettle = defaultSweepSettle
	}
	return &Supervisor{opts: opts, store: store, sink: sink}
}

// Store returns the state store the supervisor writes into.
func (s *Supervisor) Store() *state.Store {
	return s.store
}

// Start launches the helper if it is not already running. Already running is
// a no-op. The orphan sweep always runs before spawning. Spawn failure
// leaves state unchanged, raises a diagnostic and returns the error; it is
// never fatal to the caller.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	if s.child != nil {
		s.mu.Unlock()
		return nil
	}

	s.sweep()

	cmd := exec.Command(s.opts.HelperPath, s.opts.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.mu.Unlock()
		diagnostic(s.sink, fmt.Sprintf("Failed to spawn helper: %v", err))
		return fmt.Errorf("helper stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		s.mu.Unlock()
		diagnostic(s.sink, fmt.Sprintf("Failed to spawn helper: %v", err))
		return fmt.Errorf("helper stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		s.mu.Unlock()
		diagnostic(s.sink, fmt.Sprintf("Failed to spawn helper: %v", err))
		return fmt.Errorf("helper stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		_ = stderr.Close()
		s.mu.Unlock()
		diagnostic(s.sink, fmt.Sprintf("Failed to spawn helper: %v", err))
		return fmt.Errorf("spawn helper: %w", err)
	}

	s.child = cmd
	s.stdin = stdin
	s.gen++
	gen := s.gen
	s.store.SetRunning(true)
	s.mu.Unlock()

	log.Printf("Started %s (PID %d)", s.opts.HelperName, cmd.Process.Pid)
	diagnostic(s.sink, "Helper started")
	serviceStatus(s.sink, true)

	// The read workers live exactly as long as the child: killing it closes
	// both pipes, which ends the loops and lets the waiter reap the exit.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.readLoop(stdout)
	}()
	go func() {
		defer wg.Done()
		s.stderrLoop(stderr)
	}()
	go func() {
		wg.Wait()
		s.handleExit(gen, cmd.Wait())
	}()

	if err := s.Send("get-config", nil); err != nil {
		diagnostic(s.sink, "Failed to request config")
	}
	return nil
}

// Stop kills the helper if running. Not running is a no-op: no events, no
// error. Cached status and config are cleared together and both cleared
// events are raised with explicit absent values.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.child == nil {
		s.mu.Unlock()
		return
	}
	child := s.child
	s.child = nil
	s.stdin = nil
	s.gen++ // mark the pending exit notification as expected
	s.store.Clear()
	s.mu.Unlock()

	_ = child.Process.Kill()
	log.Printf("Stopped %s", s.opts.HelperName)

	serviceStatus(s.sink, false)
	trackStatus(s.sink, nil)
	configUpdated(s.sink, nil)
}

// Send encodes a command and writes it to the helper's stdin. Returns
// ErrNotRunning when no child is active. A write failure (typically a broken
// pipe from a dying helper) is reported to the caller and as a diagnostic
// but does not by itself flip the running state; the exit waiter does that.
func (s *Supervisor) Send(command string, payload any) error {
	line, err := protocol.EncodeCommand(protocol.NewCommand(command, payload))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stdin == nil {
		return ErrNotRunning
	}
	if _, err := s.stdin.Write(line); err != nil {
		diagnostic(s.sink, fmt.Sprintf("Failed to send %q to helper: %v", command, err))
		return fmt.Errorf("write command %q: %w", command, err)
	}
	return nil
}

// Running reports whether a helper child is currently active.
func (s *Supervisor) Running() bool {
	return s.store.Running()
}

func (s *Supervisor) sweep() {
	if s.opts.Sweep != nil {
		s.opts.Sweep()
		return
	}
	sweepOrphans(s.opts.HelperName, s.opts.SweepSettle)
}

// readLoop drains helper stdout through the protocol decoder and router.
// It blocks only on the next read and exits when the pipe closes.
func (s *Supervisor) readLoop(stdout io.Reader) {
	r := &router{store: s.store, sink: s.sink}
	var dec protocol.Decoder
	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			for _, ln := range dec.Feed(buf[:n]) {
				if ln.Msg != nil {
					r.route(*ln.Msg, ln.Raw)
				} else {
					r.routeRaw(ln.Raw)
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// stderrLoop forwards each non-empty stderr line verbatim as a diagnostic.
// stderr is plain helper logging, never subject to protocol parsing.
func (s *Supervisor) stderrLoop(stderr io.Reader) {
	sc := bufio.NewScanner(stderr)
	// Crashing helpers can dump single-line payloads well past the default
	// 64KB token limit; an oversized line must not end stderr forwarding.
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			diagnostic(s.sink, line)
		}
	}
}

// handleExit runs once the child has been reaped. For an exit caused by
// Stop() the generation is stale and only the terminated diagnostic is
// emitted. A current generation means the helper died on its own: transition
// to Stopped, clear the caches together and raise the same event set Stop()
// would, so the UI never shows a stale running indicator.
func (s *Supervisor) handleExit(gen uint64, waitErr error) {
	code := "unknown"
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code = fmt.Sprintf("%d", exitErr.ExitCode())
	} else if waitErr == nil {
		code = "0"
	}

	s.mu.Lock()
	expected := s.gen != gen || s.child == nil
	if !expected {
		s.child = nil
		s.stdin = nil
		s.store.Clear()
	}
	s.mu.Unlock()

	diagnostic(s.sink, fmt.Sprintf("Helper terminated: code=%s", code))
	if expected {
		return
	}

	log.Printf("%s exited unexpectedly (code=%s)", s.opts.HelperName, code)
	serviceStatus(s.sink, false)
	trackStatus(s.sink, nil)
	configUpdated(s.sink, nil)
}
