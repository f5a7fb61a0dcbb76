// Package profile selects between the runtime profiles of pkg/profile and
// the per-frame timings of the Gio profiler.
package profile

import (
	"fmt"
	"log"
	"strings"

	"gioui.org/layout"
	"gioui.org/x/profiling"
	"github.com/pkg/profile"
)

// Mode names a kind of profile.
type Mode string

const (
	None      Mode = "none"
	CPU       Mode = "cpu"
	Memory    Mode = "mem"
	Block     Mode = "block"
	Goroutine Mode = "goroutine"
	Mutex     Mode = "mutex"
	Trace     Mode = "trace"
	// Frame records the duration of every frame to a CSV file.
	Frame Mode = "frame"
)

// Modes lists every supported mode.
var Modes = []Mode{None, CPU, Memory, Block, Goroutine, Mutex, Trace, Frame}

// runtimeModes maps modes to the pkg/profile option that enables them.
var runtimeModes = map[Mode]func(*profile.Profile){
	CPU:       profile.CPUProfile,
	Memory:    profile.MemProfile,
	Block:     profile.BlockProfile,
	Goroutine: profile.GoroutineProfile,
	Mutex:     profile.MutexProfile,
	Trace:     profile.TraceProfile,
}

func (m Mode) String() string {
	if m == "" {
		return string(None)
	}
	return string(m)
}

// Set implements flag.Value.
func (m *Mode) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, mode := range Modes {
		if string(mode) == s {
			*m = mode
			return nil
		}
	}
	if s == "" {
		*m = None
		return nil
	}
	return fmt.Errorf("unknown profile %q, want one of %v", s, Modes)
}

// Session is a running profile. The zero value profiles nothing.
type Session struct {
	mode     Mode
	stop     func()
	recorder *profiling.CSVTimingRecorder
}

// Start profiling. Runtime profiles are written to dir, or to a temporary
// directory when dir is empty.
func Start(mode Mode, dir string) (*Session, error) {
	s := &Session{mode: mode}
	switch mode {
	case "", None:
	case Frame:
		r, err := profiling.NewRecorder(nil)
		if err != nil {
			return nil, fmt.Errorf("starting frame profile: %w", err)
		}
		s.recorder = r
	default:
		opt, ok := runtimeModes[mode]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", mode)
		}
		opts := []func(*profile.Profile){opt, profile.NoShutdownHook}
		if dir != "" {
			opts = append(opts, profile.ProfilePath(dir))
		}
		s.stop = profile.Start(opts...).Stop
	}
	return s, nil
}

// Mode of the session.
func (s *Session) Mode() Mode {
	return s.mode
}

// Record the timings of the frame being laid out.
func (s *Session) Record(gtx layout.Context) {
	if s == nil || s.recorder == nil {
		return
	}
	s.recorder.Profile(gtx)
}

// Stop profiling and flush the profile. Stopping twice is a no-op.
func (s *Session) Stop() {
	if s == nil {
		return
	}
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	if s.recorder != nil {
		if err := s.recorder.Stop(); err != nil {
			log.Printf("stopping frame profile: %v", err)
		}
		s.recorder = nil
	}
}
