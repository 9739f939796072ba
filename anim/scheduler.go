package anim

import (
	"log"

	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/host"
)

// State is the binding state of a Scheduler.
type State int

const (
	Unbound State = iota
	Bound
)

func (s State) String() string {
	if s == Bound {
		return "bound"
	}
	return "unbound"
}

// Scheduler advances every bound patch once per tick and copies the current
// frame cell into the target bitmap on frame boundaries. It runs on the
// host's update thread and is not safe for concurrent use.
type Scheduler struct {
	registry Registry
	resolver *Resolver
	logger   *log.Logger
	copyFn   CopyFunc

	schema  Schema
	verbose bool

	state         State
	tick          uint32
	patches       []*BoundPatch
	pendingRebind bool
}

type Option func(*Scheduler)

func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithVerbose enables trace messages.
func WithVerbose(v bool) Option {
	return func(s *Scheduler) { s.verbose = v }
}

// WithSchema overrides the member names read from live patches.
func WithSchema(schema Schema) Option {
	return func(s *Scheduler) { s.schema = schema }
}

// WithCopier replaces the region copier.
func WithCopier(fn CopyFunc) Option {
	return func(s *Scheduler) { s.copyFn = fn }
}

func NewScheduler(reg Registry, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: reg,
		logger:   log.Default(),
		copyFn:   bitmap.Copy,
		schema:   DefaultSchema(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.resolver = NewResolver(s.schema, s.logger, s.verbose)
	return s
}

func (s *Scheduler) State() State {
	return s.state
}

// Tick returns the global tick counter.
func (s *Scheduler) Tick() uint32 {
	return s.tick
}

// Patches returns the bound patches.
func (s *Scheduler) Patches() []*BoundPatch {
	out := make([]*BoundPatch, 0, len(s.patches))
	return append(out, s.patches...)
}

// Handle routes host events: ticks run Update, reload events run Rebind.
func (s *Scheduler) Handle(ev host.Event) {
	switch {
	case ev.Type == host.EventTick:
		s.Update()
	case ev.Reloads():
		s.Rebind()
	}
}

// bind resolves patches the first time the registry is ready. It reports
// whether the scheduler is bound afterwards.
func (s *Scheduler) bind() bool {
	if s.state == Bound {
		return true
	}
	patches, _, ok := s.resolver.Resolve(s.registry)
	if !ok {
		return false
	}
	s.patches = patches
	s.state = Bound
	s.tracef("anim: bound %d animated patches", len(patches))

	if s.pendingRebind {
		s.pendingRebind = false
		s.Rebind()
	}
	return true
}

// Update runs one tick.
func (s *Scheduler) Update() Report {
	if !s.bind() {
		return Report{Tick: s.tick}
	}

	s.tick++
	rep := Report{Tick: s.tick, Bound: true}
	for _, p := range s.patches {
		var outcome stepOutcome
		err := protect(func() error {
			var err error
			outcome, err = p.step(s.tick, s.copyFn)
			return err
		})
		if err != nil {
			s.logger.Printf("anim: tick %d: patch %s: %v", s.tick, p.Name(), err)
			rep.Failed = append(rep.Failed, Result{Patch: p.Name(), Err: err})
			continue
		}
		switch outcome {
		case stepCopied:
			rep.Copied++
		case stepSkipped:
			rep.Skipped++
		}
	}
	return rep
}

// Rebind refreshes the bitmaps of every bound patch. A failing patch keeps
// its old references and does not stop the others. Called before binding,
// the refresh is deferred until binding succeeds.
func (s *Scheduler) Rebind() []Result {
	if s.state != Bound {
		s.pendingRebind = true
		return nil
	}

	results := make([]Result, 0, len(s.patches))
	for _, p := range s.patches {
		err := protect(p.Refresh)
		if err != nil {
			s.logger.Printf("anim: loading %s textures: %v", p.Name(), err)
		}
		results = append(results, Result{Patch: p.Name(), Err: err})
	}
	return results
}

func (s *Scheduler) tracef(format string, args ...any) {
	if s.verbose {
		s.logger.Printf(format, args...)
	}
}
