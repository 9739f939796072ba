package contentpatch

import (
	"log"
	"path"

	"github.com/milk9111/patchanim/anim"
	"github.com/milk9111/patchanim/assets"
	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/pack"
)

// Manager owns content packs and their live patches. It loads pack assets
// relative to each pack's directory and global content by asset name.
type Manager struct {
	packAssets *assets.Loader
	content    *assets.Loader
	logger     *log.Logger
	scale      float64

	packs   []*pack.Pack
	patches []*Patch
	started bool
	ctx     Context
}

type Option func(*Manager)

func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithScaledTargets wraps every global content bitmap in a bitmap.Scaled
// shim reporting bounds multiplied by scale.
func WithScaledTargets(scale float64) Option {
	return func(m *Manager) { m.scale = scale }
}

func NewManager(packAssets, content *assets.Loader, opts ...Option) *Manager {
	m := &Manager{
		packAssets: packAssets,
		content:    content,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates a live patch for every record of packs and marks the patch
// list ready.
func (m *Manager) Start(packs []*pack.Pack, ctx Context) {
	m.packs = packs
	m.patches = nil
	for _, p := range packs {
		for _, rec := range p.Content.Changes {
			m.patches = append(m.patches, m.newPatch(p, rec))
		}
	}
	m.started = true
	m.SetContext(ctx)
}

func (m *Manager) newPatch(p *pack.Pack, rec pack.Record) *Patch {
	name := rec.LogName
	if name == "" {
		name = rec.Action + " " + rec.Target
	}
	patch := &Patch{
		LogName:     anim.DisplayName(p.Name(), name),
		FromAsset:   rec.FromFile,
		TargetAsset: rec.Target,
		FromArea:    newArea(rec.FromArea),
		ToArea:      newArea(rec.ToArea),
		pack:        p,
		record:      rec,
	}
	cond, err := CompileCondition(rec.When)
	if err != nil {
		m.logger.Printf("contentpatch: %s: when: %v", patch.LogName, err)
		return patch
	}
	patch.when = cond
	return patch
}

// SetContext re-evaluates every When condition. Patches whose condition
// failed to compile or run are not applied.
func (m *Manager) SetContext(ctx Context) {
	m.ctx = ctx
	for _, p := range m.patches {
		if p.when == nil {
			p.applied = false
			continue
		}
		ok, err := p.when.Eval(ctx)
		if err != nil {
			m.logger.Printf("contentpatch: %s: when: %v", p.LogName, err)
		}
		p.applied = ok && err == nil
	}
}

func (m *Manager) Context() Context {
	return m.ctx
}

// Live returns the live patches.
func (m *Manager) Live() []*Patch {
	return m.patches
}

// Invalidate drops every cached bitmap so the next load reads from disk.
func (m *Manager) Invalidate() {
	m.packAssets.InvalidateAll()
	m.content.InvalidateAll()
}

func (m *Manager) Packs() []*pack.Pack {
	return m.packs
}

// Patches returns the live patches, or false before Start.
func (m *Manager) Patches() ([]any, bool) {
	if !m.started {
		return nil, false
	}
	out := make([]any, len(m.patches))
	for i, p := range m.patches {
		out[i] = p
	}
	return out, true
}

func (m *Manager) LoadPackBitmap(p *pack.Pack, asset string) (bitmap.Bitmap, error) {
	return m.packAssets.Load(path.Join(p.Dir, asset))
}

func (m *Manager) LoadBitmap(asset string) (bitmap.Bitmap, error) {
	b, err := m.content.Load(asset)
	if err != nil {
		return nil, err
	}
	if m.scale > 0 {
		return &bitmap.Scaled{Base: b, Scale: m.scale}, nil
	}
	return b, nil
}
