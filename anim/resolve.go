package anim

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/pack"
)

var ErrNoMatch = errors.New("anim: no live patch with that name")

// Registry is the external patch system as the resolver sees it.
type Registry interface {
	// Packs returns the content packs owned by the patch system.
	Packs() []*pack.Pack
	// Patches returns the live patch instances, or false while the patch
	// system has not loaded them yet.
	Patches() ([]any, bool)
	// LoadPackBitmap loads an asset relative to a pack.
	LoadPackBitmap(p *pack.Pack, asset string) (bitmap.Bitmap, error)
	// LoadBitmap loads an asset from the global content system.
	LoadBitmap(asset string) (bitmap.Bitmap, error)
}

// DisplayName is the name a live patch carries for a pack record.
func DisplayName(packName, logName string) string {
	return packName + " > " + logName
}

// Resolver matches animated records to live patch instances.
type Resolver struct {
	schema  Schema
	logger  *log.Logger
	verbose bool
}

func NewResolver(schema Schema, logger *log.Logger, verbose bool) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{schema: schema, logger: logger, verbose: verbose}
}

// Resolve binds every animated record of reg's packs. The bool is false
// when the registry is not ready, in which case nothing was attempted.
// Records that cannot be bound are logged and returned as failed results.
func (r *Resolver) Resolve(reg Registry) ([]*BoundPatch, []Result, bool) {
	live, ok := reg.Patches()
	if !ok {
		return nil, nil, false
	}
	index := r.index(live)

	var bound []*BoundPatch
	var failed []Result
	for _, p := range reg.Packs() {
		for _, rec := range p.Animated() {
			r.tracef("anim: loading animated patch from content pack %s", p.ID())

			if err := rec.Validate(); err != nil {
				r.logger.Printf("anim: %s: %v", p.ID(), err)
				failed = append(failed, Result{Patch: p.ID(), Err: err})
				continue
			}

			name := DisplayName(p.Name(), rec.LogName)
			obj, ok := index[name]
			if !ok {
				r.logger.Printf("anim: failed to find patch with name %q", rec.LogName)
				failed = append(failed, Result{Patch: rec.LogName, Err: fmt.Errorf("%w: %q", ErrNoMatch, name)})
				continue
			}

			r.checkShape(name, obj)
			bound = append(bound, NewBoundPatch(p.ID(), rec, &livePatch{
				obj:      obj,
				owner:    p,
				registry: reg,
				resolver: r,
			}))
		}
	}
	return bound, failed, true
}

// index maps display names to live instances; the first instance with a
// given name wins.
func (r *Resolver) index(live []any) map[string]any {
	index := make(map[string]any, len(live))
	for _, obj := range live {
		name, err := stringMember(obj, r.schema.DisplayName)
		if err != nil {
			r.tracef("anim: skipping live patch: %v", err)
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = obj
		}
	}
	return index
}

func (r *Resolver) checkShape(name string, obj any) {
	for _, m := range r.schema.members() {
		if !hasMember(obj, m) {
			r.logger.Printf("anim: patch %q has no member %s; it will fail when used", name, m)
		}
	}
}

func (r *Resolver) tracef(format string, args ...any) {
	if r.verbose {
		r.logger.Printf(format, args...)
	}
}

// livePatch reads capabilities from a live instance by member name on every
// call.
type livePatch struct {
	obj      any
	owner    *pack.Pack
	registry Registry
	resolver *Resolver
}

func (p *livePatch) IsActive() (bool, error) {
	return boolMember(p.obj, p.resolver.schema.Applied)
}

func (p *livePatch) SourceBitmap() (bitmap.Bitmap, error) {
	asset, err := stringMember(p.obj, p.resolver.schema.SourceAsset)
	if err != nil {
		return nil, err
	}
	return p.registry.LoadPackBitmap(p.owner, asset)
}

// TargetBitmap loads the target from global content and strips any
// compatibility shim, since pixels are written to it directly.
func (p *livePatch) TargetBitmap() (bitmap.Bitmap, error) {
	asset, err := stringMember(p.obj, p.resolver.schema.TargetAsset)
	if err != nil {
		return nil, err
	}
	b, err := p.registry.LoadBitmap(asset)
	if err != nil {
		return nil, err
	}
	inner, unwrapped := bitmap.Unwrap(b)
	if unwrapped {
		p.resolver.tracef("anim: found %T around %s, using the wrapped bitmap", b, asset)
	}
	return inner, nil
}

func (p *livePatch) FromRect() (image.Rectangle, error) {
	return rectMember(p.obj, p.resolver.schema.FromArea, p.resolver.schema.TryGetRect)
}

func (p *livePatch) ToRect() (image.Rectangle, error) {
	return rectMember(p.obj, p.resolver.schema.ToArea, p.resolver.schema.TryGetRect)
}
