package render

import (
	"sort"

	"github.com/milk9111/atthegym/ecs/component"
	"github.com/milk9111/atthegym/prefabs"
)

// AnimationLibrary stores animation definitions by name.
type AnimationLibrary struct {
	defs map[string]component.AnimationDef
}

// NewAnimationLibrary converts prefab animation specs into component defs.
func NewAnimationLibrary(specs map[string]prefabs.AnimationDefSpec) *AnimationLibrary {
	l := &AnimationLibrary{defs: make(map[string]component.AnimationDef, len(specs))}
	for name, s := range specs {
		l.Register(component.AnimationDef{
			Name:       name,
			Row:        s.Row,
			ColStart:   s.ColStart,
			FrameCount: s.FrameCount,
			FrameW:     s.FrameW,
			FrameH:     s.FrameH,
			FPS:        s.FPS,
			Loop:       s.Loop,
		})
	}
	return l
}

// Register adds or replaces a definition.
func (l *AnimationLibrary) Register(def component.AnimationDef) {
	if l == nil || def.Name == "" {
		return
	}
	l.defs[def.Name] = def
}

// Get returns a definition by name.
func (l *AnimationLibrary) Get(name string) (component.AnimationDef, bool) {
	if l == nil {
		return component.AnimationDef{}, false
	}
	def, ok := l.defs[name]
	return def, ok
}

// Defs returns a copy of every definition, keyed by name.
func (l *AnimationLibrary) Defs() map[string]component.AnimationDef {
	out := make(map[string]component.AnimationDef, len(l.defs))
	for k, v := range l.defs {
		out[k] = v
	}
	return out
}

func (l *AnimationLibrary) Names() []string {
	names := make([]string, 0, len(l.defs))
	for n := range l.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
