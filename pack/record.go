package pack

import (
	"errors"
	"image"
)

var ErrMissingLogName = errors.New("pack: animated patches must specify a LogName")

// Manifest identifies a content pack.
type Manifest struct {
	Name        string `yaml:"Name"`
	UniqueID    string `yaml:"UniqueID"`
	Version     string `yaml:"Version"`
	Author      string `yaml:"Author"`
	Description string `yaml:"Description"`
}

// Area is a rectangle as written in pack files.
type Area struct {
	X      int `yaml:"X"`
	Y      int `yaml:"Y"`
	Width  int `yaml:"Width"`
	Height int `yaml:"Height"`
}

func (a *Area) Rect() image.Rectangle {
	if a == nil {
		return image.Rectangle{}
	}
	return image.Rect(a.X, a.Y, a.X+a.Width, a.Y+a.Height)
}

// Record is one change entry of a pack's content file. Only the animation
// fields matter to the animator; the rest are kept so tooling can show them.
type Record struct {
	Action   string `yaml:"Action"`
	LogName  string `yaml:"LogName"`
	Target   string `yaml:"Target"`
	FromFile string `yaml:"FromFile"`
	FromArea *Area  `yaml:"FromArea"`
	ToArea   *Area  `yaml:"ToArea"`
	When     string `yaml:"When"`

	// FrameInterval is the number of ticks between frame advances.
	FrameInterval int `yaml:"AnimationFrameTime"`
	// FrameCount is the number of equal-width cells in the cycle.
	FrameCount int `yaml:"AnimationFrameCount"`
}

// Animated reports whether the record asks to be animated.
func (r Record) Animated() bool {
	return r.FrameInterval > 0 && r.FrameCount > 0
}

// Validate checks an animated record can be bound.
func (r Record) Validate() error {
	if !r.Animated() {
		return nil
	}
	if r.LogName == "" {
		return ErrMissingLogName
	}
	return nil
}

// Eligible reports whether the record should be bound for animation.
func (r Record) Eligible() bool {
	return r.Animated() && r.LogName != ""
}

// Content is the decoded content file.
type Content struct {
	Format  string   `yaml:"Format"`
	Changes []Record `yaml:"Changes"`
}
