package ebitenbackend

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/easel"
)

// ScriptStep is one action of an input script.
//
//	steps:
//	  - action: click
//	    x: 400
//	    y: 300
//	  - action: drag
//	    from: [100, 100]
//	    to: [300, 250]
//	    frames: 10
//	  - action: wheel
//	    x: 400
//	    y: 300
//	    delta: 2
//	  - action: wait
//	    frames: 30
//	  - action: screenshot
//	    label: after-drag
type ScriptStep struct {
	Action string     `yaml:"action"`
	Label  string     `yaml:"label,omitempty"`
	X      float64    `yaml:"x,omitempty"`
	Y      float64    `yaml:"y,omitempty"`
	From   [2]float64 `yaml:"from,omitempty"`
	To     [2]float64 `yaml:"to,omitempty"`
	Frames int        `yaml:"frames,omitempty"`
	Delta  float64    `yaml:"delta,omitempty"`
	Shift  bool       `yaml:"shift,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `yaml:"steps"`
}

// Script sequences injected input and screenshots across frames, for
// automated visual checks and demos. Attach it with Game.SetScript.
type Script struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML input script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "drag", "wheel", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run and its input drained.
func (s *Script) Done() bool {
	return s.done
}

// step advances the script by one frame.
func (s *Script) step(in *Input, shoot func(label string)) {
	if s.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if in.Pending() > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	var mods easel.KeyModifiers
	if st.Shift {
		mods |= easel.ModShift
	}
	switch st.Action {
	case "screenshot":
		shoot(st.Label)
	case "click":
		in.InjectClick(st.X, st.Y, mods)
	case "drag":
		in.InjectDrag(st.From[0], st.From[1], st.To[0], st.To[1], st.Frames, mods)
	case "wheel":
		in.InjectWheel(st.X, st.Y, st.Delta)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && in.Pending() == 0 {
		s.done = true
	}
}
