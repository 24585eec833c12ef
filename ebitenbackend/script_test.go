package ebitenbackend

import (
	"strings"
	"testing"
)

const testScript = `
steps:
  - action: click
    x: 400
    y: 300
  - action: wait
    frames: 3
  - action: screenshot
    label: after-click
`

func TestLoadScript(t *testing.T) {
	s, err := LoadScript([]byte(testScript))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if len(s.steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(s.steps))
	}
	if s.steps[0].X != 400 || s.steps[0].Y != 300 {
		t.Errorf("click at (%v, %v), want (400, 300)", s.steps[0].X, s.steps[0].Y)
	}
	if s.steps[2].Label != "after-click" {
		t.Errorf("label = %q", s.steps[2].Label)
	}
}

func TestLoadScriptDrag(t *testing.T) {
	s, err := LoadScript([]byte(`
steps:
  - action: drag
    from: [100, 100]
    to: [300, 250]
    frames: 10
    shift: true
`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	st := s.steps[0]
	if st.From != [2]float64{100, 100} || st.To != [2]float64{300, 250} {
		t.Errorf("drag = %v -> %v", st.From, st.To)
	}
	if st.Frames != 10 || !st.Shift {
		t.Errorf("frames = %d, shift = %v", st.Frames, st.Shift)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "steps: []", "no steps"},
		{"unknown action", "steps:\n  - action: teleport\n", `unknown action "teleport"`},
		{"malformed", "steps: [", "parse input script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestScriptStepSequence(t *testing.T) {
	scene, e := newInputScene(t)
	s, err := LoadScript([]byte(testScript))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	var in Input
	var shots []string
	shoot := func(label string) { shots = append(shots, label) }

	// Frame 1 queues the click.
	s.step(&in, shoot)
	if in.Pending() != 2 {
		t.Fatalf("pending after click step = %d, want 2", in.Pending())
	}
	// The script waits while injected input drains.
	s.step(&in, shoot)
	drain(&in, scene)
	if !scene.IsSelected(e) {
		t.Error("scripted click should select the rect")
	}

	// wait 3 spans three frames, then the screenshot runs.
	for i := 0; i < 3; i++ {
		s.step(&in, shoot)
		if len(shots) != 0 {
			t.Fatalf("screenshot taken during wait (frame %d)", i)
		}
	}
	s.step(&in, shoot)
	if len(shots) != 1 || shots[0] != "after-click" {
		t.Fatalf("shots = %v, want [after-click]", shots)
	}
	if !s.Done() {
		t.Error("script should be done after its last step")
	}

	s.step(&in, shoot)
	if len(shots) != 1 {
		t.Error("finished script kept running")
	}
}
