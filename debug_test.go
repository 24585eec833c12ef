package easel

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	out := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		out <- buf.String()
	}()
	defer func() { os.Stderr = old }()
	fn()
	_ = w.Close()
	return <-out
}

func TestDebugTreeDepthWarning(t *testing.T) {
	w := NewWorld()
	w.SetDebug(true)

	output := captureStderr(t, func() {
		current := w.CreateEntity()
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := w.CreateEntity()
			w.AddChild(current, child)
			current = child
		}
	})
	if !strings.Contains(output, "warning: tree depth") {
		t.Errorf("expected tree depth warning, got: %q", output)
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	w := NewWorld()
	w.SetDebug(true)
	parent := w.NewRect(RectOptions{Name: "crowded", Width: 1, Height: 1})

	output := captureStderr(t, func() {
		for i := 0; i < debugMaxChildCount+1; i++ {
			w.AddChild(parent, w.CreateEntity())
		}
	})
	if !strings.Contains(output, `"crowded" has 1001 children`) {
		t.Errorf("expected child count warning, got: %q", output)
	}
}

func TestDebugQuietWhenDisabled(t *testing.T) {
	w := NewWorld()
	output := captureStderr(t, func() {
		current := w.CreateEntity()
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := w.CreateEntity()
			w.AddChild(current, child)
			current = child
		}
	})
	if output != "" {
		t.Errorf("debug output with debug off: %q", output)
	}
}

func TestDebugFrameStats(t *testing.T) {
	s, _, src := newTestScene(t)
	s.NewRect(RectOptions{Width: 1, Height: 1})
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() { src.Tick() })
	if !strings.Contains(output, "[easel] instances: 1 | dropped: 0 | batches: 1 | draw calls: 2") {
		t.Errorf("frame stats missing: %q", output)
	}
}
