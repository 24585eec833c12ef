package easel

import (
	"fmt"
	"os"
)

// SetDebug enables tree sanity warnings on stderr.
func (w *World) SetDebug(enabled bool) {
	w.debug = enabled
}

// debugLog prints frame timing and draw-call stats to stderr.
func debugLog(stats FrameStats) {
	total := stats.PackTime + stats.UploadTime + stats.DrawTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[easel] pack: %v | upload: %v | draw: %v | total: %v\n",
		stats.PackTime, stats.UploadTime, stats.DrawTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[easel] instances: %d | dropped: %d | batches: %d | draw calls: %d\n",
		stats.Instances, stats.Dropped, stats.Batches, stats.DrawCalls)
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(w *World, e Entity) {
	depth := 0
	for p := e; p != NoEntity; {
		depth++
		p, _ = w.Parent(p)
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[easel] warning: tree depth %d exceeds %d (entity %d %q)\n",
			depth, debugMaxTreeDepth, e, w.Name(e))
	}
}

// debugCheckChildCount warns on stderr if an entity has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(w *World, e Entity) {
	if n := w.NumChildren(e); n > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[easel] warning: entity %d %q has %d children (threshold %d)\n",
			e, w.Name(e), n, debugMaxChildCount)
	}
}
