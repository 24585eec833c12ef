// stress spawns thousands of rectangles inside nested groups and drives them
// headless for a fixed number of frames, printing per-frame renderer stats.
// A stress test for transform propagation, index updates and instance
// packing. No window or GPU is required.
//
// Profiling:
//
//	go run ./demos/stress -profile cpu
//	go tool pprof -http=":8000" cpu.pprof
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/pkg/profile"

	"github.com/phanxgames/easel"
	"github.com/phanxgames/easel/ebitenbackend"
)

const (
	canvasW = 1280
	canvasH = 720
)

func main() {
	count := flag.Int("count", 10_000, "number of rectangles")
	groups := flag.Int("groups", 100, "number of groups the rectangles are split into")
	frames := flag.Int("frames", 300, "frames to simulate")
	mode := flag.String("profile", "", "profile mode: cpu or mem")
	flag.Parse()

	switch *mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		log.Fatalf("unknown profile mode %q", *mode)
	}

	cfg := easel.DefaultConfig()
	cfg.MaxInstances = *count
	backend := ebitenbackend.New()
	source := &easel.ManualFrameSource{}
	scene := easel.NewScene(cfg, backend, source)
	scene.Resize(canvasW, canvasH)
	w := scene.World()

	perGroup := max(1, *count / max(1, *groups))
	var roots []easel.Entity
	var batch []easel.Entity
	for i := 0; i < *count; i++ {
		batch = append(batch, w.NewRect(easel.RectOptions{
			X:      (rand.Float64() - 0.5) * canvasW,
			Y:      (rand.Float64() - 0.5) * canvasH,
			Width:  4 + rand.Float64()*12,
			Height: 4 + rand.Float64()*12,
			Fill:   easel.RGBA(uint8(rand.IntN(256)), uint8(rand.IntN(256)), uint8(rand.IntN(256)), 0xFF),
		}))
		if len(batch) == perGroup {
			roots = append(roots, w.NewGroup("", batch...))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		roots = append(roots, w.NewGroup("", batch...))
	}

	var total time.Duration
	for f := 0; f < *frames; f++ {
		t := float64(f) / 60
		for i, g := range roots {
			dx := math.Cos(t+float64(i)) * 0.5
			dy := math.Sin(t+float64(i)) * 0.5
			if err := w.TranslateWorld(g, dx, dy); err != nil {
				log.Fatal(err)
			}
		}
		hits := w.PickRegion(easel.BoxFromPoints(-100, -100, 100, 100), easel.PickAny)

		start := time.Now()
		scene.RequestRender()
		source.Tick()
		total += time.Since(start)

		if f%60 == 0 {
			stats := scene.Renderer().LastFrame()
			fmt.Printf("frame %4d: instances %d | batches %d | draw calls %d | triangles %d | region hits %d | pack %v | upload %v\n",
				f, stats.Instances, stats.Batches, stats.DrawCalls, backend.Triangles(), len(hits), stats.PackTime, stats.UploadTime)
		}
		backend.SetTarget(nil)
	}
	fmt.Printf("%d frames, avg render %v\n", *frames, total/time.Duration(max(1, *frames)))
}
