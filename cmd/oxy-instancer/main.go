package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-instancer/engine"
	"github.com/Carmen-Shannon/oxy-instancer/engine/camera"
	"github.com/Carmen-Shannon/oxy-instancer/engine/config"
	"github.com/Carmen-Shannon/oxy-instancer/engine/loader"
	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
	"github.com/Carmen-Shannon/oxy-instancer/engine/physics"
	"github.com/Carmen-Shannon/oxy-instancer/engine/registry"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-instancer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/schollz/progressbar/v3"
)

// ballOrigin places the physics scene in front of the starting camera. Physics is Y-up, rendering Z-up.
var ballOrigin = mgl32.Vec3{15, 0, 0}

func main() {
	configPath := flag.String("config", "oxy-instancer.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	presentMode, msaa := renderer.PresentModeVSync, renderer.MSAA4x
	if !cfg.Window.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	if !cfg.Window.MSAA {
		msaa = renderer.MSAAOff
	}
	rend := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPipelines(renderer.DefaultPipelines()...),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(clearColor(cfg.Window.ClearColor)),
	)
	defer rend.Release()

	cam := camera.NewCamera(
		camera.WithFovDegrees(cfg.Camera.FovDegrees),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(camera.NewCameraController(
			camera.WithPosition(mgl32.Vec3(cfg.Camera.Position)),
			camera.WithOrientation(cfg.Camera.Yaw, cfg.Camera.Pitch),
			camera.WithSpeed(cfg.Camera.Speed),
			camera.WithSensitivity(cfg.Camera.Sensitivity),
		)),
	)

	ldr := loader.NewLoader(loader.BackendTypeOBJ)
	reg := registry.NewRegistry(rend, registry.WithLoader(ldr))
	defer reg.Release()

	if err := preload(cfg, reg); err != nil {
		log.Fatalf("preload: %v", err)
	}

	instances := map[string][]model.InstanceData{}
	if cfg.Grid.Rows*cfg.Grid.Cols > 0 {
		instances[cfg.Grid.Model] = grid(cfg.Grid)
		reg.SetInstances(cfg.Grid.Model, instances[cfg.Grid.Model])
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var snapshots <-chan physics.Snapshot
	var ball physics.BodyHandle
	if cfg.Physics.Enabled {
		world := physics.NewWorld(physics.WithTimestep(1 / float32(cfg.Physics.TickRate)))
		world.AddBody(physics.Ground())
		ball = world.AddBody(physics.DropBall(10))

		runner := physics.NewRunner(world)
		snapshots = runner.Snapshots()
		go func() {
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[Physics] runner stopped: %v", err)
			}
		}()
		instances[cfg.Physics.Model] = []model.InstanceData{{Transform: toRenderSpace(world.Transform(ball))}}
		reg.SetInstances(cfg.Physics.Model, instances[cfg.Physics.Model])
	}

	var changes <-chan string
	if cfg.HotReload {
		w, err := watch(cfg, ldr)
		if err != nil {
			log.Printf("[Loader] hot reload disabled: %v", err)
		} else {
			defer w.Close()
			changes = w.Changes()
		}
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(rend),
		engine.WithScene(reg),
		engine.WithCamera(cam),
		engine.WithProfiling(cfg.Profiling),
		engine.WithFixedDelta(cfg.FixedDelta),
	)

	eng.SetTickCallback(func(dt float32) {
		select {
		case s := <-snapshots:
			if int(ball) < len(s.Transforms) {
				instances[cfg.Physics.Model] = []model.InstanceData{{Transform: toRenderSpace(s.Transforms[ball])}}
				reg.SetInstances(cfg.Physics.Model, instances[cfg.Physics.Model])
			}
		default:
		}

	drain:
		for {
			select {
			case id := <-changes:
				reload(cfg, reg, id, instances[id])
			default:
				break drain
			}
		}
	})

	eng.Run()
}

// preload parses every manifest model in parallel behind a progress bar, then uploads them in order.
func preload(cfg config.Config, reg registry.Registry) error {
	bar := progressbar.Default(int64(len(cfg.Models)), "loading models")
	defer bar.Close()

	ldr := loader.NewLoader(loader.BackendTypeOBJ, loader.WithProgress(func(done, total int, path string) {
		bar.Describe(filepath.Base(path))
		_ = bar.Add(1)
	}))

	requests := make([]loader.Request, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		requests = append(requests, loader.Request{
			ID:      m.ID,
			Path:    m.Path,
			Options: []loader.LoadOption{loader.WithPreTransform(m.PreTransform())},
		})
	}

	results, err := ldr.LoadAll(requests)
	if err != nil {
		return err
	}
	for _, res := range results {
		if err := reg.LoadMesh(res.ID, res.Model); err != nil {
			return err
		}
	}
	return nil
}

// grid lays out rows x cols instances on the XY plane with random rotations.
func grid(g config.Grid) []model.InstanceData {
	rng := rand.New(rand.NewPCG(uint64(g.Seed), uint64(g.Seed)))
	out := make([]model.InstanceData, 0, g.Rows*g.Cols)
	for r := range g.Rows {
		for c := range g.Cols {
			pos := mgl32.Vec3{float32(r) * g.Spacing, float32(c) * g.Spacing, 0}
			rot := mgl32.Vec3{
				rng.Float32() * 2 * math.Pi,
				rng.Float32() * 2 * math.Pi,
				rng.Float32() * 2 * math.Pi,
			}
			out = append(out, model.NewInstance(pos, rot, mgl32.Vec3{1, 1, 1}))
		}
	}
	return out
}

// toRenderSpace maps a Y-up physics transform into the Z-up scene at ballOrigin.
func toRenderSpace(m mgl32.Mat4) mgl32.Mat4 {
	p := m.Col(3)
	return mgl32.Translate3D(ballOrigin.X()+p.X(), ballOrigin.Y()+p.Z(), ballOrigin.Z()+p.Y())
}

// watch subscribes every manifest model and its material and texture files.
func watch(cfg config.Config, ldr loader.Loader) (loader.Watcher, error) {
	w, err := loader.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, m := range cfg.Models {
		paths := append([]string{m.Path}, ldr.Dependencies(m.Path)...)
		if err := w.Watch(m.ID, paths...); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %q: %w", m.ID, err)
		}
	}
	return w, nil
}

// reload re-reads a changed model and restores its instances. Failures keep the previous mesh.
func reload(cfg config.Config, reg registry.Registry, id string, instances []model.InstanceData) {
	entry, ok := cfg.Model(id)
	if !ok {
		return
	}
	start := time.Now()
	if err := reg.Load(id, entry.Path, loader.WithPreTransform(entry.PreTransform())); err != nil {
		log.Printf("[Loader] reload %q: %v", id, err)
		return
	}
	reg.SetInstances(id, instances)
	log.Printf("[Loader] reloaded %q in %s", id, time.Since(start))
}

func clearColor(c [4]float64) wgpu.Color {
	return wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}
