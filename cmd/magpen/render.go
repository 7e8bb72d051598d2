package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/internal/config"
	"github.com/gogpu/magpen/internal/telemetry"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type renderFlags struct {
	configFile  string
	preset      string
	backend     string
	gpuBackends string
	frames      int
	width       uint32
	height      uint32
	scale       float32
	pause       bool
	output      string
	upscale     int
	telemetry   string
	metricsAddr string
	randomizeAt int
	seed        uint64
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "run the simulation and write the final frame as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cfg, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fl.StringVar(&f.preset, "preset", "", "parameter preset")
	fl.StringVar(&f.backend, "backend", config.BackendGPU, "gpu or cpu")
	fl.StringVar(&f.gpuBackends, "gpu-backends", "", "restrict gpu backends (vulkan, metal, dx12, gl)")
	fl.IntVar(&f.frames, "frames", config.DefaultFrames, "frames to simulate")
	fl.Uint32Var(&f.width, "width", config.DefaultWidth, "grid width")
	fl.Uint32Var(&f.height, "height", config.DefaultHeight, "grid height")
	fl.Float32Var(&f.scale, "scale", config.DefaultScale, "seeding scale")
	fl.BoolVar(&f.pause, "pause", false, "run every frame with dt=0")
	fl.StringVarP(&f.output, "output", "o", config.DefaultOutput, "output PNG")
	fl.IntVar(&f.upscale, "upscale", config.DefaultUpscale, "integer upscale factor of the PNG")
	fl.StringVar(&f.telemetry, "telemetry", "", "write per-frame timings to this CSV")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fl.IntVar(&f.randomizeAt, "randomize-at", -1, "randomize the velocity and restart at this frame")
	fl.Uint64Var(&f.seed, "seed", 1, "seed for --randomize-at")
	return cmd
}

// resolve loads the config file when given and applies every flag the
// user set on top of it.
func (f *renderFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("preset") {
		cfg.Preset = f.preset
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("frames") {
		cfg.Frames = f.frames
	}
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("height") {
		cfg.Height = f.height
	}
	if changed("scale") {
		cfg.Scale = f.scale
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("upscale") {
		cfg.Upscale = f.upscale
	}
	if changed("telemetry") {
		cfg.Telemetry = f.telemetry
	}
	if changed("metrics-addr") {
		cfg.Metrics = f.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRender(ctx context.Context, stdout io.Writer, cfg *config.Config, f renderFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	params, err := cfg.ResolveParams()
	if err != nil {
		return err
	}
	if f.pause {
		params = params.Paused()
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics != "" {
		metrics = telemetry.NewMetrics()
		stop := serveMetrics(cfg.Metrics, metrics)
		defer stop()
	}

	var csvOut io.Writer
	if cfg.Telemetry != "" {
		file, err := os.Create(cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("creating %s: %w", cfg.Telemetry, err)
		}
		defer file.Close()
		csvOut = file
	}

	b, err := newBackend(cfg, params, f.gpuBackends)
	if err != nil {
		return err
	}
	defer b.Close()

	rec := telemetry.NewRecorder(b.Name(), csvOut, metrics)
	rng := rand.New(rand.NewPCG(f.seed, f.seed))

	start := time.Now()
	for i := range cfg.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == f.randomizeAt {
			params = params.RandomizeVelocity(rng)
			if err := b.Restart(params); err != nil {
				return err
			}
			metrics.Restart(b.Name())
		}
		t0 := time.Now()
		if err := b.Step(params); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := rec.Record(i, params.Dt == 0, time.Since(t0)); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	img, err := b.Snapshot(params)
	if err != nil {
		return err
	}
	if err := writePNG(cfg.Output, upscale(img, cfg.Upscale)); err != nil {
		return err
	}

	printSummary(stdout, cfg, b.Name(), rec, elapsed)
	return nil
}

func upscale(img *image.RGBA, k int) *image.RGBA {
	if k <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*k, b.Dy()*k))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func printSummary(w io.Writer, cfg *config.Config, backend string, rec *telemetry.Recorder, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	s := rec.Summary()
	p.Fprintf(w, "run %s\n", rec.RunID())
	p.Fprintf(w, "backend:   %s\n", backend)
	p.Fprintf(w, "grid:      %d x %d (%d particles)\n", cfg.Width, cfg.Height, int(cfg.Width)*int(cfg.Height))
	p.Fprintf(w, "frames:    %d in %v\n", s.Frames, elapsed.Round(time.Millisecond))
	if s.Frames > 0 {
		p.Fprintf(w, "frame ms:  mean %.3f  sd %.3f  p50 %.3f  p95 %.3f  max %.3f\n",
			s.Mean, s.StdDev, s.P50, s.P95, s.Max)
		p.Fprintf(w, "rate:      %.1f fps, %.0f particle updates/s\n",
			s.FPS(), s.FPS()*float64(cfg.Width)*float64(cfg.Height))
	}
	p.Fprintf(w, "output:    %s\n", cfg.Output)
}

// serveMetrics exposes m on addr until the returned func is called.
func serveMetrics(addr string, m *telemetry.Metrics) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			magpen.Logger().Error("metrics server failed", "addr", addr, "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
