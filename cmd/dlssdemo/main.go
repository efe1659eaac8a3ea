// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command dlssdemo drives a dlss manager through a few frames on a headless
// device and reports what the backend recorded.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gogpu/dlss"
	"github.com/gogpu/dlss/backend"
	"github.com/gogpu/dlss/backend/reference"
	"github.com/gogpu/dlss/metrics"
	"github.com/gogpu/dlss/render"
)

var qualities = map[string]dlss.Quality{
	"performance":      dlss.QualityMaxPerformance,
	"balanced":         dlss.QualityBalanced,
	"quality":          dlss.QualityMaxQuality,
	"ultraperformance": dlss.QualityUltraPerformance,
	"ultraquality":     dlss.QualityUltraQuality,
	"dlaa":             dlss.QualityDLAA,
}

type config struct {
	width, height int
	frames        int
	quality       string
	rayRecon      bool
	backendName   string
	listen        string
	verbose       bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.width, "width", 1920, "output width")
	flag.IntVar(&cfg.height, "height", 1080, "output height")
	flag.IntVar(&cfg.frames, "frames", 4, "frames to render")
	flag.StringVar(&cfg.quality, "quality", "balanced", "quality preset")
	flag.BoolVar(&cfg.rayRecon, "rr", false, "use ray reconstruction")
	flag.StringVar(&cfg.backendName, "backend", "", "backend name (default: best available)")
	flag.StringVar(&cfg.listen, "metrics", "", "serve Prometheus metrics on this address after the run")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	attachLogger(logger, cfg.verbose)

	if err := run(cfg, logger); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

// attachLogger routes dlss log lines to logger.
func attachLogger(logger *zap.Logger, verbose bool) {
	sugar := logger.Sugar().Named("dlss")
	dlss.SetLogSink(func(level dlss.LogLevel, msg string) {
		switch level {
		case dlss.LogLevelDebug:
			sugar.Debug(msg)
		case dlss.LogLevelInfo:
			sugar.Info(msg)
		case dlss.LogLevelWarning:
			sugar.Warn(msg)
		default:
			sugar.Error(msg)
		}
	})
	if verbose {
		dlss.SetLogLevel(dlss.LogLevelDebug)
	}
}

func run(cfg config, logger *zap.Logger) error {
	quality, ok := qualities[strings.ToLower(cfg.quality)]
	if !ok {
		return fmt.Errorf("unknown quality %q", cfg.quality)
	}
	if cfg.width <= 0 || cfg.height <= 0 || cfg.frames <= 0 {
		return errors.New("width, height and frames must be positive")
	}
	mode := dlss.ModeSuperResolution
	if cfg.rayRecon {
		mode = dlss.ModeRayReconstruction
	}

	dev, err := render.OpenNoop()
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	b, err := backend.Open(cfg.backendName)
	if err != nil {
		return fmt.Errorf("backend %q: %w (available: %v)", cfg.backendName, err, backend.Available())
	}

	mgr, err := dlss.NewManager(dev, b)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	if err := mgr.Initialize(dlss.InitParams{ProjectID: "gogpu-dlssdemo"}); err != nil {
		return fmt.Errorf("initialize (backend error %#x): %w", uint32(mgr.LastNGXError()), err)
	}
	caps, err := mgr.Capabilities()
	if err != nil {
		return err
	}
	logger.Info("capabilities",
		zap.Bool("super_resolution", caps.SRAvailable),
		zap.Bool("ray_reconstruction", caps.RRAvailable),
		zap.Uint32("min_driver_major", caps.MinDriverVersionMajor))

	output := dlss.Dimensions{Width: uint32(cfg.width), Height: uint32(cfg.height)}
	settings, err := mgr.OptimalSettings(mode, quality, output.Width, output.Height)
	if err != nil {
		return err
	}
	input := dlss.Dimensions{Width: settings.OptimalRenderWidth, Height: settings.OptimalRenderHeight}

	params := &dlss.ContextCreateParams{
		Mode:             mode,
		Quality:          quality,
		InputResolution:  input,
		OutputResolution: output,
	}
	if mode == dlss.ModeRayReconstruction {
		params.DenoiseMode = dlss.DenoiseDLUnified
		params.DepthType = dlss.DepthHardware
	}
	const view = 0
	if err := mgr.CreateContext(view, params); err != nil {
		return err
	}

	exec, release, err := frameInputs(dev, mode, input, output)
	if err != nil {
		return err
	}
	defer release()

	mgr.SetCurrentView(view)
	for frame := range cfg.frames {
		exec.Common.JitterOffsetX = halton(frame+1, 2) - 0.5
		exec.Common.JitterOffsetY = halton(frame+1, 3) - 0.5
		exec.FrameTimeDeltaMs = 16.6
		if err := mgr.SetExecuteParams(exec); err != nil {
			return err
		}

		if err := dev.BeginFrame(); err != nil {
			return err
		}
		dev.IssuePluginEvent(mgr.RenderEventFunc(), dlss.RenderEventID)
		if err := dev.EndFrame(); err != nil {
			return err
		}
		mgr.NextFrame()
	}

	if ref, ok := b.(*reference.Backend); ok {
		last := ref.LastEvaluation()
		logger.Info("last evaluation",
			zap.Uint64("frame", last.Frame),
			zap.Uint32s("workgroups", last.Workgroups[:]),
			zap.Float32("jitter_x", last.JitterX),
			zap.Float32("jitter_y", last.JitterY))
	}
	if stats, err := mgr.Stats(mode); err == nil {
		logger.Info("stats", zap.Uint64("vram_bytes", stats.VRAMAllocatedBytes))
	}
	logger.Info("done",
		zap.String("session", mgr.Session().String()),
		zap.Int("frames", cfg.frames),
		zap.Int("submissions", dev.Submissions()))

	if cfg.listen == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(mgr, prometheus.Labels{"session": mgr.Session().String()}))
	logger.Info("serving metrics", zap.String("addr", cfg.listen))
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(cfg.listen, nil)
}

// frameInputs creates the textures one frame reads and writes.
func frameInputs(dev *render.Device, mode dlss.Mode, input, output dlss.Dimensions) (*dlss.ExecuteParams, func(), error) {
	var textures []*render.Texture
	release := func() {
		for _, t := range textures {
			dev.DestroyTexture(t)
		}
	}
	var firstErr error
	create := func(label string, d dlss.Dimensions, format gputypes.TextureFormat) *render.Texture {
		if firstErr != nil {
			return nil
		}
		t, err := dev.CreateTexture(label, d.Width, d.Height, format)
		if err != nil {
			firstErr = err
			return nil
		}
		textures = append(textures, t)
		return t
	}

	exec := &dlss.ExecuteParams{
		Textures: dlss.CommonTextures{
			ColorInput:    create("color", input, gputypes.TextureFormatRGBA16Float).View(),
			ColorOutput:   create("output", output, gputypes.TextureFormatRGBA16Float).View(),
			Depth:         create("depth", input, gputypes.TextureFormatDepth32Float).View(),
			MotionVectors: create("motion", input, gputypes.TextureFormatRG16Float).View(),
		},
	}
	if mode == dlss.ModeRayReconstruction {
		exec.GBuffer = dlss.GBufferTextures{
			DiffuseAlbedo:  create("diffuse_albedo", input, gputypes.TextureFormatRGBA16Float).View(),
			SpecularAlbedo: create("specular_albedo", input, gputypes.TextureFormatRGBA16Float).View(),
			Normals:        create("normals", input, gputypes.TextureFormatRGBA16Float).View(),
			Roughness:      create("roughness", input, gputypes.TextureFormatRGBA16Float).View(),
		}
		exec.WorldToView = dlss.Matrix4x4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
		exec.ViewToClip = exec.WorldToView
	}
	if firstErr != nil {
		release()
		return nil, nil, firstErr
	}
	return exec, release, nil
}

// halton returns element i of the Halton sequence in base b.
func halton(i, b int) float32 {
	f, r := 1.0, 0.0
	for ; i > 0; i /= b {
		f /= float64(b)
		r += f * float64(i%b)
	}
	return float32(r)
}
