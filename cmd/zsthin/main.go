package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"zsthin/pkg/config"
	"zsthin/pkg/metrics"
	"zsthin/pkg/raster"
	"zsthin/pkg/thinning"
	"zsthin/pkg/visualization"
)

// options holds the command line arguments. set records which flags were
// given explicitly so that only those override the config file.
type options struct {
	inputPath    string
	outputPath   string
	configPath   string
	initConfig   bool
	workers      int
	threshold    int
	invert       bool
	overlayPath  string
	overlayScale int
	verbose      bool

	set map[string]bool
}

// parseFlags parses args (without the program name) into options.
func parseFlags(args []string) (*options, *flag.FlagSet, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("zsthin", flag.ContinueOnError)
	fs.StringVar(&opts.inputPath, "input", "", "Input image (png, jpeg, gif, bmp or tiff)")
	fs.StringVar(&opts.outputPath, "output", "skeleton.png", "Output skeleton image; format follows the extension")
	fs.StringVar(&opts.configPath, "config", "zsthin.yaml", "YAML configuration file")
	fs.BoolVar(&opts.initConfig, "init-config", false, "Write a default configuration file to -config and exit")
	fs.IntVar(&opts.workers, "workers", 0, "Number of worker goroutines")
	fs.IntVar(&opts.threshold, "threshold", 128, "Binarization threshold 0-255")
	fs.BoolVar(&opts.invert, "invert", false, "Treat dark pixels as foreground (-invert=false disables it)")
	fs.StringVar(&opts.overlayPath, "overlay", "", "Optional skeleton-over-source overlay image")
	fs.IntVar(&opts.overlayScale, "overlay-scale", 1, "Overlay magnification")
	fs.BoolVar(&opts.verbose, "v", false, "Log progress after every round")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, fs, nil
}

// apply overrides cfg with every flag given on the command line.
func (o *options) apply(cfg *config.Config) {
	if o.set["workers"] {
		cfg.Thinning.NumWorkers = o.workers
	}
	if o.set["threshold"] {
		cfg.Input.Threshold = o.threshold
	}
	if o.set["invert"] {
		cfg.Input.Invert = o.invert
	}
	if o.set["overlay"] {
		cfg.Output.Overlay = o.overlayPath
	}
	if o.set["overlay-scale"] {
		cfg.Output.OverlayScale = o.overlayScale
	}
	if o.set["v"] {
		cfg.Output.Verbose = o.verbose
	}
}

func main() {
	opts, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if opts.initConfig {
		if err := config.CreateDefaultConfigFile(opts.configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", opts.configPath)
		return
	}

	// Validate inputs
	if opts.inputPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line flags take precedence over the config file
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	params, err := cfg.ThinningParams()
	if err != nil {
		log.Fatalf("Invalid thinning parameters: %v", err)
	}
	if cfg.Output.Verbose {
		params.Progress = func(round, changed int) {
			log.Printf("round %d: %d pixels changed", round, changed)
		}
	}

	src, err := raster.Load(opts.inputPath)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}
	binary := raster.Binarize(src, uint8(cfg.Input.Threshold), cfg.Input.Invert)
	skeleton := binary.Clone()

	fmt.Printf("Thinning %s (%dx%d, %d workers)...\n", opts.inputPath, binary.Cols, binary.Rows, params.Workers())
	startTime := time.Now()
	res, err := thinning.NewThinner(params).Thin(skeleton)
	if err != nil {
		log.Fatalf("Thinning failed: %v", err)
	}
	elapsed := time.Since(startTime)

	if err := raster.Save(opts.outputPath, raster.ToGray(skeleton)); err != nil {
		log.Fatalf("Failed to save skeleton: %v", err)
	}

	fmt.Printf("Converged after %d rounds in %.3f seconds\n", res.Rounds, elapsed.Seconds())
	fmt.Printf("Skeleton saved to: %s\n\n", opts.outputPath)

	m, err := metrics.Compute(binary, skeleton)
	if err != nil {
		log.Printf("Warning: failed to compute metrics: %v", err)
	} else {
		fmt.Printf("Foreground pixels: %d -> %d (%.1f%% removed)\n",
			m.ForegroundBefore, m.ForegroundAfter, m.ReductionRatio*100)
		fmt.Printf("Endpoints: %d, junction pixels: %d, isolated: %d\n", m.Endpoints, m.Junctions, m.Isolated)
		fmt.Printf("Neighbor degree: mean %.3f, std-dev %.3f\n", m.MeanDegree, m.StdDevDegree)
		fmt.Printf("2x2 blocks remaining: %d\n", m.ThickBlocks)
	}

	if cfg.Output.Overlay != "" {
		viewer, err := visualization.NewViewer(binary, skeleton, cfg.Output.OverlayScale)
		if err != nil {
			log.Fatalf("Failed to create overlay: %v", err)
		}
		if err := viewer.Save(cfg.Output.Overlay); err != nil {
			log.Printf("Warning: failed to save overlay: %v", err)
		} else {
			fmt.Printf("Overlay saved to: %s\n", cfg.Output.Overlay)
		}
	}
}
