package main

/*------------------------------------------------------------------
 *
 * Purpose:	Command-line batch compiler: build a small set of demo
 *		synth definitions, optionally merge named parameter
 *		presets loaded from a YAML config file, and write each
 *		compiled .scsyndef blob to a timestamped file.
 *
 * Usage:	scdef [ options ]
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/shakfu/nanosynth-go/src"
)

// presetConfig is the on-disk shape of a parameter-preset file: a
// named set of default overrides for the demo graphs' parameters.
type presetConfig struct {
	Presets map[string]map[string]float32 `yaml:"presets"`
}

func loadPresets(path string) (*presetConfig, error) {
	if path == "" {
		return &presetConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scdef: read preset file %s: %w", path, err)
	}
	var cfg presetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scdef: parse preset file %s: %w", path, err)
	}
	return &cfg, nil
}

func presetValue(cfg *presetConfig, graph, param string, fallback float32) float32 {
	if p, ok := cfg.Presets[graph]; ok {
		if v, ok := p[param]; ok {
			return v
		}
	}
	return fallback
}

func buildSine(cfg *presetConfig) (*nanosynth.Definition, error) {
	return nanosynth.BuildGraph("sine", func() {
		freq := nanosynth.NewParameter("freq", []float32{presetValue(cfg, "sine", "freq", 440)}, nanosynth.ParamControl, 0)
		amp := nanosynth.NewParameter("amp", []float32{presetValue(cfg, "sine", "amp", 0.2)}, nanosynth.ParamControl, 0.02)
		sine := nanosynth.SinOsc(nanosynth.AudioRate, nanosynth.Val(freq), nanosynth.N(0))
		signal := nanosynth.Mul(sine, amp)
		nanosynth.Out(nanosynth.AudioRate, nanosynth.N(0), nanosynth.Val(signal))
	})
}

func buildPluck(cfg *presetConfig) (*nanosynth.Definition, error) {
	return nanosynth.BuildGraph("pluck", func() {
		freq := nanosynth.NewParameter("freq", []float32{presetValue(cfg, "pluck", "freq", 220)}, nanosynth.ParamControl, 0)
		dur := nanosynth.NewParameter("dur", []float32{presetValue(cfg, "pluck", "dur", 0.6)}, nanosynth.ParamControl, 0)
		sine := nanosynth.SinOsc(nanosynth.AudioRate, nanosynth.Val(freq), nanosynth.N(0))
		decay := nanosynth.Line(nanosynth.AudioRate, nanosynth.N(1), nanosynth.N(0), nanosynth.Val(dur), nanosynth.DoneFreeSynth)
		signal := nanosynth.Mul(sine, decay)
		nanosynth.Out(nanosynth.AudioRate, nanosynth.N(0), nanosynth.Val(signal))
	})
}

func main() {
	outDir := pflag.StringP("out-dir", "o", ".", "Directory to write compiled .scsyndef files to.")
	presetFile := pflag.StringP("presets", "p", "", "YAML file of named parameter-preset overrides.")
	timestampFormat := pflag.StringP("timestamp-format", "T", "%Y%m%d-%H%M%S", "strftime pattern used to prefix output filenames.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug logging of the compile pipeline.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	nanosynth.SetVerbose(*verbose)

	cfg, err := loadPresets(*presetFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	f, err := strftime.New(*timestampFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scdef: bad timestamp format %q: %v\n", *timestampFormat, err)
		os.Exit(1)
	}
	stamp := f.FormatString(time.Now())

	builders := map[string]func(*presetConfig) (*nanosynth.Definition, error){
		"sine":  buildSine,
		"pluck": buildPluck,
	}

	for name, build := range builders {
		def, err := build(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scdef: building %s: %v\n", name, err)
			os.Exit(1)
		}

		outPath := filepath.Join(*outDir, fmt.Sprintf("%s-%s.scsyndef", stamp, name))
		if err := os.WriteFile(outPath, def.Bytes(), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "scdef: writing %s: %v\n", outPath, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%s)\n", outPath, def.AnonymousName())
	}
}
