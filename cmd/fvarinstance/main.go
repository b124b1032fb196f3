// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Command fvarinstance is a thin CLI wiring sfnt, variation/instance,
// variation/batch, variation/cache and report together: enough to drive the
// library end to end from a terminal, not a general-purpose font tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/boxesandglue/fvarinstance/preview"
	"github.com/boxesandglue/fvarinstance/report"
	"github.com/boxesandglue/fvarinstance/sfnt"
	"github.com/boxesandglue/fvarinstance/variation"
	"github.com/boxesandglue/fvarinstance/variation/batch"
	"github.com/boxesandglue/fvarinstance/variation/cache"
	"github.com/boxesandglue/fvarinstance/variation/instance"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "instance":
		err = runInstance(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "fvarinstance:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: fvarinstance <command> [flags]

commands:
  info     <font>                      print axes, named instances and region counts
  instance <font> -coords wght=700 -o out.ttf
  batch    <font> -points points.txt -o outdir
  preview  <font> -glyph 3 -coords wght=700 -o out.png`)
}

func loadBinding(path string) (*sfnt.Binding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	font, err := sfnt.ParseFont(data, 0)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	b, err := sfnt.NewBinding(font)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", path, err)
	}
	return b, nil
}

// parseCoords parses a comma-separated "tag=value" list, e.g.
// "wght=700,wdth=85", into a variation.DesignPoint.
func parseCoords(s string) (variation.DesignPoint, error) {
	point := variation.DesignPoint{}
	if strings.TrimSpace(s) == "" {
		return point, nil
	}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid coordinate %q, want tag=value", part)
		}
		tag := strings.TrimSpace(kv[0])
		if len(tag) != 4 {
			return nil, fmt.Errorf("invalid axis tag %q, want 4 characters", tag)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", tag, err)
		}
		point[variation.MakeTag(tag[0], tag[1], tag[2], tag[3])] = float32(v)
	}
	return point, nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("info: expected a font path")
	}

	b, err := loadBinding(fs.Arg(0))
	if err != nil {
		return err
	}
	rep := variation.Introspect(b)
	report.Render(rep)
	return nil
}

func runInstance(args []string) error {
	fs := flag.NewFlagSet("instance", flag.ExitOnError)
	coordsFlag := fs.String("coords", "", "design coordinates, e.g. wght=700,wdth=85")
	out := fs.String("o", "instance.ttf", "output font path")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("instance: expected a font path")
	}

	b, err := loadBinding(fs.Arg(0))
	if err != nil {
		return err
	}
	point, err := parseCoords(*coordsFlag)
	if err != nil {
		return err
	}

	builder := instance.NewBuilder(b)
	bundle, rep, err := builder.Build(point)
	if err != nil {
		return fmt.Errorf("build instance: %w", err)
	}
	for _, d := range rep.Diagnostics {
		fmt.Fprintln(os.Stderr, "warning:", d.String())
	}

	sfntVersion := sfnt.CFFSfntVersion
	if _, ok := bundle[variation.TagGlyf]; ok {
		sfntVersion = sfnt.TrueTypeSfntVersion
	}
	data, err := sfnt.NewDirectory(sfntVersion).Serialize(bundle)
	if err != nil {
		return fmt.Errorf("serialize instance: %w", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Printf("wrote %s (%d bytes, %d tables)\n", *out, len(data), len(bundle))
	return nil
}

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	pointsPath := fs.String("points", "", "file with one tag=value,... coordinate set per line")
	outDir := fs.String("o", ".", "output directory")
	workers := fs.Int("workers", 0, "worker count (0 = runtime default)")
	cacheSize := fs.Int("cache-size", 64, "instance cache capacity (0 = unbounded)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("batch: expected a font path")
	}

	b, err := loadBinding(fs.Arg(0))
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(*pointsPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", *pointsPath, err)
	}

	var points []variation.DesignPoint
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := parseCoords(line)
		if err != nil {
			return fmt.Errorf("%s: %w", *pointsPath, err)
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return fmt.Errorf("%s: no coordinate sets", *pointsPath)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", *outDir, err)
	}

	builder := instance.NewBuilder(b)
	fontID := fs.Arg(0)
	instCache := cache.New(cache.Options{MaxSize: *cacheSize})

	engine := batch.New(builder, batch.Options{Workers: *workers})
	results := engine.Run(context.Background(), points, func(done, total int) {
		fmt.Printf("\r%d/%d", done, total)
	})
	fmt.Println()

	for i, res := range results {
		if !res.Success {
			fmt.Fprintf(os.Stderr, "point %d (%s): %v\n", i, formatPoint(res.Point), res.Err)
			continue
		}
		key := cache.KeyInstance(fontID, coordKey(res.Point))
		cached, _ := instCache.Fetch(key, func() (any, error) { return res.Bundle, nil })
		bundle := cached.(instance.Bundle)

		sfntVersion := sfnt.CFFSfntVersion
		if _, ok := bundle[variation.TagGlyf]; ok {
			sfntVersion = sfnt.TrueTypeSfntVersion
		}
		data, err := sfnt.NewDirectory(sfntVersion).Serialize(bundle)
		if err != nil {
			fmt.Fprintf(os.Stderr, "point %d (%s): serialize: %v\n", i, formatPoint(res.Point), err)
			continue
		}
		name := fmt.Sprintf("%s/instance-%03d.ttf", *outDir, i)
		if err := os.WriteFile(name, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "point %d: write %s: %v\n", i, name, err)
			continue
		}
		fmt.Printf("wrote %s (%s)\n", name, formatPoint(res.Point))
	}

	stats := instCache.Stats()
	fmt.Printf("cache: hits=%d misses=%d size=%d\n", stats.Hits, stats.Misses, stats.Size)
	return nil
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	glyph := fs.Int("glyph", 0, "glyph id")
	coordsFlag := fs.String("coords", "", "design coordinates, e.g. wght=700")
	out := fs.String("o", "preview.png", "output PNG path")
	ppem := fs.Float64("ppem", 96, "pixels per em")
	width := fs.Int("width", 256, "image width in pixels")
	height := fs.Int("height", 256, "image height in pixels")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("preview: expected a font path")
	}

	b, err := loadBinding(fs.Arg(0))
	if err != nil {
		return err
	}
	point, err := parseCoords(*coordsFlag)
	if err != nil {
		return err
	}

	eval := variation.NewEvaluator(b)
	normalized, err := eval.Normalize(point)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	var diags []variation.Diagnostic
	points, _ := eval.ApplyGlyph(variation.GlyphID(*glyph), normalized, &diags)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, "warning:", d.String())
	}

	head, ok := b.RawTable(variation.TagHead)
	if !ok {
		return fmt.Errorf("font has no head table")
	}
	unitsPerEm, err := sfnt.UnitsPerEm(head)
	if err != nil {
		return fmt.Errorf("read unitsPerEm: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	err = preview.WritePNG(f, points, preview.Options{
		UnitsPerEm: unitsPerEm,
		PPEM:       *ppem,
		Width:      *width,
		Height:     *height,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func formatPoint(p variation.DesignPoint) string {
	var parts []string
	for tag, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%g", tag.String(), v))
	}
	return strings.Join(parts, ",")
}

func coordKey(p variation.DesignPoint) map[string]float32 {
	out := make(map[string]float32, len(p))
	for tag, v := range p {
		out[tag.String()] = v
	}
	return out
}
