// Command extract decodes .cmp texture archives and standalone .tim
// images into viewable files.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"wipeout-assets/internal/cmp"
	"wipeout-assets/internal/tim"

	"github.com/HugoSmits86/nativewebp"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/ftrvxmtrx/tga"
)

func main() {
	format := flag.String("format", "png", "Output format: png, tga or webp")
	outDir := flag.String("out", ".", "Output directory")
	opaque := flag.Bool("opaque", false, "Decode without the transparency rules")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: extract [-format png|tga|webp] [-out dir] [-opaque] file.cmp|file.tim ...")
		os.Exit(2)
	}

	switch *format {
	case "png", "tga", "webp":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(2)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	errors := 0
	for _, path := range flag.Args() {
		if err := extract(path, *outDir, *format, !*opaque); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
		}
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("\nDone. All textures extracted.")
}

func extract(path, outDir, format string, transparent bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cmp":
		blobs, err := cmp.Unpack(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for i, blob := range blobs {
			img, err := tim.Decode(blob, transparent)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", path, i, err)
			}
			name := fmt.Sprintf("%s-%03d.%s", base, i, format)
			if err := save(filepath.Join(outDir, name), img.NRGBA(), format); err != nil {
				return err
			}
			fmt.Printf("OK  %s[%d] -> %s  (%dx%d)\n", path, i, name, img.Width, img.Height)
		}
	case ".tim":
		img, err := tim.Decode(data, transparent)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		name := base + "." + format
		if err := save(filepath.Join(outDir, name), img.NRGBA(), format); err != nil {
			return err
		}
		fmt.Printf("OK  %s -> %s  (%dx%d)\n", path, name, img.Width, img.Height)
	default:
		return fmt.Errorf("%s: not a .cmp or .tim file", path)
	}
	return nil
}

func save(path string, img image.Image, format string) error {
	switch format {
	case "png":
		if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	case "tga", "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		defer f.Close()
		if format == "tga" {
			err = tga.Encode(f, img)
		} else {
			err = nativewebp.Encode(f, img, nil)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
