// Command inspect prints the contents of .cmp archives and .prm models
// without writing any output files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wipeout-assets/internal/cmp"
	"wipeout-assets/internal/prm"
	"wipeout-assets/internal/tim"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect file.cmp|file.prm|file.tim ...")
		os.Exit(2)
	}

	errors := 0
	for _, path := range os.Args[1:] {
		if err := inspect(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			errors++
		}
	}
	if errors > 0 {
		os.Exit(1)
	}
}

func inspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cmp":
		return inspectArchive(path, data)
	case ".prm":
		return inspectModel(path, data)
	case ".tim":
		return inspectImage(path, data)
	}
	return fmt.Errorf("%s: not a .cmp, .prm or .tim file", path)
}

func inspectArchive(path string, data []byte) error {
	blobs, err := cmp.Unpack(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	total := 0
	for _, b := range blobs {
		total += len(b)
	}
	fmt.Printf("%s: %d images, %d bytes compressed, %d bytes decompressed\n",
		path, len(blobs), len(data), total)

	for i, blob := range blobs {
		img, err := tim.Decode(blob, true)
		if err != nil {
			fmt.Printf("  [%3d] %6d bytes  (not a TIM record: %v)\n", i, len(blob), err)
			continue
		}
		fmt.Printf("  [%3d] %6d bytes  %dx%d\n", i, len(blob), img.Width, img.Height)
	}
	return nil
}

func inspectModel(path string, data []byte) error {
	meshes, err := prm.DecodeAll(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Printf("%s: %d objects\n", path, len(meshes))
	for i, m := range meshes {
		fmt.Printf("  [%2d] %-16q verts=%d normals=%d prims=%d\n",
			i, m.Name, len(m.Vertices), len(m.Normals), len(m.Primitives))

		hist := map[prm.PrimitiveType]int{}
		textured := 0
		for pi := range m.Primitives {
			p := &m.Primitives[pi]
			hist[p.Type]++
			if p.Textured() {
				textured++
			}
		}

		types := make([]prm.PrimitiveType, 0, len(hist))
		for t := range hist {
			types = append(types, t)
		}
		sort.Slice(types, func(a, b int) bool { return types[a] < types[b] })

		parts := make([]string, 0, len(types))
		for _, t := range types {
			parts = append(parts, fmt.Sprintf("%s=%d", t, hist[t]))
		}
		if len(parts) > 0 {
			fmt.Printf("       %s  (%d textured)\n", strings.Join(parts, " "), textured)
		}
	}
	return nil
}

func inspectImage(path string, data []byte) error {
	img, err := tim.Decode(data, true)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("%s: %dx%d\n", path, img.Width, img.Height)
	return nil
}
