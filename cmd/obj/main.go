// Command obj converts one object of a .prm model into a Wavefront OBJ
// file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wipeout-assets/internal/asset"
	"wipeout-assets/internal/prm"
)

// Quads are emitted as two triangles with the same winding the
// renderer uses.
var quadSplit = [2][3]int{{2, 1, 0}, {2, 3, 1}}

func main() {
	object := flag.Int("object", 0, "Object index inside the model file")
	outPath := flag.String("o", "", "Output path (default: <model>.obj)")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: obj [-object N] [-o out.obj] model.prm")
		os.Exit(2)
	}
	path := flag.Arg(0)

	mesh, table, err := asset.LoadObject(path, *object)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := *outPath
	if out == "" {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		out = fmt.Sprintf("%s-%02d.obj", base, *object)
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	tris := writeOBJ(w, mesh)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", out, err)
		os.Exit(1)
	}

	fmt.Printf("OK  %s[%d] %q -> %s  (%d vertices, %d triangles, %d textures)\n",
		path, *object, mesh.Name, out, len(mesh.Vertices), tris, table.Len())
}

func writeOBJ(w *bufio.Writer, mesh *prm.Mesh) int {
	fmt.Fprintf(w, "o %s\n", mesh.Name)

	// Model space is y-down, z-forward. Flip both so viewers show the
	// craft upright.
	for _, v := range mesh.Vertices {
		fmt.Fprintf(w, "v %d %d %d\n", v.X, -v.Y, -v.Z)
	}

	// One vt per primitive corner; untextured corners get a zero UV so
	// face indices stay uniform.
	vt := 0
	tris := 0
	for pi := range mesh.Primitives {
		p := &mesh.Primitives[pi]
		n := p.Corners()
		for i := 0; i < n; i++ {
			fmt.Fprintf(w, "vt %g %g\n", p.UVNorm[i][0], 1-p.UVNorm[i][1])
		}

		if n == 3 {
			writeFace(w, p, [3]int{0, 1, 2}, vt)
			tris++
		} else {
			for _, s := range quadSplit {
				writeFace(w, p, s, vt)
				tris++
			}
		}
		vt += n
	}
	return tris
}

func writeFace(w *bufio.Writer, p *prm.Primitive, corners [3]int, vtBase int) {
	w.WriteString("f")
	for _, c := range corners {
		fmt.Fprintf(w, " %d/%d", p.Coords[c]+1, vtBase+c+1)
	}
	w.WriteByte('\n')
}
