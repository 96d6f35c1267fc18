package batch

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// triangleModel builds a one-object model file holding a single flat
// white triangle.
func triangleModel(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.LittleEndian, v) }

	var name [16]byte
	copy(name[:], "tri")
	buf.Write(name[:])
	w(int16(3)) // vertices
	w(int16(0)) // normals
	w(int16(1)) // primitives
	w(int16(0))
	w(int32(0))
	w(int32(0))
	w(int32(0))

	verts := [][3]int16{{-100, 80, 0}, {100, 80, 0}, {0, -80, 0}}
	for _, v := range verts {
		w(v[0])
		w(v[1])
		w(v[2])
		w(int16(0))
	}

	w(uint16(1)) // F3
	w(uint16(0))
	w(int16(0))
	w(int16(1))
	w(int16(2))
	w(int16(0))
	buf.Write([]byte{255, 255, 255, 0})

	path := filepath.Join(t.TempDir(), "tri.prm")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunRendersJob(t *testing.T) {
	model := triangleModel(t)
	outDir := t.TempDir()

	cfg := Config{
		OutputDir:   outDir,
		RenderSize:  32,
		Supersample: 2,
		WebPQuality: 90,
		Workers:     2,
	}
	jobs := []Job{
		{Name: "tri", ModelPath: model, ObjectIndex: 0},
	}

	results := Run(cfg, jobs)
	if len(results) != 1 {
		t.Fatalf("results = %d want 1", len(results))
	}
	r := results[0]
	if !r.Success {
		t.Fatalf("render failed: %s", r.Error)
	}

	info, err := os.Stat(filepath.Join(outDir, "tri.webp"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestRunReportsFailure(t *testing.T) {
	cfg := Config{
		OutputDir:   t.TempDir(),
		RenderSize:  32,
		Supersample: 1,
		Workers:     1,
	}
	jobs := []Job{
		{Name: "missing", ModelPath: filepath.Join(t.TempDir(), "nope.prm"), ObjectIndex: 0},
	}

	results := Run(cfg, jobs)
	if results[0].Success {
		t.Error("want failure for missing model file")
	}
	if results[0].Error == "" {
		t.Error("want error message for missing model file")
	}
}
