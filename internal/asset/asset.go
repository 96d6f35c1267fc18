// Package asset ties the three decoders together: it loads a model,
// unpacks and decodes its companion texture archive, and binds each
// textured primitive to the decoded image its texture id resolves to.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"wipeout-assets/internal/cmp"
	"wipeout-assets/internal/prm"
	"wipeout-assets/internal/tim"
)

// TextureTable maps the small texture ids embedded in primitives to the
// decoded images of one archive, in archive order.
type TextureTable struct {
	Images []*tim.Image
}

// Get resolves a primitive texture id. Untextured ids and ids outside
// the table return nil.
func (t *TextureTable) Get(id int16) *tim.Image {
	if t == nil || id < 0 || int(id) >= len(t.Images) {
		return nil
	}
	return t.Images[id]
}

func (t *TextureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Images)
}

// placeholderIndices lists known-bad archive images. Image 14 of the
// all-ships archive is a byte-for-byte duplicate of an earlier image and
// renders as an artifact; it is replaced with a transparent placeholder.
var placeholderIndices = map[string][]int{
	"allsh.cmp": {14},
}

func transparentPlaceholder() *tim.Image {
	return &tim.Image{Width: 1, Height: 1, Pixels: []byte{0, 0, 0, 0}}
}

// LoadArchive decompresses a texture archive and decodes every contained
// image in file order. Transparency mode is on: model textures rely on
// the black-is-transparent cutout convention. Callers that need the
// opaque reading of a record decode it again via tim.Decode.
func LoadArchive(path string) (*TextureTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	blobs, err := cmp.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("asset: unpack %s: %w", path, err)
	}

	skip := make(map[int]bool)
	for _, i := range placeholderIndices[strings.ToLower(filepath.Base(path))] {
		skip[i] = true
	}

	table := &TextureTable{Images: make([]*tim.Image, len(blobs))}
	for i, blob := range blobs {
		if skip[i] {
			table.Images[i] = transparentPlaceholder()
			continue
		}
		img, err := tim.Decode(blob, true)
		if err != nil {
			return nil, fmt.Errorf("asset: %s image %d: %w", path, i, err)
		}
		table.Images[i] = img
	}
	return table, nil
}

// LoadObject decodes the model at modelPath and binds it against its
// companion texture archive (same base name, .cmp extension). A missing
// archive is not an error: the mesh renders untextured via its direct
// colors. Any other archive or model failure aborts the load.
func LoadObject(modelPath string, objectIndex int) (*prm.Mesh, *TextureTable, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, nil, err
	}
	mesh, err := prm.Decode(data, objectIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("asset: decode %s: %w", modelPath, err)
	}

	table, err := LoadArchive(companionArchive(modelPath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mesh, &TextureTable{}, nil
		}
		return nil, nil, err
	}

	Bind(mesh, table)
	return mesh, table, nil
}

func companionArchive(modelPath string) string {
	return strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + ".cmp"
}

// Bind fills each textured primitive's normalized UVs by dividing the
// raw texel coordinates by the real dimensions of the image its texture
// id resolves to. The raw UVs are never touched, so the same mesh can be
// re-bound against a different table later. Ids with no table entry are
// left unbound.
func Bind(mesh *prm.Mesh, table *TextureTable) {
	for i := range mesh.Primitives {
		p := &mesh.Primitives[i]
		if !p.Textured() {
			continue
		}
		img := table.Get(p.Texture)
		if img == nil || img.Width == 0 || img.Height == 0 {
			continue
		}
		w := float32(img.Width)
		h := float32(img.Height)
		for c := 0; c < p.Corners(); c++ {
			p.UVNorm[c] = [2]float32{
				float32(p.UVs[c].U) / w,
				float32(p.UVs[c].V) / h,
			}
		}
	}
}
