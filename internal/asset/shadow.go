package asset

import (
	"fmt"
	"os"
	"path/filepath"

	"wipeout-assets/internal/tim"
)

// shadowTextureCount is the size of the fixed shadow texture set shipped
// with the game (shad1.tim through shad4.tim).
const shadowTextureCount = 4

// ShadowTextureIndex maps a ship index to its shadow texture. The
// original asset set packs two ships per shadow texture, offset by one,
// and the shipped files are numbered from 1.
func ShadowTextureIndex(shipIndex int) int {
	return shipIndex>>1 + 1
}

// LoadShadowTextures decodes the fixed four-file shadow set from dir
// into a table addressed directly by ShadowTextureIndex values (entry 0
// is a transparent placeholder, never referenced).
func LoadShadowTextures(dir string) (*TextureTable, error) {
	table := &TextureTable{Images: make([]*tim.Image, shadowTextureCount+1)}
	table.Images[0] = transparentPlaceholder()
	for i := 1; i <= shadowTextureCount; i++ {
		path := filepath.Join(dir, fmt.Sprintf("shad%d.tim", i))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		img, err := tim.Decode(data, true)
		if err != nil {
			return nil, fmt.Errorf("asset: shadow texture %s: %w", path, err)
		}
		table.Images[i] = img
	}
	return table, nil
}
