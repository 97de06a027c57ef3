// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"
)

// Sprite sizes in texture pixels. Sprites are white and tinted by the
// render component color.
const (
	BodySpriteSize   = 64
	MarkerSpriteSize = 16
	TrailSpriteSize  = 3
	CursorSpriteSize = 9

	hudFontURL  = "orrery-mono.ttf"
	hudFontSize = 16
)

// Sprite names.
const (
	SpriteBody   = "body"
	SpriteMarker = "marker"
	SpriteTrail  = "trail"
	SpriteCursor = "cursor"
)

// AssetManager builds the procedural sprites and the HUD font.
type AssetManager struct {
	sprites map[string]common.Drawable
	font    *common.Font
}

// NewAssetManager creates an empty asset manager.
func NewAssetManager() *AssetManager {
	return &AssetManager{
		sprites: make(map[string]common.Drawable),
	}
}

// LoadAssets creates every sprite. It needs a GL context.
func (am *AssetManager) LoadAssets() error {
	am.sprites[SpriteBody] = convertToEngoTexture(DiscImage(BodySpriteSize))
	am.sprites[SpriteMarker] = convertToEngoTexture(CrossImage(MarkerSpriteSize))
	am.sprites[SpriteTrail] = convertToEngoTexture(DiscImage(TrailSpriteSize))
	am.sprites[SpriteCursor] = convertToEngoTexture(CrossImage(CursorSpriteSize))
	return am.loadFont()
}

// loadFont registers the embedded monospace font with engo.
func (am *AssetManager) loadFont() error {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return err
	}
	font := &common.Font{
		URL:  hudFontURL,
		FG:   color.White,
		Size: hudFontSize,
	}
	if err := font.CreatePreloaded(); err != nil {
		return err
	}
	am.font = font
	return nil
}

// Sprite returns a loaded sprite, or nil before LoadAssets.
func (am *AssetManager) Sprite(name string) common.Drawable {
	return am.sprites[name]
}

// Font returns the HUD font, or nil before LoadAssets.
func (am *AssetManager) Font() *common.Font {
	return am.font
}

// DiscImage draws a filled white disc of the given diameter.
func DiscImage(size int) *image.NRGBA {
	img := createBaseImage(size)
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

// CrossImage draws a white diagonal cross of the given size.
func CrossImage(size int) *image.NRGBA {
	img := createBaseImage(size)
	for i := 0; i < size; i++ {
		img.Set(i, i, color.White)
		img.Set(size-1-i, i, color.White)
	}
	return img
}

// createBaseImage creates a transparent square image.
func createBaseImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	return img
}

// convertToEngoTexture uploads an image as an engo texture.
func convertToEngoTexture(img *image.NRGBA) common.Drawable {
	return common.NewTextureSingle(common.NewImageObject(img))
}
