package components

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/spatail/vbdplayer/internal/media"
	"github.com/spatail/vbdplayer/pkg/types"
)

// CoverImage shows album art, falling back to the placeholder.
type CoverImage struct {
	image *canvas.Image
	debug bool
}

func NewCoverImage(size fyne.Size, debug bool) *CoverImage {
	img := canvas.NewImageFromResource(media.Placeholder())
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(size)

	return &CoverImage{image: img, debug: debug}
}

// ShowCover must be called on the UI thread.
func (c *CoverImage) ShowCover(img *types.Image) {
	if c.debug {
		if img == nil {
			log.Printf("[COVER] Showing placeholder")
		} else {
			log.Printf("[COVER] Showing %s (%d bytes)", img.Name, len(img.Data))
		}
	}
	c.image.Resource = media.Resource(img)
	c.image.Refresh()
}

func (c *CoverImage) Widget() fyne.CanvasObject {
	return c.image
}
