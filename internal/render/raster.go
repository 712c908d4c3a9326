package render

import (
	"bytes"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Raster is an RGB pixel buffer, row major, 3 bytes per pixel. A raster
// is never modified after the engine returns it.
type Raster struct {
	Width, Height int
	Pix           []byte
}

// NewRaster allocates a black raster.
func NewRaster(width, height int) *Raster {
	return &Raster{Width: width, Height: height, Pix: make([]byte, width*height*3)}
}

// At returns the RGB triple at (x, y).
func (r *Raster) At(x, y int) (byte, byte, byte) {
	i := (y*r.Width + x) * 3
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// Image converts to an opaque *image.RGBA.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i, j := 0, 0; i < len(r.Pix); i, j = i+3, j+4 {
		img.Pix[j] = r.Pix[i]
		img.Pix[j+1] = r.Pix[i+1]
		img.Pix[j+2] = r.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// Fit returns the raster as an image no larger than maxW x maxH, keeping
// the aspect ratio. Rasters that already fit are converted unscaled.
func (r *Raster) Fit(maxW, maxH int) *image.RGBA {
	src := r.Image()
	if r.Width <= maxW && r.Height <= maxH {
		return src
	}
	w, h := maxW, r.Height*maxW/r.Width
	if h > maxH {
		w, h = r.Width*maxH/r.Height, maxH
	}
	w, h = max(w, 1), max(h, 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.Image())
}

// PNG returns the PNG encoding of the raster.
func (r *Raster) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
