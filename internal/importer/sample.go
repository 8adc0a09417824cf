package importer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// cropRegion resolves the area of img to sample. An empty crop selects the
// whole image; otherwise the crop is taken relative to the image origin and
// clipped to its bounds.
func cropRegion(img image.Image, crop image.Rectangle) (image.Rectangle, error) {
	b := img.Bounds()
	if crop.Empty() {
		return b, nil
	}
	region := crop.Add(b.Min).Intersect(b)
	if region.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: crop %v lies outside the %dx%d image",
			model.ErrInvalidConfig, crop, b.Dx(), b.Dy())
	}
	return region, nil
}

// toRGB converts any color to 8-bit RGB. Translucent pixels are composited
// over white so a transparent background reads as white.
func toRGB(c color.Color) model.RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return model.RGB{R: n.R, G: n.G, B: n.B}
	}
	over := func(v uint8) uint8 {
		return uint8((int(v)*int(n.A) + 255*(255-int(n.A)) + 127) / 255)
	}
	return model.RGB{R: over(n.R), G: over(n.G), B: over(n.B)}
}

// SampleDesign reads one color per block from the cropped image. The image
// is split into cols x rows equal blocks and each block takes the pixel at
// its geometric centre, inc/2 + i*inc truncated to an integer. The result is
// indexed [x][y].
func SampleDesign(img image.Image, crop image.Rectangle, cols, rows int) ([][]model.RGB, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: design size must be positive, got %dx%d", model.ErrInvalidConfig, cols, rows)
	}
	region, err := cropRegion(img, crop)
	if err != nil {
		return nil, err
	}

	incX := float64(region.Dx()) / float64(cols)
	incY := float64(region.Dy()) / float64(rows)

	cells := make([][]model.RGB, cols)
	for x := 0; x < cols; x++ {
		cells[x] = make([]model.RGB, rows)
		px := region.Min.X + int(incX/2+float64(x)*incX)
		for y := 0; y < rows; y++ {
			py := region.Min.Y + int(incY/2+float64(y)*incY)
			cells[x][y] = toRGB(img.At(px, py))
		}
	}
	return cells, nil
}

// LoadDesign loads and samples the image a design configuration points at.
func LoadDesign(dc model.DesignConfig) (model.Design, error) {
	img, err := LoadImage(dc.Path)
	if err != nil {
		return model.Design{}, fmt.Errorf("design %q: %w", dc.Name, err)
	}
	cells, err := SampleDesign(img, dc.Crop, dc.Size.X, dc.Size.Y)
	if err != nil {
		return model.Design{}, fmt.Errorf("design %q: %w", dc.Name, err)
	}
	return model.Design{
		Name:      dc.Name,
		Origin:    dc.Position,
		Cells:     cells,
		KeepWhite: dc.KeepWhite,
	}, nil
}
