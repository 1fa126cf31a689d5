package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/draw"

	"poster-server/internal/domain"
)

// PosterQuality is the JPEG quality of delivered posters.
const PosterQuality = 92

// Processed is a poster resized to its output format.
type Processed struct {
	Data     []byte
	DataURI  string
	MimeType string
	Width    int
	Height   int
}

// PostProcess stretches the image to exactly width x height and re-encodes it
// as JPEG. Any decode failure is reported as domain.ErrPostProcess.
func PostProcess(data []byte, width, height int) (*Processed, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid target size %dx%d", domain.ErrPostProcess, width, height)
	}
	src, err := decodeBounded(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPostProcess, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: PosterQuality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrPostProcess, err)
	}
	out := buf.Bytes()
	return &Processed{
		Data:     out,
		DataURI:  EncodeDataURI("image/jpeg", out),
		MimeType: "image/jpeg",
		Width:    width,
		Height:   height,
	}, nil
}

// PostProcessFormat resizes to the pixel size of a known output format.
func PostProcessFormat(data []byte, format domain.OutputFormat) (*Processed, error) {
	spec, ok := domain.LookupFormat(format)
	if !ok {
		return nil, fmt.Errorf("%w: unknown output format %q", domain.ErrPostProcess, format)
	}
	return PostProcess(data, spec.Width, spec.Height)
}
