package imaging

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"poster-server/internal/domain"
)

const (
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = time.Hour
	minJPEGQuality         = 40

	// MaxPixels caps the decoded size of any image. Headers are checked
	// before pixel data is allocated.
	MaxPixels = 50_000_000
)

// Options bounds the re-encoded image.
type Options struct {
	MaxWidth  int
	MaxHeight int
	// Quality is the starting JPEG quality. Ignored for lossless output.
	Quality int
	// Lossless selects PNG output and keeps the alpha channel.
	Lossless bool
	// MaxBytes, when positive, lowers JPEG quality until the payload fits.
	MaxBytes int
}

// Presets per image role.
var (
	ProductOptions     = Options{MaxWidth: 1024, MaxHeight: 1024, Quality: 85, MaxBytes: 1 << 20}
	LogoOptions        = Options{MaxWidth: 512, MaxHeight: 512, Lossless: true}
	InspirationOptions = Options{MaxWidth: 768, MaxHeight: 768, Quality: 80, MaxBytes: 512 << 10}
)

// OptionsFor returns the preset for an image role.
func OptionsFor(role domain.ImageRole) Options {
	switch role {
	case domain.ImageRoleLogo:
		return LogoOptions
	case domain.ImageRoleInspiration:
		return InspirationOptions
	default:
		return ProductOptions
	}
}

// Compressed is a re-encoded image ready to attach to a prompt.
type Compressed struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Part converts the image to a prompt part with the given role.
func (c *Compressed) Part(role domain.ImageRole) domain.ImagePart {
	return domain.ImagePart{Role: role, MimeType: c.MimeType, Data: c.Data}
}

// Compressor re-encodes images and memoizes the results.
type Compressor struct {
	cache *cache.Cache
}

// NewCompressor returns a compressor whose memoized results expire after ttl.
func NewCompressor(ttl time.Duration) *Compressor {
	if ttl <= 0 {
		ttl = defaultCacheExpiration
	}
	return &Compressor{cache: cache.New(ttl, cacheCleanupInterval)}
}

// Compress decodes a data URI and re-encodes it within the option bounds.
// Absent or undecodable input yields nil.
func (c *Compressor) Compress(dataURI string, opts Options) *Compressed {
	if dataURI == "" {
		return nil
	}
	key := cacheKey(dataURI, opts)
	if c != nil && c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.(*Compressed)
		}
	}
	_, raw, err := ParseDataURI(dataURI)
	if err != nil {
		return nil
	}
	out, err := compressBytes(raw, opts)
	if err != nil {
		return nil
	}
	if c != nil && c.cache != nil {
		c.cache.Set(key, out, cache.DefaultExpiration)
	}
	return out
}

func compressBytes(raw []byte, opts Options) (*Compressed, error) {
	src, err := decodeBounded(raw)
	if err != nil {
		return nil, err
	}
	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), opts.MaxWidth, opts.MaxHeight)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	if opts.Lossless {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return &Compressed{Data: buf.Bytes(), MimeType: "image/png", Width: w, Height: h}, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	for {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		if opts.MaxBytes <= 0 || buf.Len() <= opts.MaxBytes || quality <= minJPEGQuality {
			return &Compressed{Data: buf.Bytes(), MimeType: "image/jpeg", Width: w, Height: h}, nil
		}
		quality -= 10
		if quality < minJPEGQuality {
			quality = minJPEGQuality
		}
	}
}

// decodeBounded decodes raw only when its header declares at most MaxPixels.
func decodeBounded(raw []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("empty image")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return src, nil
}

// fitWithin scales (w, h) down to fit the envelope, keeping the aspect ratio.
// Images already inside the envelope keep their size.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func cacheKey(dataURI string, opts Options) string {
	sum := sha256.New()
	sum.Write([]byte(dataURI))
	fmt.Fprintf(sum, "|%d|%d|%d|%t|%d", opts.MaxWidth, opts.MaxHeight, opts.Quality, opts.Lossless, opts.MaxBytes)
	return hex.EncodeToString(sum.Sum(nil))
}
