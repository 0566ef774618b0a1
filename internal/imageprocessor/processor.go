package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Preset - ограничение размеров для конкретного назначения
type Preset struct {
	Name      string
	MaxWidth  int
	MaxHeight int
}

var (
	PresetAvatar    = Preset{Name: "avatar", MaxWidth: 400, MaxHeight: 400}
	PresetLogo      = Preset{Name: "logo", MaxWidth: 512, MaxHeight: 512}
	PresetPostImage = Preset{Name: "post", MaxWidth: 1600, MaxHeight: 1600}
)

// Result - обработанное изображение
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// Process декодирует изображение, вписывает его в пресет (без увеличения)
// и кодирует обратно. PNG и GIF сохраняются как PNG, остальное как JPEG.
func (p *Processor) Process(reader io.Reader, preset Preset) (*Result, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	resized := p.fit(img, preset.MaxWidth, preset.MaxHeight)
	bounds := resized.Bounds()

	res := &Result{Width: bounds.Dx(), Height: bounds.Dy()}
	var buf bytes.Buffer

	switch format {
	case "png", "gif":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		res.ContentType, res.Ext = "image/png", ".png"
	case "jpeg", "webp":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		res.ContentType, res.Ext = "image/jpeg", ".jpg"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	res.Data = buf.Bytes()
	return res, nil
}

// fit вписывает изображение в maxWidth x maxHeight с сохранением пропорций.
// Изображения меньше рамки возвращаются без изменений.
func (p *Processor) fit(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return img
	}
	if (maxWidth <= 0 || width <= maxWidth) && (maxHeight <= 0 || height <= maxHeight) {
		return img
	}

	scale := 1.0
	if maxWidth > 0 {
		scale = float64(maxWidth) / float64(width)
	}
	if maxHeight > 0 {
		if s := float64(maxHeight) / float64(height); s < scale {
			scale = s
		}
	}

	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
