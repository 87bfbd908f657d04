package services

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Dosada05/rps-country-cup/brackets"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// Match card geometry, sized for a 16:9 social media preview.
const (
	canvasWidth  = 1200
	canvasHeight = 675
	flagWidth    = 400
	flagHeight   = 250
	flagBorder   = 5
	iconSize     = 150
	textScale    = 3
)

var (
	colorPlaceholder = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	colorMoveA       = color.RGBA{B: 255, A: 255}
	colorMoveB       = color.RGBA{R: 255, A: 255}
)

// ImageRenderer draws match cards to a PNG file. Unreadable flags are replaced by
// a grey placeholder and a missing battle icon is left out.
type ImageRenderer struct {
	outputPath string
	iconPath   string
	logger     *slog.Logger
}

func NewImageRenderer(outputPath, iconPath string, logger *slog.Logger) *ImageRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageRenderer{outputPath: outputPath, iconPath: iconPath, logger: logger}
}

func (r *ImageRenderer) Render(ctx context.Context, card brackets.MatchCard) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	canvas := r.Compose(ctx, card)

	if dir := filepath.Dir(r.outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create image directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(r.outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create match image %s: %w", r.outputPath, err)
	}
	if err := png.Encode(f, canvas); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode match image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close match image: %w", err)
	}

	r.logger.DebugContext(ctx, "match image rendered", slog.String("path", r.outputPath))
	return r.outputPath, nil
}

// Compose lays out the match card in memory.
func (r *ImageRenderer) Compose(ctx context.Context, card brackets.MatchCard) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	flagA := r.loadFlag(ctx, card.A.Name, card.A.Flag)
	flagB := r.loadFlag(ctx, card.B.Name, card.B.Flag)
	icon := r.loadIcon(ctx)

	fw, fh := flagA.Bounds().Dx(), flagA.Bounds().Dy()
	xOffset := (canvasWidth - (fw + iconSize + flagB.Bounds().Dx())) / 2
	yOffset := (canvasHeight-fh)/2 + 50

	posA := image.Pt(xOffset, yOffset)
	posIcon := image.Pt(xOffset+fw+20, (canvasHeight-iconSize)/2)
	posB := image.Pt(xOffset+fw+iconSize+40, yOffset)

	draw.Draw(canvas, flagA.Bounds().Add(posA), flagA, image.Point{}, draw.Src)
	if icon != nil {
		draw.Draw(canvas, icon.Bounds().Add(posIcon), icon, image.Point{}, draw.Over)
	}
	draw.Draw(canvas, flagB.Bounds().Add(posB), flagB, image.Point{}, draw.Src)

	roundText := fmt.Sprintf("Round %d", card.Round)
	drawText(canvas, roundText, (canvasWidth-textWidth(roundText))/2, 20, color.Black)

	drawText(canvas, string(card.MoveA), posA.X+fw/2-20, yOffset+fh+10, colorMoveA)
	drawText(canvas, string(card.MoveB), posB.X+flagB.Bounds().Dx()/2-20, yOffset+flagB.Bounds().Dy()+10, colorMoveB)

	return canvas
}

func (r *ImageRenderer) loadFlag(ctx context.Context, country, path string) image.Image {
	img, err := decodeImageFile(path)
	if err != nil {
		r.logger.WarnContext(ctx, "flag unavailable, using placeholder", slog.String("country", country), slog.String("flag", path), slog.Any("error", err))
		return placeholder(flagWidth+2*flagBorder, flagHeight+2*flagBorder)
	}
	resized := image.NewRGBA(image.Rect(0, 0, flagWidth, flagHeight))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)
	return addBorder(resized, flagBorder, color.Black)
}

func (r *ImageRenderer) loadIcon(ctx context.Context) image.Image {
	if r.iconPath == "" {
		return nil
	}
	img, err := decodeImageFile(r.iconPath)
	if err != nil {
		r.logger.WarnContext(ctx, "battle icon unavailable", slog.String("path", r.iconPath), slog.Any("error", err))
		return nil
	}
	icon := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	xdraw.CatmullRom.Scale(icon, icon.Bounds(), img, img.Bounds(), draw.Over, nil)
	return icon
}

func decodeImageFile(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("no image reference")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

func placeholder(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorPlaceholder), image.Point{}, draw.Src)
	return img
}

func addBorder(src image.Image, size int, c color.Color) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*size, b.Dy()+2*size))
	draw.Draw(out, out.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	draw.Draw(out, b.Sub(b.Min).Add(image.Pt(size, size)), src, b.Min, draw.Src)
	return out
}

func textWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil() * textScale
}

// drawText renders text with its top-left corner at (x, y), upscaling the bitmap font.
func drawText(dst draw.Image, text string, x, y int, c color.Color) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := metrics.Height.Ceil()
	if w == 0 || h == 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	target := image.Rect(x, y, x+w*textScale, y+h*textScale)
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}
