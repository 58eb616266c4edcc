package cursor

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KononK/resize"
	"github.com/daaku/swizzle"
	"golang.org/x/image/draw"
)

// Theme holds the decoded cursor images for the shapes the core uses
// (§4.7 only needs "default" and the move/resize grab cursors; a real
// backend may load more). Images are kept as premultiplied BGRA byte
// slices, the pixel order most Wayland shm buffer formats (e.g.
// WL_SHM_FORMAT_ARGB8888 on little-endian) expect, converted from the
// RGBA decoders in the standard image package via daaku/swizzle.
type Theme struct {
	size   int
	images map[string]*image.RGBA
	bgra   map[string][]byte
}

// LoadTheme loads shape PNGs named "<name>.png" out of dir, scaled to
// size pixels square with github.com/KononK/resize, mirroring
// XCURSOR_THEME/XCURSOR_SIZE's directory-of-PNGs layout used by themes
// that ship a "png" fallback alongside their XCursor binary format.
func LoadTheme(dir string, size int) (*Theme, error) {
	t := &Theme{
		size:   size,
		images: make(map[string]*image.RGBA),
		bgra:   make(map[string][]byte),
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cursor: reading theme dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".png")
		if err := t.loadShape(dir, name); err != nil {
			return nil, err
		}
	}
	if len(t.images) == 0 {
		return nil, fmt.Errorf("cursor: no cursor shapes found in %q", dir)
	}
	return t, nil
}

func (t *Theme) loadShape(dir, name string) error {
	f, err := os.Open(filepath.Join(dir, name+".png"))
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("cursor: decoding %s: %w", name, err)
	}

	scaled := resize.Resize(uint(t.size), uint(t.size), img, resize.Bilinear)
	rgba := image.NewRGBA(scaled.Bounds())
	draw.Draw(rgba, rgba.Bounds(), scaled, image.Point{}, draw.Src)

	t.images[name] = rgba
	t.bgra[name] = toBGRA(rgba)
	return nil
}

// toBGRA swizzles an image.RGBA's byte-ordered pixels (R,G,B,A) into
// B,G,R,A, the order WL_SHM_FORMAT_ARGB8888 expects on a little-endian
// host.
func toBGRA(img *image.RGBA) []byte {
	out := make([]byte, len(img.Pix))
	copy(out, img.Pix)
	swizzle.BGRA(out)
	return out
}

// Shape returns the BGRA pixel buffer for name, and the theme's fixed
// square size, or false if the theme has no such shape.
func (t *Theme) Shape(name string) (pixels []byte, size int, ok bool) {
	p, ok := t.bgra[name]
	return p, t.size, ok
}

// ThemeNameFromEnv and SizeFromEnv mirror river's XCURSOR_THEME/
// XCURSOR_SIZE convention (§6): the theme name/size an XWayland client or
// a GTK/Qt client expects the compositor to have set so their own cursor
// rendering matches.
func ThemeNameFromEnv() string {
	if v := os.Getenv("XCURSOR_THEME"); v != "" {
		return v
	}
	return "default"
}

func SizeFromEnv() int {
	if v := os.Getenv("XCURSOR_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 24
}
