package texres

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// Atlas errors.
var (
	// ErrAtlasFull is returned when the atlas cannot fit the requested region.
	ErrAtlasFull = errors.New("texres: texture atlas is full")

	// ErrAtlasDisposed is returned when operating on a disposed atlas.
	ErrAtlasDisposed = errors.New("texres: texture atlas is disposed")
)

// Default atlas settings.
const (
	// DefaultAtlasSize is the default atlas dimension (2048x2048).
	DefaultAtlasSize = 2048

	// MinAtlasSize is the minimum atlas dimension (256x256).
	MinAtlasSize = 256

	// DefaultAtlasPadding is the padding between allocated regions,
	// keeping linear filtering from bleeding across neighbours.
	DefaultAtlasPadding = 1
)

// shelf represents a horizontal shelf in the shelf-packing algorithm.
type shelf struct {
	y      int // top Y coordinate of this shelf
	height int // height of this shelf (tallest item so far)
	nextX  int // next available X position on this shelf
}

// rectAllocator implements a simple shelf-packing algorithm for
// allocating rectangular regions within a fixed-size area.
//
// The area is divided into horizontal "shelves". Each new rectangle is
// placed on an existing shelf if it fits, or a new shelf is opened below.
type rectAllocator struct {
	width   int
	height  int
	padding int

	shelves    []*shelf
	allocCount int
	usedArea   int
}

func newRectAllocator(width, height, padding int) *rectAllocator {
	if padding < 0 {
		padding = 0
	}
	return &rectAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]*shelf, 0, 16),
	}
}

// allocate finds space for a rectangle of the given size. Returns a zero
// rectangle when it cannot be placed.
func (a *rectAllocator) allocate(width, height int) image.Rectangle {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}
	}

	paddedWidth := width + a.padding
	paddedHeight := height + a.padding
	if paddedWidth > a.width || paddedHeight > a.height {
		return image.Rectangle{}
	}

	for _, s := range a.shelves {
		if a.fitsOnShelf(s, paddedWidth, paddedHeight) {
			return a.allocateOnShelf(s, width, height, paddedWidth)
		}
	}
	return a.allocateNewShelf(width, height, paddedWidth, paddedHeight)
}

func (a *rectAllocator) fitsOnShelf(s *shelf, paddedWidth, paddedHeight int) bool {
	if s.nextX+paddedWidth > a.width {
		return false
	}
	// A shelf cannot grow taller once items are on it.
	if paddedHeight > s.height && s.nextX > 0 {
		return false
	}
	return true
}

func (a *rectAllocator) allocateOnShelf(s *shelf, width, height, paddedWidth int) image.Rectangle {
	r := image.Rect(s.nextX, s.y, s.nextX+width, s.y+height)

	s.nextX += paddedWidth
	if height+a.padding > s.height {
		s.height = height + a.padding
	}

	a.allocCount++
	a.usedArea += width * height
	return r
}

func (a *rectAllocator) allocateNewShelf(width, height, paddedWidth, paddedHeight int) image.Rectangle {
	newY := 0
	if len(a.shelves) > 0 {
		last := a.shelves[len(a.shelves)-1]
		newY = last.y + last.height
	}
	if newY+paddedHeight > a.height {
		return image.Rectangle{}
	}

	a.shelves = append(a.shelves, &shelf{
		y:      newY,
		height: paddedHeight,
		nextX:  paddedWidth,
	})

	a.allocCount++
	a.usedArea += width * height
	return image.Rect(0, newY, width, newY+height)
}

func (a *rectAllocator) utilization() float64 {
	total := a.width * a.height
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}

// Atlas combines many small texture resources into a single large GPU
// allocation to reduce texture binding changes. Allocate hands out
// [RegionTexture] sub-resources; the atlas owns the backing texture and is
// the only party that may dispose it.
type Atlas struct {
	mu sync.Mutex

	texture   *NativeTexture
	allocator *rectAllocator
	padding   int
	disposed  bool
}

// AtlasConfig holds configuration for creating an Atlas.
type AtlasConfig struct {
	// Width is the atlas width in pixels. Defaults to DefaultAtlasSize;
	// values below MinAtlasSize are raised to the default.
	Width int

	// Height is the atlas height in pixels. Same defaulting as Width.
	Height int

	// Padding is the spacing between regions. Defaults to
	// DefaultAtlasPadding when negative.
	Padding int

	// Label is an optional debug label for the backing texture.
	Label string
}

// NewAtlas creates a texture atlas on this context.
func (c *Context) NewAtlas(config AtlasConfig) (*Atlas, error) {
	width := config.Width
	if width < MinAtlasSize {
		width = DefaultAtlasSize
	}
	height := config.Height
	if height < MinAtlasSize {
		height = DefaultAtlasSize
	}
	padding := config.Padding
	if padding < 0 {
		padding = DefaultAtlasPadding
	}

	tex, err := c.NewTexture(TextureConfig{
		Width:  width,
		Height: height,
		Label:  config.Label,
	})
	if err != nil {
		return nil, fmt.Errorf("texres: failed to create atlas texture: %w", err)
	}

	return &Atlas{
		texture:   tex,
		allocator: newRectAllocator(width, height, padding),
		padding:   padding,
	}, nil
}

// Allocate reserves a width x height region and returns it as a texture
// resource. Atlas regions use WrapModeNone: wrapped sampling cannot work
// inside a shared allocation.
func (a *Atlas) Allocate(width, height int) (*RegionTexture, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disposed {
		return nil, ErrAtlasDisposed
	}

	region := a.allocator.allocate(width, height)
	if region.Empty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrAtlasFull, width, height)
	}
	return newRegionTexture(a.texture, region, WrapModeNone, WrapModeNone), nil
}

// Texture returns the backing texture that all regions share.
func (a *Atlas) Texture() *NativeTexture {
	return a.texture
}

// Width returns the atlas width in pixels.
func (a *Atlas) Width() int { return a.texture.Width() }

// Height returns the atlas height in pixels.
func (a *Atlas) Height() int { return a.texture.Height() }

// Utilization returns the fraction of atlas area handed out (0.0 to 1.0).
func (a *Atlas) Utilization() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocator.utilization()
}

// AllocCount returns the number of regions handed out.
func (a *Atlas) AllocCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocator.allocCount
}

// Dispose disposes the backing texture, scheduling its GPU teardown for
// the next safe point. Regions handed out by this atlas become
// unavailable. Idempotent.
func (a *Atlas) Dispose() {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.disposed = true
	a.mu.Unlock()

	a.texture.Dispose()
}
