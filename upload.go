package texres

import "image"

// Upload is a pixel-upload payload: a CPU-side pixel buffer destined for a
// sub-rectangle of a texture at a given mip level.
//
// Payloads are constructed by content-producing code (image decoding, video
// decode, software rasterization) and handed to Texture.SetData. The
// texture layer treats them as immutable: the buffer must not change
// between SetData and the frame the transfer is applied in.
type Upload interface {
	// Data returns the RGBA pixel buffer (4 bytes per pixel, alpha last).
	Data() []byte

	// Bounds returns the target sub-rectangle, in the coordinate space of
	// the receiving texture's Bounds.
	Bounds() image.Rectangle

	// Level returns the target mip level. Level 0 is the base image.
	Level() int

	// Classify returns the opacity classification of the payload.
	// Implementations backed by sources without a usable alpha channel
	// (video frames) return a fixed classification without scanning.
	Classify() Opacity
}

// PixmapUpload uploads a pixmap to a texture sub-rectangle.
type PixmapUpload struct {
	// Pixmap holds the pixel data. Its dimensions define the upload size.
	Pixmap *Pixmap

	// Origin is the top-left corner of the target sub-rectangle.
	Origin image.Point

	// MipLevel is the target mip level.
	MipLevel int
}

// Data returns the pixmap's RGBA buffer, or nil for a nil pixmap.
func (u *PixmapUpload) Data() []byte {
	if u.Pixmap == nil {
		return nil
	}
	return u.Pixmap.Data()
}

// Bounds returns the target sub-rectangle.
func (u *PixmapUpload) Bounds() image.Rectangle {
	if u.Pixmap == nil {
		return image.Rectangle{}
	}
	return image.Rectangle{
		Min: u.Origin,
		Max: u.Origin.Add(image.Pt(u.Pixmap.Width(), u.Pixmap.Height())),
	}
}

// Level returns the target mip level.
func (u *PixmapUpload) Level() int {
	return u.MipLevel
}

// Classify scans the pixel buffer once and returns its classification.
func (u *PixmapUpload) Classify() Opacity {
	return ClassifyPixels(u.Data())
}

// VideoFrameUpload uploads a pre-decoded video frame.
//
// Video frames define no usable alpha channel, so the payload always
// classifies as [OpacityOpaque] and is never scanned. Frames target mip
// level 0 and are expected to cover the texture's full bounds.
type VideoFrameUpload struct {
	// Pixmap holds the decoded frame.
	Pixmap *Pixmap

	// Origin is the top-left corner of the target sub-rectangle,
	// normally (0, 0).
	Origin image.Point
}

// Data returns the frame's RGBA buffer, or nil for a nil pixmap.
func (u *VideoFrameUpload) Data() []byte {
	if u.Pixmap == nil {
		return nil
	}
	return u.Pixmap.Data()
}

// Bounds returns the target sub-rectangle.
func (u *VideoFrameUpload) Bounds() image.Rectangle {
	if u.Pixmap == nil {
		return image.Rectangle{}
	}
	return image.Rectangle{
		Min: u.Origin,
		Max: u.Origin.Add(image.Pt(u.Pixmap.Width(), u.Pixmap.Height())),
	}
}

// Level returns 0: video frames always target the base image.
func (u *VideoFrameUpload) Level() int {
	return 0
}

// Classify returns [OpacityOpaque] without scanning the buffer.
func (u *VideoFrameUpload) Classify() Opacity {
	return OpacityOpaque
}
