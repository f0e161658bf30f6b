package texres

// VideoTexture is a texture resource rewritten on every frame from a video
// decode stream.
//
// Two things distinguish it from a plain NativeTexture: uploads bypass the
// shared per-frame queue (a deferred slot per frame would only ever hold
// the latest frame anyway, and the shared backlog must not grow), and
// frames always classify as Opaque without scanning, since video frames
// define no usable alpha channel.
type VideoTexture struct {
	*NativeTexture
}

// VideoTextureConfig holds configuration for creating a VideoTexture.
type VideoTextureConfig struct {
	// Width is the frame width in pixels.
	Width int

	// Height is the frame height in pixels.
	Height int

	// Label is an optional debug label.
	Label string
}

// NewVideoTexture creates a streaming texture for decoded video frames.
// Wrap modes are clamp-to-edge; the upload queue is bypassed.
func (c *Context) NewVideoTexture(config VideoTextureConfig) (*VideoTexture, error) {
	t, err := c.NewTexture(TextureConfig{
		Width:             config.Width,
		Height:            config.Height,
		WrapModeS:         WrapModeClampToEdge,
		WrapModeT:         WrapModeClampToEdge,
		Label:             config.Label,
		BypassUploadQueue: true,
	})
	if err != nil {
		return nil, err
	}
	return &VideoTexture{NativeTexture: t}, nil
}

// SetFrame submits a decoded frame covering the full texture. The pending
// transfer is applied by the next Bind, so consecutive frames never pile
// up: the latest frame wins.
func (v *VideoTexture) SetFrame(frame *Pixmap) error {
	if frame == nil {
		return ErrNilUpload
	}
	return v.SetData(&VideoFrameUpload{Pixmap: frame})
}
