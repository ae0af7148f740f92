package plugin

/*

	The Adapter sits aside /face/
	Contains core interfaces for Plugin

*/

import (
	Rt "github.com/maroda/radial/types"
)

// FrameOutput is a place for painted frames to go besides the host screen,
// frame-by-frame, e.g. an image file or a live preview stream.
// Outputs are called from the host event loop and must not block it.
type FrameOutput interface {
	WriteFrame(f Rt.Frame) error // Write one painted frame
	Close() error                // Close the output and release resources
	Type() string                // ID for output
}
