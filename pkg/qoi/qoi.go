// Package qoi implements the QOI (Quite OK Image) format, a lossless
// byte-oriented codec for 8-bit RGB and RGBA pixel data.
//
// The low-level API works on contiguous byte buffers: Encode turns raw
// pixel samples plus a Metadata record into a complete QOI stream, and
// Decode does the reverse. EncodeImage and DecodeImage wrap the same
// codec behind the standard library image interfaces.
package qoi

import (
	"errors"
	"image/color"
)

// A list of opcodes used in a stream. They specify how the bytes are encoded.
const (
	OpRgb   = byte(0b11111110)
	OpRgba  = byte(0b11111111)
	OpIndex = byte(0b00000000)
	OpDiff  = byte(0b01000000)
	OpLuma  = byte(0b10000000)
	OpRun   = byte(0b11000000)
	// OpMask is the mask for the 2-bit op codes.
	OpMask = byte(0b11000000)

	// Magic is the magic code starting every file of the QuiteOk image format.
	Magic = "qoif"

	headerSize = 14
	maxRun     = 62
)

var (
	ErrInvalidMagic      = errors.New("invalid magic")
	ErrShortHeader       = errors.New("header too short")
	ErrInvalidChannels   = errors.New("invalid channels: must be 3 or 4")
	ErrInvalidColorspace = errors.New("invalid colorspace: must be 0 or 1")
	ErrPixelLength       = errors.New("pixel data length is not a multiple of the channel count")
	ErrInvalidEOF        = errors.New("invalid EOF")
	ErrTruncatedChunk    = errors.New("truncated chunk")
	ErrEmptyIndexSlot    = errors.New("index chunk references an empty slot")
	ErrPixelCount        = errors.New("wrong number of pixels decoded")

	// endMarker is the byte sequence terminating every stream.
	endMarker = [...]byte{0, 0, 0, 0, 0, 0, 0, 1}

	// startPixel is the previous-pixel register value before the first
	// chunk, on both the encode and the decode side.
	startPixel = color.NRGBA{A: 255}
	zeroPixel  = color.NRGBA{}
)

// Channels is the number of 8-bit samples per pixel in a stream.
type Channels uint8

const (
	ChannelsRGB  Channels = 3
	ChannelsRGBA Channels = 4
)

// Colorspace tags a stream as sRGB with linear alpha or as all-linear.
// It is descriptive metadata only and never changes byte output.
type Colorspace uint8

const (
	ColorspaceSRGB   Colorspace = 0
	ColorspaceLinear Colorspace = 1
)

// Metadata is the image description carried by the 14-byte header.
type Metadata struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	Colorspace Colorspace
}
