package qoi

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/machonerd15/jaqoi/pkg/qoi/colortable"
)

// Decode parses a complete QOI stream and returns its metadata and the
// raw pixel samples, 3 bytes per pixel for an RGB stream and 4 for an
// RGBA stream, in scanline order.
func Decode(data []byte) (Metadata, []byte, error) {
	meta, err := parseHeader(data)
	if err != nil {
		return Metadata{}, nil, err
	}
	if err := verifyEndMarker(data); err != nil {
		return Metadata{}, nil, err
	}

	body := data[headerSize : len(data)-len(endMarker)]
	size := uint64(meta.Width) * uint64(meta.Height)

	pixels, count, err := decodeChunks(body, meta.Channels == ChannelsRGBA, size)
	if err != nil {
		return Metadata{}, nil, err
	}
	if count != size {
		return Metadata{}, nil, fmt.Errorf("%w: expected %d, actual %d", ErrPixelCount, size, count)
	}

	return meta, pixels, nil
}

// verifyEndMarker checks that the stream ends with the fixed 8-byte
// end marker.
func verifyEndMarker(data []byte) error {
	if len(data) < headerSize+len(endMarker) {
		return fmt.Errorf("%w: stream of %d bytes has no room for the end marker", ErrInvalidEOF, len(data))
	}
	if trailer := data[len(data)-len(endMarker):]; !bytes.Equal(trailer, endMarker[:]) {
		return fmt.Errorf("%w: actual trailer % 02X", ErrInvalidEOF, trailer)
	}
	return nil
}

// decodeChunks consumes opcode bytes until body is exhausted and
// returns the reconstructed samples plus the number of pixels emitted.
func decodeChunks(body []byte, alphaIncluded bool, sizeHint uint64) ([]byte, uint64, error) {
	bpp := uint64(3)
	if alphaIncluded {
		bpp = 4
	}
	// The header's dimensions are untrusted input; preallocate only
	// what the body could actually fill. A single body byte yields at
	// most 62 pixels, and oversized claims fail the pixel-count check.
	capPixels := sizeHint
	if limit := uint64(len(body)) * maxRun; capPixels > limit {
		capPixels = limit
	}
	out := make([]byte, 0, capPixels*bpp)

	prev := startPixel
	index := colortable.Table{}
	// Mirrors the encoder's state once the first pixel has been
	// processed; a compliant decoder accepts streams that index the
	// two canonical pixels before any regular write.
	index.Add(startPixel)
	index.Add(zeroPixel)

	var count uint64

	for i := 0; i < len(body); {
		tag := body[i]
		i++
		pixel := prev

		// The full-byte tags win over the 2-bit prefixes; testing the
		// prefixes first would misread OpRgb and OpRgba as runs.
		switch {
		case tag == OpRgb:
			if i+3 > len(body) {
				return nil, 0, fmt.Errorf("%w: rgb chunk at offset %d", ErrTruncatedChunk, i-1)
			}
			pixel.R = body[i]
			pixel.G = body[i+1]
			pixel.B = body[i+2]
			i += 3
		case tag == OpRgba:
			if i+4 > len(body) {
				return nil, 0, fmt.Errorf("%w: rgba chunk at offset %d", ErrTruncatedChunk, i-1)
			}
			pixel.R = body[i]
			pixel.G = body[i+1]
			pixel.B = body[i+2]
			pixel.A = body[i+3]
			i += 4
		case tag&OpMask == OpIndex:
			var ok bool
			pixel, ok = index.At(int(tag &^ OpMask))
			if !ok {
				return nil, 0, fmt.Errorf("%w: slot %d", ErrEmptyIndexSlot, tag&^OpMask)
			}
		case tag&OpMask == OpDiff:
			pixel.R = prev.R + (tag>>4)&0b11 - 2
			pixel.G = prev.G + (tag>>2)&0b11 - 2
			pixel.B = prev.B + tag&0b11 - 2
		case tag&OpMask == OpLuma:
			if i+1 > len(body) {
				return nil, 0, fmt.Errorf("%w: luma chunk at offset %d", ErrTruncatedChunk, i-1)
			}
			b2 := body[i]
			i++
			dg := tag&^OpMask - 32
			pixel.R = prev.R + dg - 8 + (b2>>4)&0x0F
			pixel.G = prev.G + dg
			pixel.B = prev.B + dg - 8 + b2&0x0F
		default: // OpRun
			length := uint64(tag&^OpMask) + 1
			for n := uint64(0); n < length; n++ {
				out = appendPixel(out, prev, alphaIncluded)
			}
			count += length
			// The run repeats the previous pixel, which already sits
			// in its index slot; nothing else changes.
			continue
		}

		out = appendPixel(out, pixel, alphaIncluded)
		count++
		index.Add(pixel)
		prev = pixel
	}

	return out, count, nil
}

func appendPixel(dst []byte, p color.NRGBA, alphaIncluded bool) []byte {
	if alphaIncluded {
		return append(dst, p.R, p.G, p.B, p.A)
	}
	return append(dst, p.R, p.G, p.B)
}
