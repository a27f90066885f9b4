package qoi

import (
	"fmt"
	"image/color"

	"github.com/machonerd15/jaqoi/pkg/qoi/colortable"
)

// operation identifies the opcode chosen for a pixel. Selection and
// emission are kept separate so the priority order stays explicit.
type operation uint8

const (
	opRgb operation = iota
	opRgba
	opIndex
	opDiff
	opLuma
	opRun
)

// Encode encodes raw pixel samples into a complete QOI stream, header
// and end marker included. The pixel slice holds 3 bytes per pixel for
// ChannelsRGB and 4 for ChannelsRGBA, in scanline order; its length
// must be a multiple of the channel count.
func Encode(pixels []byte, meta Metadata) ([]byte, error) {
	if meta.Channels != ChannelsRGB && meta.Channels != ChannelsRGBA {
		return nil, fmt.Errorf("%w: actual %d", ErrInvalidChannels, uint8(meta.Channels))
	}

	buf := make([]byte, 0, headerSize+len(pixels)+len(endMarker))
	buf = appendHeader(buf, meta)

	buf, err := appendChunks(buf, pixels, meta.Channels == ChannelsRGBA)
	if err != nil {
		return nil, err
	}

	return append(buf, endMarker[:]...), nil
}

// appendChunks walks the pixels in order and appends one opcode per
// pixel (or per run of identical pixels) to dst.
func appendChunks(dst []byte, pixels []byte, alphaIncluded bool) ([]byte, error) {
	bpp := 3
	if alphaIncluded {
		bpp = 4
	}
	if len(pixels)%bpp != 0 {
		return nil, fmt.Errorf("%w: %d bytes with %d channels", ErrPixelLength, len(pixels), bpp)
	}

	prev := startPixel
	index := colortable.Table{}
	run := 0

	for off := 0; off < len(pixels); off += bpp {
		curr := color.NRGBA{
			R: pixels[off],
			G: pixels[off+1],
			B: pixels[off+2],
			A: 255,
		}
		if alphaIncluded {
			curr.A = pixels[off+3]
		}

		op := findOperation(prev, curr, &index)

		// A pending run ends as soon as any other opcode is selected.
		if op != opRun && run > 0 {
			dst = appendRun(dst, run)
			run = 0
		}

		switch op {
		case opRgb:
			dst = append(dst, OpRgb, curr.R, curr.G, curr.B)
		case opRgba:
			dst = append(dst, OpRgba, curr.R, curr.G, curr.B, curr.A)
		case opIndex:
			dst = append(dst, OpIndex|byte(colortable.IndexFor(curr)))
		case opDiff:
			dst = appendDiff(dst, prev, curr)
		case opLuma:
			dst = appendLuma(dst, prev, curr)
		case opRun:
			run++
			if run == maxRun {
				// Field values 62 and 63 collide with OpRgb/OpRgba.
				dst = appendRun(dst, run)
				run = 0
			}
		}

		// During a run the pixel is already resident in its slot, so
		// the index only changes on non-run steps.
		if op != opRun {
			index.Add(curr)
		}
		prev = curr
	}

	if run > 0 {
		dst = appendRun(dst, run)
	}

	return dst, nil
}

// findOperation selects the highest-priority opcode able to encode
// curr given the previous pixel and the running index.
func findOperation(prev, curr color.NRGBA, index *colortable.Table) operation {
	if curr.A != prev.A {
		return opRgba
	}
	if curr == prev {
		return opRun
	}
	if index.Contains(curr) {
		return opIndex
	}

	// Channel diffs wrap modulo 256, as do the biased range checks, so
	// values straddling the 0/255 boundary still qualify.
	dr := curr.R - prev.R
	dg := curr.G - prev.G
	db := curr.B - prev.B

	if dr+2 < 4 && dg+2 < 4 && db+2 < 4 {
		return opDiff
	}
	if dg+32 < 64 && (dr-dg)+8 < 16 && (db-dg)+8 < 16 {
		return opLuma
	}
	return opRgb
}

func appendDiff(dst []byte, prev, curr color.NRGBA) []byte {
	dr := curr.R - prev.R + 2
	dg := curr.G - prev.G + 2
	db := curr.B - prev.B + 2
	return append(dst, OpDiff|dr<<4|dg<<2|db)
}

func appendLuma(dst []byte, prev, curr color.NRGBA) []byte {
	dg := curr.G - prev.G
	drDg := curr.R - prev.R - dg + 8
	dbDg := curr.B - prev.B - dg + 8
	return append(dst, OpLuma|(dg+32), drDg<<4|dbDg)
}

// appendRun emits a run opcode for length pixels, 1 <= length <= 62.
// The 6-bit field carries the length with a -1 bias.
func appendRun(dst []byte, length int) []byte {
	return append(dst, OpRun|byte(length-1))
}
