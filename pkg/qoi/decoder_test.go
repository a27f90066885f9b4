package qoi

import (
	"bytes"
	"errors"
	"testing"
)

// stream assembles a full QOI byte stream from metadata and chunk bytes.
func stream(meta Metadata, body ...byte) []byte {
	data := appendHeader(nil, meta)
	data = append(data, body...)
	return append(data, endMarker[:]...)
}

func TestDecodeEmptyImage(t *testing.T) {
	t.Parallel()

	meta, pixels, err := Decode(stream(rgbMeta(0, 0)))
	if err != nil {
		t.Fatalf("expected nil error, actual %v", err)
	}
	if meta != rgbMeta(0, 0) {
		t.Fatalf("expected %+v, actual %+v", rgbMeta(0, 0), meta)
	}
	if len(pixels) != 0 {
		t.Fatalf("expected no pixels, actual %d bytes", len(pixels))
	}
}

func TestDecodeChunks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		meta Metadata
		body []byte
		want []byte
	}{
		{
			name: "single rgb pixel",
			meta: rgbMeta(1, 1),
			body: []byte{OpRgb, 50, 50, 50},
			want: []byte{50, 50, 50},
		},
		{
			name: "rgba then run repeats all four samples",
			meta: Metadata{Width: 3, Height: 1, Channels: ChannelsRGBA},
			body: []byte{OpRgba, 16, 32, 48, 64, 0xC1},
			want: []byte{16, 32, 48, 64, 16, 32, 48, 64, 16, 32, 48, 64},
		},
		{
			name: "run of three zeros",
			meta: rgbMeta(3, 1),
			body: []byte{0xC2},
			want: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "split run",
			meta: rgbMeta(63, 1),
			body: []byte{0xFD, 0xC0},
			want: bytes.Repeat([]byte{0, 0, 0}, 63),
		},
		{
			name: "diff wraps around byte boundaries",
			meta: rgbMeta(2, 1),
			body: []byte{0b01_10_01_10, 0b01_01_11_00},
			want: []byte{0, 255, 0, 255, 0, 254},
		},
		{
			name: "luma",
			meta: rgbMeta(2, 1),
			body: []byte{OpRgb, 50, 50, 50, OpLuma | 52, 0xB3},
			want: []byte{50, 50, 50, 73, 70, 65},
		},
		{
			name: "rgb inherits alpha from previous pixel",
			meta: Metadata{Width: 2, Height: 1, Channels: ChannelsRGBA},
			body: []byte{OpRgba, 1, 2, 3, 77, OpRgb, 4, 5, 6},
			want: []byte{1, 2, 3, 77, 4, 5, 6, 77},
		},
		{
			name: "index hits the pre-seeded start pixel",
			meta: rgbMeta(1, 1),
			body: []byte{0x35}, // slot 53 = (0,0,0,255)
			want: []byte{0, 0, 0},
		},
		{
			name: "index hits the pre-seeded zero pixel",
			meta: Metadata{Width: 1, Height: 1, Channels: ChannelsRGBA},
			body: []byte{0x00}, // slot 0 = (0,0,0,0)
			want: []byte{0, 0, 0, 0},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			meta, pixels, err := Decode(stream(c.meta, c.body...))
			if err != nil {
				t.Fatalf("expected nil error, actual %v", err)
			}
			if meta != c.meta {
				t.Fatalf("expected %+v, actual %+v", c.meta, meta)
			}
			if !bytes.Equal(pixels, c.want) {
				t.Fatalf("expected % 02X, actual % 02X", c.want, pixels)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	badMagic := stream(rgbMeta(1, 1), OpRgb, 1, 2, 3)
	badMagic[0] = 'x'

	badChannels := stream(rgbMeta(1, 1), OpRgb, 1, 2, 3)
	badChannels[12] = 5

	badColorspace := stream(rgbMeta(1, 1), OpRgb, 1, 2, 3)
	badColorspace[13] = 7

	badTrailer := stream(rgbMeta(1, 1), OpRgb, 1, 2, 3)
	badTrailer[len(badTrailer)-1] = 2

	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", []byte{'q', 'o', 'i', 'f', 0, 0}, ErrShortHeader},
		{"bad magic", badMagic, ErrInvalidMagic},
		{"bad channels", badChannels, ErrInvalidChannels},
		{"bad colorspace", badColorspace, ErrInvalidColorspace},
		{"header without end marker", appendHeader(nil, rgbMeta(0, 0)), ErrInvalidEOF},
		{"wrong end marker", badTrailer, ErrInvalidEOF},
		{"truncated rgb payload", stream(rgbMeta(1, 1), OpRgb, 50, 50), ErrTruncatedChunk},
		{"truncated rgba payload", stream(Metadata{Width: 1, Height: 1, Channels: ChannelsRGBA}, OpRgba, 1, 2, 3), ErrTruncatedChunk},
		{"truncated luma payload", stream(rgbMeta(1, 1), OpLuma | 52), ErrTruncatedChunk},
		{"index into empty slot", stream(rgbMeta(1, 1), 0x05), ErrEmptyIndexSlot},
		{"too few pixels", stream(rgbMeta(2, 1), OpRgb, 1, 2, 3), ErrPixelCount},
		{"too many pixels", stream(rgbMeta(1, 1), OpRgb, 1, 2, 3, OpRgb, 4, 5, 6), ErrPixelCount},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := Decode(c.data); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, actual %v", c.want, err)
			}
		})
	}
}

// TestDecodeOversizedDimensions feeds well-formed streams whose
// headers claim far more pixels than the body could ever produce. The
// decoder must reject them with a pixel-count error rather than
// allocate for the claimed dimensions or crash.
func TestDecodeOversizedDimensions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		meta Metadata
		body []byte
	}{
		{
			name: "maximum dimensions with an empty body",
			meta: Metadata{Width: 1<<32 - 1, Height: 1<<32 - 1, Channels: ChannelsRGBA},
		},
		{
			name: "large dimensions with a tiny body",
			meta: Metadata{Width: 65535, Height: 65535, Channels: ChannelsRGBA},
			body: []byte{OpRgba, 1, 2, 3, 4},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := Decode(stream(c.meta, c.body...)); !errors.Is(err, ErrPixelCount) {
				t.Fatalf("expected %v, actual %v", ErrPixelCount, err)
			}
		})
	}
}

// TestRoundTrip checks decode(encode(p)) == p over generated pixel
// data. Compatibility with other QOI implementations is pinned by the
// exact byte vectors in TestEncodeChunks and TestDecodeChunks, which
// stand in for reference fixture files.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		meta Metadata
		seed int64
	}{
		{"rgb", Metadata{Width: 64, Height: 48, Channels: ChannelsRGB}, 1},
		{"rgba", Metadata{Width: 64, Height: 48, Channels: ChannelsRGBA}, 2},
		{"rgba linear", Metadata{Width: 17, Height: 31, Channels: ChannelsRGBA, Colorspace: ColorspaceLinear}, 3},
		{"single column", Metadata{Width: 1, Height: 512, Channels: ChannelsRGB}, 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pixels := makeNoisePixels(int(c.meta.Width)*int(c.meta.Height), int(c.meta.Channels), c.seed)

			encoded, err := Encode(pixels, c.meta)
			if err != nil {
				t.Fatalf("expected nil error, actual %v", err)
			}
			meta, decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("expected nil error, actual %v", err)
			}
			if meta != c.meta {
				t.Fatalf("expected %+v, actual %+v", c.meta, meta)
			}
			if !bytes.Equal(decoded, pixels) {
				t.Fatal("decoded pixels differ from the encoder input")
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	pixels := makeNoisePixels(256*256, 4, 3)
	meta := Metadata{Width: 256, Height: 256, Channels: ChannelsRGBA}
	encoded, err := Encode(pixels, meta)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Decode(encoded); err != nil {
			b.Fatal(err)
		}
	}
}
