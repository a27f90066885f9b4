package qoi

import (
	"encoding/binary"
	"fmt"
)

// appendHeader appends the fixed 14-byte header for meta to dst.
func appendHeader(dst []byte, meta Metadata) []byte {
	dst = append(dst, Magic...)
	dst = binary.BigEndian.AppendUint32(dst, meta.Width)
	dst = binary.BigEndian.AppendUint32(dst, meta.Height)
	dst = append(dst, byte(meta.Channels))
	dst = append(dst, byte(meta.Colorspace))
	return dst
}

// parseHeader validates the first 14 bytes of a stream and returns the
// metadata they carry.
func parseHeader(data []byte) (Metadata, error) {
	var meta Metadata

	if len(data) < headerSize {
		return meta, fmt.Errorf("%w: expected %d bytes, actual %d", ErrShortHeader, headerSize, len(data))
	}
	if string(data[:4]) != Magic {
		return meta, fmt.Errorf("%w: expected %q, actual %q", ErrInvalidMagic, Magic, string(data[:4]))
	}

	meta.Width = binary.BigEndian.Uint32(data[4:8])
	meta.Height = binary.BigEndian.Uint32(data[8:12])
	meta.Channels = Channels(data[12])
	meta.Colorspace = Colorspace(data[13])

	if meta.Channels != ChannelsRGB && meta.Channels != ChannelsRGBA {
		return meta, fmt.Errorf("%w: actual %d", ErrInvalidChannels, data[12])
	}
	if meta.Colorspace != ColorspaceSRGB && meta.Colorspace != ColorspaceLinear {
		return meta, fmt.Errorf("%w: actual %d", ErrInvalidColorspace, data[13])
	}

	return meta, nil
}
