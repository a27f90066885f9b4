package qoi

import (
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("qoi", Magic, DecodeImage, DecodeImageConfig)
}

// QuiteOkImage is a decoded QOI image. It implements image.Image.
type QuiteOkImage struct {
	meta   Metadata
	pixels []color.NRGBA
}

// Metadata returns the header record the image was decoded with.
func (img QuiteOkImage) Metadata() Metadata {
	return img.meta
}

func (img QuiteOkImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (img QuiteOkImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(img.meta.Width), int(img.meta.Height))
}

func (img QuiteOkImage) At(x, y int) color.Color {
	return img.pixels[x+y*int(img.meta.Width)]
}

// DecodeImage reads a complete QOI stream from the reader and decodes
// it into an image.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	meta, samples, err := Decode(data)
	if err != nil {
		return nil, err
	}

	bpp := 3
	if meta.Channels == ChannelsRGBA {
		bpp = 4
	}
	pixels := make([]color.NRGBA, uint64(meta.Width)*uint64(meta.Height))
	for i := range pixels {
		off := i * bpp
		p := color.NRGBA{
			R: samples[off],
			G: samples[off+1],
			B: samples[off+2],
			A: 255,
		}
		if bpp == 4 {
			p.A = samples[off+3]
		}
		pixels[i] = p
	}

	return QuiteOkImage{meta: meta, pixels: pixels}, nil
}

// DecodeImageConfig reads just the header and returns the dimensions
// and color model without decoding any pixel data.
func DecodeImageConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return image.Config{}, err
	}
	meta, err := parseHeader(buf)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(meta.Width),
		Height:     int(meta.Height),
	}, nil
}

// EncodeImage encodes an image as a QOI stream and writes it to the
// writer. Fully opaque images are written with 3 channels, everything
// else with 4; the colorspace is tagged sRGB.
func EncodeImage(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	samples := make([]byte, 0, bounds.Dx()*bounds.Dy()*4)
	opaque := true

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A != 255 {
				opaque = false
			}
			samples = append(samples, c.R, c.G, c.B, c.A)
		}
	}

	meta := Metadata{
		Width:      uint32(bounds.Dx()),
		Height:     uint32(bounds.Dy()),
		Channels:   ChannelsRGBA,
		Colorspace: ColorspaceSRGB,
	}
	if opaque {
		meta.Channels = ChannelsRGB
		rgb := samples[:0]
		for off := 0; off < len(samples); off += 4 {
			rgb = append(rgb, samples[off], samples[off+1], samples[off+2])
		}
		samples = rgb
	}

	stream, err := Encode(samples, meta)
	if err != nil {
		return err
	}
	_, err = w.Write(stream)
	return err
}
