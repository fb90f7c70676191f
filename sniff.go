package asciify

import "bytes"

// ImageType classifies an image byte buffer by its magic header.
type ImageType int

const (
	TypeUnknown ImageType = iota
	TypePNG
	TypeJPEG
	TypeGIF
	TypeWebP
	TypeBMP
	TypeTIFF
)

// typeExts maps each image type to its canonical filename extension.
// Unknown types map to an empty extension rather than failing.
var typeExts = map[ImageType]string{
	TypePNG:  ".png",
	TypeJPEG: ".jpg",
	TypeGIF:  ".gif",
	TypeWebP: ".webp",
	TypeBMP:  ".bmp",
	TypeTIFF: ".tiff",
}

// Ext returns the canonical filename extension for the type, including the
// leading dot, or an empty string for TypeUnknown.
func (t ImageType) Ext() string {
	return typeExts[t]
}

// String returns a short lowercase name for the type.
func (t ImageType) String() string {
	switch t {
	case TypePNG:
		return "png"
	case TypeJPEG:
		return "jpeg"
	case TypeGIF:
		return "gif"
	case TypeWebP:
		return "webp"
	case TypeBMP:
		return "bmp"
	case TypeTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// DetectType inspects the header of a byte buffer and classifies it among the
// supported image formats. The inspection is pure and read-only; buffers that
// match no known magic return TypeUnknown.
func DetectType(data []byte) ImageType {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return TypePNG
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return TypeJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return TypeGIF
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return TypeWebP
	case bytes.HasPrefix(data, []byte("BM")):
		return TypeBMP
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return TypeTIFF
	default:
		return TypeUnknown
	}
}

// IsAnimated reports whether the type is a multi-frame format that needs
// first-frame extraction before conversion.
func (t ImageType) IsAnimated() bool {
	return t == TypeGIF
}
