package diagnostics

import "fmt"

// Location identifies a position in a disassembled byte stream rather
// than in source text: the image name, the byte offset within it, and
// the virtual address the decoder resolved that offset to. It is a
// value type, safe to copy and compare.
type Location struct {
	image   string
	offset  int
	address int64
}

// Loc creates a Location for the given image, byte offset, and address.
func Loc(image string, offset int, address int64) Location {
	return Location{image: image, offset: offset, address: address}
}

// Image returns the disassembled image's name (e.g. a file path).
func (l Location) Image() string { return l.image }

// Offset returns the 0-based byte offset within the image.
func (l Location) Offset() int { return l.offset }

// Address returns the virtual address the decoder assigned this offset.
func (l Location) Address() int64 { return l.address }

// String renders "image+0xoffset@0xaddress", or just the address if no
// image name was given.
func (l Location) String() string {
	if l.image == "" {
		return fmt.Sprintf("0x%x", l.address)
	}
	return fmt.Sprintf("%s+0x%x@0x%x", l.image, l.offset, l.address)
}
