package pgs

import (
	"fmt"
	"image/color"
)

// palette maps 8-bit pixel codes to RGBA colors. Entries not present in the
// palette definition stay fully transparent.
type palette struct {
	id      byte
	entries [256]color.RGBA
	defined [256]bool
}

// parsePalette decodes a PDS payload. Each entry is five bytes: index,
// luma, chroma red, chroma blue, alpha (BT.709 range).
func parsePalette(payload []byte) (*palette, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("palette segment truncated: %d bytes", len(payload))
	}
	entriesData := payload[2:]
	if len(entriesData)%5 != 0 {
		return nil, fmt.Errorf("palette entries not a multiple of 5 bytes: %d", len(entriesData))
	}
	p := &palette{id: payload[0]}
	for offset := 0; offset < len(entriesData); offset += 5 {
		index := entriesData[offset]
		y := float64(entriesData[offset+1])
		cr := float64(entriesData[offset+2]) - 128
		cb := float64(entriesData[offset+3]) - 128
		alpha := entriesData[offset+4]
		p.entries[index] = color.RGBA{
			R: clampByte(y + 1.5748*cr),
			G: clampByte(y - 0.1873*cb - 0.4681*cr),
			B: clampByte(y + 1.8556*cb),
			A: alpha,
		}
		p.defined[index] = true
	}
	return p, nil
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
