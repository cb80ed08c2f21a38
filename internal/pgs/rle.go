package pgs

import (
	"fmt"
	"image"
)

// decodeRLE expands a PGS run-length-encoded object into an RGBA image using
// the supplied palette. The encoding: a non-zero byte is a single pixel of
// that palette code; a zero byte introduces an escape whose flag bits select
// zero runs, long runs, and colored runs, with 0x00 0x00 marking end of line.
func decodeRLE(obj *object, pal *palette) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, obj.width, obj.height))
	data := obj.data
	x, y := 0, 0
	i := 0

	setRun := func(code byte, length int) error {
		if length == 0 {
			return nil
		}
		if y >= obj.height || x+length > obj.width {
			return fmt.Errorf("rle run overflows object bounds at (%d,%d) len %d", x, y, length)
		}
		c := pal.entries[code]
		for n := 0; n < length; n++ {
			img.SetRGBA(x+n, y, c)
		}
		x += length
		return nil
	}

	for i < len(data) {
		b := data[i]
		i++
		if b != 0 {
			if err := setRun(b, 1); err != nil {
				return nil, err
			}
			continue
		}
		if i >= len(data) {
			return nil, fmt.Errorf("rle escape truncated at byte %d", i)
		}
		flag := data[i]
		i++
		switch {
		case flag == 0:
			// End of line. Some encoders end lines short; the remainder of
			// the row stays transparent.
			x = 0
			y++
		case flag&0xC0 == 0x00:
			if err := setRun(0, int(flag&0x3F)); err != nil {
				return nil, err
			}
		case flag&0xC0 == 0x40:
			if i >= len(data) {
				return nil, fmt.Errorf("rle long zero run truncated")
			}
			length := int(flag&0x3F)<<8 | int(data[i])
			i++
			if err := setRun(0, length); err != nil {
				return nil, err
			}
		case flag&0xC0 == 0x80:
			if i >= len(data) {
				return nil, fmt.Errorf("rle colored run truncated")
			}
			code := data[i]
			i++
			if err := setRun(code, int(flag&0x3F)); err != nil {
				return nil, err
			}
		default: // 0xC0
			if i+1 >= len(data) {
				return nil, fmt.Errorf("rle long colored run truncated")
			}
			length := int(flag&0x3F)<<8 | int(data[i])
			code := data[i+1]
			i += 2
			if err := setRun(code, length); err != nil {
				return nil, err
			}
		}
	}

	if y < obj.height-1 {
		return nil, fmt.Errorf("rle data covers %d of %d lines", y+1, obj.height)
	}
	return img, nil
}
