package pgs

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
)

// Frame is one decoded subtitle bitmap with its display interval in
// source-native 90 kHz ticks.
type Frame struct {
	Image      *image.RGBA
	StartTicks uint32
	EndTicks   uint32
}

// Start returns the frame's start offset from stream start.
func (f Frame) Start() time.Duration {
	return ticksToDuration(f.StartTicks)
}

// End returns the frame's end offset from stream start.
func (f Frame) End() time.Duration {
	return ticksToDuration(f.EndTicks)
}

// Degenerate reports whether the frame has no recognizable bitmap content.
func (f Frame) Degenerate() bool {
	if f.Image == nil {
		return true
	}
	bounds := f.Image.Bounds()
	return bounds.Dx() < 2 || bounds.Dy() < 2
}

func ticksToDuration(ticks uint32) time.Duration {
	return time.Duration(ticks) * time.Second / TicksPerSecond
}

// Display sets that never see a closing composition get this fallback
// duration, mirroring how players time out orphaned subtitle bitmaps.
const fallbackFrameTicks = 4 * TicksPerSecond

const epochStart = 0x80

// Parse decodes the SUP container at path into an ordered frame sequence.
// A structurally valid stream with no display sets yields an empty slice.
func Parse(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sup: %w", err)
	}
	defer f.Close()
	return ParseReader(bufio.NewReaderSize(f, 256*1024))
}

// ParseReader decodes a SUP stream. See Parse.
func ParseReader(r io.Reader) ([]Frame, error) {
	var (
		frames   []Frame
		palettes = make(map[byte]*palette)
		objects  = make(map[uint16]*object)
		pending  *composition
		pts      uint32
		open     *Frame
	)

	for {
		header, err := readSegmentHeader(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "segment header", "truncated stream", err)
			}
			return nil, err
		}

		payload := make([]byte, header.size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "segment payload",
				fmt.Sprintf("truncated segment type 0x%02x", header.kind), err)
		}

		switch header.kind {
		case segmentComposition:
			pcs, err := parseComposition(payload)
			if err != nil {
				return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "composition", "", err)
			}
			if pcs.state&epochStart != 0 {
				// Epoch start resets decoder state.
				objects = make(map[uint16]*object)
			}
			pending = &pcs
			pts = header.pts
		case segmentPalette:
			pal, err := parsePalette(payload)
			if err != nil {
				return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "palette", "", err)
			}
			palettes[pal.id] = pal
		case segmentObject:
			if _, err := parseObjectFragment(payload, objects); err != nil {
				return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "object", "", err)
			}
		case segmentWindow:
			// Window geometry is implied by composition object offsets; the
			// decoder does not need it.
		case segmentEnd:
			if pending == nil {
				continue
			}
			frame, err := finalizeDisplaySet(*pending, pts, palettes, objects)
			if err != nil {
				return nil, err
			}
			if frame != nil {
				if open != nil {
					open.EndTicks = pts
					frames = append(frames, *open)
				}
				open = frame
			} else {
				if open != nil {
					open.EndTicks = pts
					frames = append(frames, *open)
					open = nil
				}
			}
			pending = nil
		default:
			return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "segment",
				fmt.Sprintf("unknown segment type 0x%02x", header.kind), nil)
		}
	}

	if open != nil {
		open.EndTicks = open.StartTicks + fallbackFrameTicks
		frames = append(frames, *open)
	}
	return frames, nil
}

// finalizeDisplaySet renders the pending composition. A composition without
// objects is a clear and returns nil.
func finalizeDisplaySet(pcs composition, pts uint32, palettes map[byte]*palette, objects map[uint16]*object) (*Frame, error) {
	if len(pcs.objects) == 0 {
		return nil, nil
	}
	pal, ok := palettes[pcs.paletteID]
	if !ok {
		return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "composition",
			fmt.Sprintf("references undefined palette %d", pcs.paletteID), nil)
	}

	type placed struct {
		img *image.RGBA
		x   int
		y   int
	}
	var pieces []placed
	minX, minY := int(^uint(0)>>1), int(^uint(0)>>1)
	maxX, maxY := 0, 0
	for _, ref := range pcs.objects {
		obj, ok := objects[ref.objectID]
		if !ok || !obj.complete {
			// Acquisition-point compositions may reference objects carried
			// over from a skipped epoch; ignore those references.
			continue
		}
		img, err := decodeRLE(obj, pal)
		if err != nil {
			return nil, services.Wrap(services.ErrMalformedContainer, "pgs", "object decode", "", err)
		}
		pieces = append(pieces, placed{img: img, x: ref.x, y: ref.y})
		if ref.x < minX {
			minX = ref.x
		}
		if ref.y < minY {
			minY = ref.y
		}
		if ref.x+obj.width > maxX {
			maxX = ref.x + obj.width
		}
		if ref.y+obj.height > maxY {
			maxY = ref.y + obj.height
		}
	}
	if len(pieces) == 0 {
		return nil, nil
	}

	canvas := image.NewRGBA(image.Rect(0, 0, maxX-minX, maxY-minY))
	for _, piece := range pieces {
		target := piece.img.Bounds().Add(image.Pt(piece.x-minX, piece.y-minY))
		draw.Draw(canvas, target, piece.img, piece.img.Bounds().Min, draw.Over)
	}
	return &Frame{Image: canvas, StartTicks: pts}, nil
}
