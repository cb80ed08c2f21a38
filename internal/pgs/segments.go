package pgs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
)

// TicksPerSecond is the PGS presentation clock rate. It is a fixed property
// of the container format, not a tunable.
const TicksPerSecond = 90_000

const (
	segmentPalette     = 0x14 // PDS
	segmentObject      = 0x15 // ODS
	segmentComposition = 0x16 // PCS
	segmentWindow      = 0x17 // WDS
	segmentEnd         = 0x80 // END
)

var magic = [2]byte{'P', 'G'}

// segmentHeader is the 13-byte prefix of every PGS segment.
type segmentHeader struct {
	pts  uint32 // 90 kHz presentation timestamp
	dts  uint32 // decode timestamp, unused by this decoder
	kind byte
	size uint16
}

func readSegmentHeader(r io.Reader) (segmentHeader, error) {
	var raw [13]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return segmentHeader{}, err
	}
	if raw[0] != magic[0] || raw[1] != magic[1] {
		return segmentHeader{}, services.Wrap(services.ErrMalformedContainer, "pgs", "segment header",
			fmt.Sprintf("bad magic 0x%02x%02x", raw[0], raw[1]), nil)
	}
	return segmentHeader{
		pts:  binary.BigEndian.Uint32(raw[2:6]),
		dts:  binary.BigEndian.Uint32(raw[6:10]),
		kind: raw[10],
		size: binary.BigEndian.Uint16(raw[11:13]),
	}, nil
}

// composition is a decoded PCS segment.
type composition struct {
	width     int
	height    int
	number    uint16
	state     byte
	paletteID byte
	objects   []compositionObject
}

type compositionObject struct {
	objectID uint16
	windowID byte
	x        int
	y        int
}

func parseComposition(payload []byte) (composition, error) {
	if len(payload) < 11 {
		return composition{}, fmt.Errorf("composition segment truncated: %d bytes", len(payload))
	}
	pcs := composition{
		width:     int(binary.BigEndian.Uint16(payload[0:2])),
		height:    int(binary.BigEndian.Uint16(payload[2:4])),
		number:    binary.BigEndian.Uint16(payload[5:7]),
		state:     payload[7],
		paletteID: payload[9],
	}
	count := int(payload[10])
	offset := 11
	for i := 0; i < count; i++ {
		if offset+8 > len(payload) {
			return composition{}, fmt.Errorf("composition object %d truncated", i)
		}
		obj := compositionObject{
			objectID: binary.BigEndian.Uint16(payload[offset : offset+2]),
			windowID: payload[offset+2],
			x:        int(binary.BigEndian.Uint16(payload[offset+4 : offset+6])),
			y:        int(binary.BigEndian.Uint16(payload[offset+6 : offset+8])),
		}
		cropped := payload[offset+3]&0x80 != 0
		offset += 8
		if cropped {
			// Crop rectangle: x, y, width, height as uint16 each.
			if offset+8 > len(payload) {
				return composition{}, fmt.Errorf("composition object %d crop truncated", i)
			}
			offset += 8
		}
		pcs.objects = append(pcs.objects, obj)
	}
	return pcs, nil
}

// object accumulates a possibly fragmented ODS bitmap.
type object struct {
	id       uint16
	width    int
	height   int
	expected int
	data     []byte
	complete bool
}

const (
	odsFirstFragment = 0x80
	odsLastFragment  = 0x40
)

// parseObjectFragment merges an ODS payload into the object table, returning
// the object when its final fragment arrives.
func parseObjectFragment(payload []byte, table map[uint16]*object) (*object, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("object segment truncated: %d bytes", len(payload))
	}
	id := binary.BigEndian.Uint16(payload[0:2])
	flags := payload[3]

	if flags&odsFirstFragment != 0 {
		if len(payload) < 11 {
			return nil, fmt.Errorf("object %d first fragment truncated", id)
		}
		dataLen := int(payload[4])<<16 | int(payload[5])<<8 | int(payload[6])
		obj := &object{
			id:     id,
			width:  int(binary.BigEndian.Uint16(payload[7:9])),
			height: int(binary.BigEndian.Uint16(payload[9:11])),
			// Declared length includes the 4 width/height bytes.
			expected: dataLen - 4,
		}
		if obj.width <= 0 || obj.height <= 0 {
			return nil, fmt.Errorf("object %d has degenerate dimensions %dx%d", id, obj.width, obj.height)
		}
		obj.data = append(obj.data, payload[11:]...)
		table[id] = obj
	} else {
		obj, ok := table[id]
		if !ok {
			return nil, fmt.Errorf("object %d continuation without first fragment", id)
		}
		obj.data = append(obj.data, payload[4:]...)
	}

	obj := table[id]
	if flags&odsLastFragment != 0 {
		if obj.expected > 0 && len(obj.data) < obj.expected {
			return nil, fmt.Errorf("object %d incomplete: %d of %d bytes", id, len(obj.data), obj.expected)
		}
		obj.complete = true
		return obj, nil
	}
	return nil, nil
}
