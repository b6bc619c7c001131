package skeletal

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// PoseDigest hashes everything a renderer reads from the skeleton: bone
// world transforms, slot colors, attachments, deform buffers and the draw
// order. Two skeletons of the same data with equal digests draw the same
// frame.
func (s *Skeleton) PoseDigest() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)

	for _, b := range s.bones {
		buf = appendFloats(buf[:0], b.A, b.B, b.C, b.D, b.WorldX, b.WorldY)
		_, _ = d.Write(buf)
	}
	for _, slot := range s.slots {
		buf = appendFloats(buf[:0], slot.Color.R, slot.Color.G, slot.Color.B, slot.Color.A)
		if slot.HasDarkColor() {
			buf = appendFloats(buf, slot.DarkColor.R, slot.DarkColor.G, slot.DarkColor.B)
		}
		_, _ = d.Write(buf)
		if slot.attachment != nil {
			_, _ = d.WriteString(slot.attachment.Name())
		}
		_, _ = d.Write([]byte{0})
		for _, v := range slot.Deform {
			buf = appendFloats(buf[:0], v)
			_, _ = d.Write(buf)
		}
	}
	for _, slot := range s.drawOrder {
		buf = binary.LittleEndian.AppendUint32(buf[:0], uint32(slot.data.Index))
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

func appendFloats(buf []byte, values ...float32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
