package texcodec

import "encoding/binary"

// putRepeating64 tiles an 8-byte little-endian pattern into out[offset:offset+n],
// truncating the pattern to fit when n < 8. Passes that write a full
// 64-bit constant into a narrower bytes_component region rely on this
// truncation.
func putRepeating64(out []byte, offset, n int, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	for i := 0; i < n; i++ {
		out[offset+i] = buf[i%8]
	}
}

// putRepeating16 tiles a 2-byte little-endian pattern, used by the 8-bit
// constant-alpha pass.
func putRepeating16(out []byte, offset, n int, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	for i := 0; i < n; i++ {
		out[offset+i] = buf[i%2]
	}
}

func fillBytes(out []byte, offset, n int, v byte) {
	for i := 0; i < n; i++ {
		out[offset+i] = v
	}
}
