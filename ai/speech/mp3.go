package speech

// frameSearchWindow bounds how far past the ID3 tag we look for the first
// audio frame, to tolerate tag padding.
const frameSearchWindow = 4096

// IsMP3 reports whether data starts with an MPEG audio stream, optionally
// preceded by an ID3v2 tag.
func IsMP3(data []byte) bool {
	offset := 0
	if len(data) >= 10 && data[0] == 'I' && data[1] == 'D' && data[2] == '3' {
		size, ok := id3Size(data[6:10])
		if !ok {
			return false
		}
		offset = 10 + size
		if data[5]&0x10 != 0 { // footer present
			offset += 10
		}
	}

	end := offset + frameSearchWindow
	if end > len(data)-4 {
		end = len(data) - 4
	}
	for i := offset; i <= end; i++ {
		if isFrameHeader(data[i : i+4]) {
			return true
		}
	}
	return false
}

// id3Size decodes the 28-bit syncsafe tag size.
func id3Size(b []byte) (int, bool) {
	size := 0
	for _, c := range b {
		if c&0x80 != 0 {
			return 0, false
		}
		size = size<<7 | int(c)
	}
	return size, true
}

func isFrameHeader(h []byte) bool {
	if h[0] != 0xFF || h[1]&0xE0 != 0xE0 {
		return false
	}
	version := (h[1] >> 3) & 0x03
	layer := (h[1] >> 1) & 0x03
	bitrate := h[2] >> 4
	sampleRate := (h[2] >> 2) & 0x03
	emphasis := h[3] & 0x03
	return version != 0x01 && layer != 0x00 && bitrate != 0x0F && sampleRate != 0x03 && emphasis != 0x02
}
