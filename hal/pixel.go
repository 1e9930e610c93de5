package hal

func rgb565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// rgb888From565 expands a pixel, rounding each channel to the nearest 8-bit
// value.
func rgb888From565(p uint16) (r, g, b uint8) {
	rr := uint32(p>>11) & 0x1F
	gg := uint32(p>>5) & 0x3F
	bb := uint32(p) & 0x1F
	return uint8((rr*255 + 15) / 31), uint8((gg*255 + 31) / 63), uint8((bb*255 + 15) / 31)
}

func fillRGB565(buf []byte, px uint16) {
	lo, hi := byte(px), byte(px>>8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}

// expandRGB565 converts little-endian RGB565 pixels in src to opaque RGBA in
// dst.
func expandRGB565(dst, src []byte) {
	for i, j := 0, 0; i+1 < len(src) && j+3 < len(dst); i, j = i+2, j+4 {
		dst[j], dst[j+1], dst[j+2] = rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		dst[j+3] = 0xFF
	}
}
