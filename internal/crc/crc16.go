// Package crc implements the CRC-16 variant used by Mobius firmware
// (CCITT-FALSE: polynomial 0x1021, initial value 0xFFFF, no reflection).
// The algorithm must match the device side bit for bit; it is not
// interchangeable with other CRC-16 flavors.
package crc

const poly = 0x1021

var table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
}

// Checksum returns the CRC-16 of data.
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = crc<<8 ^ table[b^byte(crc>>8)]
	}
	return crc
}
