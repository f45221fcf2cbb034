// Package conv formats numbers into caller buffers without fmt or strconv,
// for firmware paths that must not allocate.
package conv

// AppendUint appends the base-10 digits of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// AppendPress appends "<seq> <duration>\r\n", the line format used for
// press reports on a serial port.
func AppendPress(dst []byte, seq uint32, duration string) []byte {
	dst = AppendUint(dst, uint64(seq))
	dst = append(dst, ' ')
	dst = append(dst, duration...)
	return append(dst, '\r', '\n')
}
