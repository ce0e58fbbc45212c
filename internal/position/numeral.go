package position

import (
	"errors"
	"fmt"
)

// Digits is the numeral alphabet of the change log, most significant digit first.
const Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz~"

var digitValues = func() (values [256]byte) {
	for i := range values {
		values[i] = 0xff
	}
	for i := 0; i < len(Digits); i++ {
		values[Digits[i]] = byte(i)
	}
	return
}()

var ErrEmptyNumber = errors.New("empty number")

func FormatNumber(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [11]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Digits[n&63]
		n >>= 6
	}
	return string(buf[i:])
}

func ParseNumber(text string) (uint64, error) {
	if text == "" {
		return 0, ErrEmptyNumber
	}
	var n uint64
	for i := 0; i < len(text); i++ {
		v := digitValues[text[i]]
		if v == 0xff {
			return 0, fmt.Errorf("invalid digit %q in %q", text[i], text)
		}
		if n > (1<<64-1)>>6 {
			return 0, fmt.Errorf("number %q overflows", text)
		}
		n = n<<6 | uint64(v)
	}
	return n, nil
}
