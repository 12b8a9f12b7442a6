package ternary

// Format returns the base-3 representation of v, most significant digit
// first, with a leading '-' for negative values.
func Format(v int64) string {
	var buf [MaxLen]byte
	return string(AppendFormat(buf[:0], v))
}

// AppendFormat appends the base-3 representation of v to dst.
//
// Digits are produced from the negated magnitude so that math.MinInt64,
// whose absolute value has no int64 representation, needs no special case.
func AppendFormat(dst []byte, v int64) []byte {
	if v == 0 {
		return append(dst, '0')
	}

	var buf [MaxLen]byte
	pos := len(buf)

	neg := v < 0
	if !neg {
		v = -v
	}
	for v != 0 {
		pos--
		buf[pos] = digitChar(-(v % Radix))
		v /= Radix
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return append(dst, buf[pos:]...)
}

// Parse reads a signed base-3 numeral as produced by Format.
func Parse(s string) (int64, error) {
	if s == "" {
		return 0, ErrSyntax
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, ErrSyntax
	}

	// Accumulate negatively; the negative range is one larger.
	var acc int64
	for i := 0; i < len(s); i++ {
		d := int64(s[i]) - '0'
		if !IsDigit(d) {
			return 0, ErrSyntax
		}
		var ok bool
		if acc, ok = Mul(acc, Radix); !ok {
			return 0, ErrRange
		}
		if acc, ok = Add(acc, -d); !ok {
			return 0, ErrRange
		}
	}
	if neg {
		return acc, nil
	}
	if acc == minInt64 {
		return 0, ErrRange
	}
	return -acc, nil
}
