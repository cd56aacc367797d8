package parser

import "strings"

// numberScanner recognizes the R4RS real-number syntax without evaluating
// it:
//
//	number   = prefix real
//	prefix   = [ radix exactness | exactness radix ]
//	real     = [ "+" | "-" ] ureal
//	ureal    = uinteger | uinteger "/" uinteger | decimal
//	uinteger = digit { digit } { "#" }
//	decimal  = uinteger suffix
//	         | "." digit { digit } { "#" } suffix
//	         | digit { digit } "." { digit } { "#" } suffix
//	         | digit { digit } "#" { "#" } "." { "#" } suffix
//	suffix   = [ ( "e" | "s" | "f" | "d" | "l" ) [ "+" | "-" ] digit { digit } ]
//
// Decimals are only valid in radix 10.
type numberScanner struct {
	s     string
	i     int
	radix int
}

func isNumber(literal string) bool {
	n := &numberScanner{s: strings.ToLower(literal), radix: 10}
	if !n.prefix() {
		return false
	}
	return n.real() && n.i == len(n.s)
}

func (n *numberScanner) peek() byte {
	if n.i >= len(n.s) {
		return 0
	}
	return n.s[n.i]
}

func (n *numberScanner) prefix() bool {
	seenRadix, seenExactness := false, false
	for n.peek() == '#' && n.i+1 < len(n.s) {
		switch n.s[n.i+1] {
		case 'b', 'o', 'd', 'x':
			if seenRadix {
				return false
			}
			seenRadix = true
			n.radix = radixOf(n.s[n.i+1])
		case 'e', 'i':
			if seenExactness {
				return false
			}
			seenExactness = true
		default:
			return false
		}
		n.i += 2
	}
	return n.peek() != '#'
}

func radixOf(ch byte) int {
	switch ch {
	case 'b':
		return 2
	case 'o':
		return 8
	case 'x':
		return 16
	}
	return 10
}

func (n *numberScanner) isDigit(ch byte) bool {
	switch n.radix {
	case 2:
		return ch == '0' || ch == '1'
	case 8:
		return ch >= '0' && ch <= '7'
	case 16:
		return isDigit(ch) || (ch >= 'a' && ch <= 'f')
	}
	return isDigit(ch)
}

func (n *numberScanner) digits() int {
	count := 0
	for n.isDigit(n.peek()) {
		n.i++
		count++
	}
	return count
}

func (n *numberScanner) hashes() int {
	count := 0
	for n.peek() == '#' {
		n.i++
		count++
	}
	return count
}

func (n *numberScanner) real() bool {
	if n.peek() == '+' || n.peek() == '-' {
		n.i++
	}
	return n.ureal()
}

func (n *numberScanner) ureal() bool {
	if n.peek() == '.' {
		if n.radix != 10 {
			return false
		}
		n.i++
		if n.digits() == 0 {
			return false
		}
		n.hashes()
		return n.suffix()
	}

	if n.digits() == 0 {
		return false
	}
	placeholders := n.hashes()

	switch n.peek() {
	case '/':
		n.i++
		if n.digits() == 0 {
			return false
		}
		n.hashes()
		return true
	case '.':
		if n.radix != 10 {
			return false
		}
		n.i++
		if placeholders == 0 {
			n.digits()
		}
		n.hashes()
		return n.suffix()
	}

	if n.radix != 10 {
		return true
	}
	return n.suffix()
}

func (n *numberScanner) suffix() bool {
	switch n.peek() {
	case 'e', 's', 'f', 'd', 'l':
	default:
		return true
	}
	n.i++
	if n.peek() == '+' || n.peek() == '-' {
		n.i++
	}
	return n.digits() > 0
}
