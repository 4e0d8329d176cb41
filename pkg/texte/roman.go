package texte

import "strings"

// romanValues lists subtractive-notation symbols from largest to smallest.
var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ParseRoman converts a Roman numeral to its integer value by greedily
// consuming the longest matching symbol at each position. Malformed input is
// not validated: unrecognized characters stop the scan and the accumulated
// partial value is returned. Section numerals in legislative sources are not
// guaranteed clean, and a best-effort value beats dropping the division.
func ParseRoman(s string) int {
	pos, total := 0, 0
	for _, rv := range romanValues {
		for strings.HasPrefix(s[pos:], rv.symbol) {
			total += rv.value
			pos += len(rv.symbol)
		}
	}
	return total
}
