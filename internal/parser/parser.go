// Package parser splits a raw command such as "10%3" into its left operand,
// operator symbol and right operand.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// ErrMalformedCommand is returned for any input that does not decompose
// into left digits, one operator character and right digits.
var ErrMalformedCommand = errors.New("could not parse command")

// Command is the parsed form of one input line.
type Command struct {
	Left     int
	Operator rune
	Right    int
}

// String renders the command back in its wire form.
func (c Command) String() string {
	return fmt.Sprintf("%d%c%d", c.Left, c.Operator, c.Right)
}

// Parse decomposes raw at its first non-ASCII-digit character.
//
// The operator is the single character at that position; everything before it
// is the left operand and everything after it the right operand. Both operand
// texts must be non-empty runs of ASCII digits that fit in an int. A leading
// sign is not accepted on either side: "-5+3" and "3+-5" are malformed.
func Parse(raw string) (Command, error) {
	fn := firstNonDigit(raw)
	if fn < 0 {
		return Command{}, fmt.Errorf("%w: no operator in %q", ErrMalformedCommand, raw)
	}

	op, size := utf8.DecodeRuneInString(raw[fn:])
	if op == utf8.RuneError && size <= 1 {
		return Command{}, fmt.Errorf("%w: invalid operator byte in %q", ErrMalformedCommand, raw)
	}

	left, err := parseOperand(raw[:fn])
	if err != nil {
		return Command{}, fmt.Errorf("%w: left operand: %v", ErrMalformedCommand, err)
	}
	right, err := parseOperand(raw[fn+size:])
	if err != nil {
		return Command{}, fmt.Errorf("%w: right operand: %v", ErrMalformedCommand, err)
	}

	return Command{Left: left, Operator: op, Right: right}, nil
}

// firstNonDigit returns the byte index of the first character that is not
// '0'-'9', or -1 if there is none.
func firstNonDigit(s string) int {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return i
		}
	}
	return -1
}

func parseOperand(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, fmt.Errorf("unexpected %q", s[i])
		}
	}
	return strconv.Atoi(s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
