package tabular

import (
	"regexp"
	"strconv"
)

// CellKind tags the type a cell value was resolved to at parse time.
type CellKind int

const (
	Empty CellKind = iota
	Number
	Text
	Boolean
)

func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Number:
		return "number"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Cell is one typed value of a dataset.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Bool bool
}

func EmptyCell() Cell { return Cell{Kind: Empty} }

func NumberCell(v float64) Cell { return Cell{Kind: Number, Num: v} }

func TextCell(s string) Cell { return Cell{Kind: Text, Str: s} }

func BooleanCell(b bool) Cell { return Cell{Kind: Boolean, Bool: b} }

// String returns the canonical plain-text form of the cell: shortest exact
// decimal for numbers, True/False for booleans.
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case Text:
		return c.Str
	case Boolean:
		if c.Bool {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Value returns the cell as a spreadsheet-native value; nil for empty cells.
func (c Cell) Value() any {
	switch c.Kind {
	case Number:
		return c.Num
	case Text:
		return c.Str
	case Boolean:
		return c.Bool
	default:
		return nil
	}
}

var numberLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var booleanLiterals = map[string]bool{
	"True": true, "TRUE": true, "true": true,
	"False": false, "FALSE": false, "false": false,
}

// maxExactDigits is the number of significant decimal digits a float64
// always holds exactly. Longer literals (ids, phone numbers) stay text.
const maxExactDigits = 15

// InferCell resolves a raw text value: "" is empty, a decimal literal a
// number, a true/false spelling a boolean, anything else text.
func InferCell(raw string) Cell {
	if raw == "" {
		return EmptyCell()
	}
	if numberLiteral.MatchString(raw) && mantissaDigits(raw) <= maxExactDigits {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(v)
		}
	}
	if b, ok := booleanLiterals[raw]; ok {
		return BooleanCell(b)
	}
	return TextCell(raw)
}

// mantissaDigits counts the significant digits before any exponent.
func mantissaDigits(literal string) int {
	n := 0
	leading := true
	for _, r := range literal {
		if r == 'e' || r == 'E' {
			break
		}
		if r < '0' || r > '9' {
			continue
		}
		if leading && r == '0' {
			continue
		}
		leading = false
		n++
	}
	return n
}
