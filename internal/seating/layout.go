package seating

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
)

var ErrInvalidSeatID = fmt.Errorf("%w: invalid seat id", errs.ErrValidation)

// Seat letters skip I and K, and the smaller cabins also drop the letters
// that fall on an aisle.
var (
	firstLetters    = []string{"A", "D", "G", "L"}
	businessLetters = []string{"A", "B", "D", "E", "F", "G", "J", "L"}
	economyLetters  = []string{"A", "B", "C", "D", "E", "F", "G", "H", "J", "L"}
)

// Cabin describes a contiguous band of rows sharing a class, a letter layout
// and a pricing tier. Price is Multiplier*base plus an integer jitter drawn
// from [0, JitterFactor*base).
type Cabin struct {
	Class        Class
	LastRow      int
	Letters      []string
	Multiplier   float64
	JitterFactor float64
}

// Template is an aircraft layout. Cabins are ordered by LastRow; rows past
// the last cabin's LastRow use the last cabin.
type Template struct {
	Name   string
	Rows   int
	Cols   int
	Cabins []Cabin
}

// Boeing777 is the default 64 row layout: First 1-2-1, Business and Premium
// 2-4-2, Economy 3-4-3.
var Boeing777 = Template{
	Name: "B777-300ER",
	Rows: 64,
	Cols: 10,
	Cabins: []Cabin{
		{Class: ClassFirst, LastRow: 7, Letters: firstLetters, Multiplier: 3.0, JitterFactor: 1.0},
		{Class: ClassBusiness, LastRow: 11, Letters: businessLetters, Multiplier: 2.0, JitterFactor: 0.5},
		{Class: ClassPremium, LastRow: 18, Letters: businessLetters, Multiplier: 1.5, JitterFactor: 0.4},
		{Class: ClassEconomy, LastRow: 64, Letters: economyLetters, Multiplier: 1.0, JitterFactor: 0.2},
	},
}

// WithRows returns a copy of the template with a different row count. The
// cabin bands are kept; a shorter aircraft simply ends earlier.
func (t Template) WithRows(rows int) Template {
	t.Rows = rows
	return t
}

// CabinFor returns the cabin that 1-based row belongs to.
func (t Template) CabinFor(row int) Cabin {
	for _, c := range t.Cabins {
		if row <= c.LastRow {
			return c
		}
	}
	return t.Cabins[len(t.Cabins)-1]
}

// LettersFor returns the seat letters used in 1-based row.
func (t Template) LettersFor(row int) []string {
	return t.CabinFor(row).Letters
}

// SeatID builds the id for 1-based row and 0-based column. It reports false
// when the position is outside the template.
func (t Template) SeatID(row, col int) (string, bool) {
	if row < 1 || row > t.Rows || col < 0 {
		return "", false
	}
	letters := t.LettersFor(row)
	if col >= len(letters) {
		return "", false
	}
	return strconv.Itoa(row) + letters[col], true
}

// ParseSeatID splits a seat id such as "19A" into its 1-based row and
// 0-based column within that row's letter layout.
func (t Template) ParseSeatID(id string) (row, col int, err error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	i := 0
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	if i == 0 || i == len(id) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
	}
	row, err = strconv.Atoi(id[:i])
	if err != nil || row < 1 || row > t.Rows {
		return 0, 0, fmt.Errorf("%w: %q has no row in 1..%d", ErrInvalidSeatID, id, t.Rows)
	}
	letter := id[i:]
	for c, l := range t.LettersFor(row) {
		if l == letter {
			return row, c, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q has no seat %s in row %d", ErrInvalidSeatID, id, letter, row)
}

// ParseRowLabel converts a letter row label to its 1-based number using
// bijective base 26: A=1 ... Z=26, AA=27, AB=28.
func ParseRowLabel(label string) (int, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return 0, fmt.Errorf("%w: empty row label", errs.ErrValidation)
	}
	n := 0
	for _, r := range label {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("%w: row label %q", errs.ErrValidation, label)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n, nil
}

// FormatRowLabel is the inverse of ParseRowLabel.
func FormatRowLabel(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append(b, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// ParseGridPosition parses a label of the form <row letters><column number>,
// e.g. "AA5", into a 1-based row and 1-based column.
func ParseGridPosition(label string) (row, col int, err error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	i := 0
	for i < len(label) && label[i] >= 'A' && label[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(label) {
		return 0, 0, fmt.Errorf("%w: grid position %q", errs.ErrValidation, label)
	}
	row, err = ParseRowLabel(label[:i])
	if err != nil {
		return 0, 0, err
	}
	col, err = strconv.Atoi(label[i:])
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("%w: grid position %q", errs.ErrValidation, label)
	}
	return row, col, nil
}

// ContainsGridPosition reports whether a grid label falls inside the
// template's row and column extents.
func (t Template) ContainsGridPosition(label string) bool {
	row, col, err := ParseGridPosition(label)
	if err != nil {
		return false
	}
	return row <= t.Rows && col <= t.Cols
}
