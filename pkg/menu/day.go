package menu

import (
	"errors"
	"fmt"
	"strings"
)

// Day is a weekday of the menu. The zero value is not a valid day.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// ErrInvalidDay is returned when text names no weekday.
var ErrInvalidDay = errors.New("invalid day")

var dayNames = [...]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
	Saturday:  "Sábado",
	Sunday:    "Domingo",
}

// Week lists every day in calendar order.
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of Monday..Sunday.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the display name, accents included.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Folded returns the lower-case unaccented name ("miercoles").
func (d Day) Folded() string {
	return Fold(d.String())
}

// Spellings returns the accented and unaccented lower-case names. Days
// without accents return a single entry.
func (d Day) Spellings() []string {
	accented := strings.ToLower(d.String())
	folded := d.Folded()
	if accented == folded {
		return []string{folded}
	}
	return []string{accented, folded}
}

// MentionedIn reports whether text names d in any accent form.
func (d Day) MentionedIn(text string) bool {
	return strings.Contains(Fold(text), d.Folded())
}

// mustBeValid guards day-specific operations. An out-of-range day is a
// caller bug, not a property of the document.
func (d Day) mustBeValid() {
	if !d.Valid() {
		panic(fmt.Sprintf("menu: %v is not a weekday", d))
	}
}

// ParseDay resolves a day name in any case or accent form.
func ParseDay(s string) (Day, error) {
	folded := strings.TrimSpace(Fold(s))
	for _, d := range Week {
		if d.Folded() == folded {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// mentionsAnyDay reports whether text names any weekday.
func mentionsAnyDay(text string) bool {
	folded := Fold(text)
	for _, d := range Week {
		if strings.Contains(folded, d.Folded()) {
			return true
		}
	}
	return false
}
