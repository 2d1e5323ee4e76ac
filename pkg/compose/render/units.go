package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Length is a distance in twentieths of a point (twips), the unit
// WordprocessingML uses for widths, indents and page geometry.
type Length int64

const (
	twipsPerPoint = 20
	twipsPerInch  = 1440
	cmPerInch     = 2.54
)

// Twips returns a length of n twips.
func Twips(n int) Length { return Length(n) }

// Pt returns a length of the given number of points.
func Pt(points float64) Length { return Length(math.Round(points * twipsPerPoint)) }

// Inches returns a length of the given number of inches.
func Inches(in float64) Length { return Length(math.Round(in * twipsPerInch)) }

// Cm returns a length of the given number of centimetres.
func Cm(cm float64) Length { return Length(math.Round(cm / cmPerInch * twipsPerInch)) }

// Twips returns the length as an integer number of twips.
func (l Length) Twips() int { return int(l) }

// Points returns the length in points.
func (l Length) Points() float64 { return float64(l) / twipsPerPoint }

// Inches returns the length in inches.
func (l Length) Inches() float64 { return float64(l) / twipsPerInch }

// String formats the length in inches, the unit content plans use.
func (l Length) String() string {
	return strconv.FormatFloat(l.Inches(), 'f', -1, 64) + "in"
}

// ParseLength parses a length such as "1.5in", "12pt", "2cm" or "720"
// (bare numbers are twips).
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}

	units := []struct {
		suffix string
		conv   func(float64) Length
	}{
		{"in", Inches},
		{"pt", Pt},
		{"cm", Cm},
		{"mm", func(v float64) Length { return Cm(v / 10) }},
		{"tw", func(v float64) Length { return Length(math.Round(v)) }},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, u.suffix)), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid length %q: %w", s, err)
			}
			if v < 0 {
				return 0, fmt.Errorf("invalid length %q: negative", s)
			}
			return u.conv(v), nil
		}
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: unknown unit", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid length %q: negative", s)
	}
	return Length(v), nil
}

// HalfPoints converts a font size in points to the half-point units of w:sz.
func HalfPoints(points float64) int {
	return int(math.Round(points * 2))
}

// EighthPoints converts a border width in points to the eighth-point units
// of w:bdr/@w:sz.
func EighthPoints(points float64) int {
	return int(math.Round(points * 8))
}

// PageSize is a page's width and height.
type PageSize struct {
	Width  Length
	Height Length
}

// Page sizes accepted by configuration.
var PageSizes = map[string]PageSize{
	"letter": {Width: Inches(8.5), Height: Inches(11)},
	"legal":  {Width: Inches(8.5), Height: Inches(14)},
	"a4":     {Width: Twips(11906), Height: Twips(16838)},
}

// SplitEvenly divides total into n columns. The remainder goes to the last
// column so the widths always add up to total.
func SplitEvenly(total Length, n int) []Length {
	if n <= 0 {
		return nil
	}
	widths := make([]Length, n)
	each := total / Length(n)
	for i := range widths {
		widths[i] = each
	}
	widths[n-1] += total - each*Length(n)
	return widths
}
