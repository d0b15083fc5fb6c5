package value

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeIndex identifies a registered type. Enum values and type handles carry
// one so that values of distinct enumerations never compare equal.
type TypeIndex uint16

// UnknownType is the null type handle.
const UnknownType TypeIndex = 0

// Color is a packed ARGB color.
type Color uint32

// ARGB builds a color from its channels.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseColor accepts "#RRGGBB" (opaque) or "#AARRGGBB".
func ParseColor(input string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(input), "#")
	switch len(hex) {
	case 6:
		hex = "FF" + hex
	case 8:
	default:
		return 0, fmt.Errorf("value: color %q must have 6 or 8 hex digits", input)
	}
	parsed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("value: color %q: %w", input, err)
	}
	return Color(parsed), nil
}

type Point struct {
	X, Y float32
}

type Size struct {
	Width, Height float32
}

type Rect struct {
	X, Y, Width, Height float32
}

type Thickness struct {
	Left, Top, Right, Bottom float64
}

// GridUnit selects how a GridLength value is interpreted.
type GridUnit uint8

const (
	GridUnitAuto GridUnit = iota
	GridUnitPixel
	GridUnitStar
)

type GridLength struct {
	Value float64
	Unit  GridUnit
}

type CornerRadius struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// TextRange is a character span.
type TextRange struct {
	Start, Length int32
}
