package value

import (
	"errors"
	"testing"
	"time"
)

func TestFromNative(t *testing.T) {
	cases := []struct {
		name string
		in   any
		kind Kind
		want Value
	}{
		{"int natural", 5, KindUnset, FromSigned(5)},
		{"large int", int64(1 << 40), KindUnset, FromInt64(1 << 40)},
		{"int to double", 5, KindDouble, FromDouble(5)},
		{"float to signed", 42.0, KindSigned, FromSigned(42)},
		{"bool", true, KindBool, FromBool(true)},
		{"string", "hi", KindString, FromString("hi")},
		{"color string", "#336699", KindColor, FromColor(0xFF336699)},
		{"enum hint", 2, KindEnum, FromEnum(2, UnknownType)},
		{"duration", time.Second, KindTimeSpan, FromTimeSpan(time.Second)},
		{"point map", map[string]any{"x": 1, "y": 2.5}, KindPoint, FromPoint(Point{X: 1, Y: 2.5})},
		{"thickness map", map[string]any{"Left": 1, "Top": 2, "Right": 3, "Bottom": 4}, KindThickness, FromThickness(Thickness{Left: 1, Top: 2, Right: 3, Bottom: 4})},
		{"star grid length", map[string]any{"value": 2, "unit": "star"}, KindGridLength, FromGridLength(GridLength{Value: 2, Unit: GridUnitStar})},
		{"double slice", []any{1, 2.5}, KindDoubleArray, FromDoubleArray([]float64{1, 2.5})},
		{"signed slice", []any{1, 2}, KindSignedArray, FromSignedArray([]int32{1, 2})},
		{"nil", nil, KindUnset, Null()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromNative(tc.in, tc.kind)
			if err != nil {
				t.Fatalf("FromNative: %v", err)
			}
			defer got.Destroy()
			if got.Kind() != tc.want.Kind() || !Equals(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFromNativeRejects(t *testing.T) {
	cases := []struct {
		name string
		in   any
		kind Kind
	}{
		{"bad color", "blue", KindColor},
		{"missing point field", map[string]any{"x": 1}, KindPoint},
		{"fractional signed slice", []any{1.5}, KindSignedArray},
		{"struct", struct{}{}, KindUnset},
		{"string to signed", "12", KindSigned},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromNative(tc.in, tc.kind); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestNativeRoundTrip(t *testing.T) {
	values := []Value{
		FromSigned(-3),
		FromDouble(1.25),
		FromString("text"),
		FromRect(Rect{X: 1, Width: 2}),
		FromFloatArray([]float32{1, 2}),
		FromColor(0xFF00FF00),
	}
	for _, v := range values {
		back, err := FromNative(v.Native(), v.Kind())
		if err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		if !Equals(back, v) {
			t.Fatalf("round trip of %v produced %v", v, back)
		}
	}
}

func TestValueString(t *testing.T) {
	if got := FromString("a").String(); got != `string("a")` {
		t.Fatalf("unexpected string form %q", got)
	}
	if got := Unset().String(); got != "unset" {
		t.Fatalf("unexpected unset form %q", got)
	}
	if got := FromSigned(3).String(); got != "signed(3)" {
		t.Fatalf("unexpected signed form %q", got)
	}
}
