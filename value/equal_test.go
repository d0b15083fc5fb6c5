package value

import (
	"math"
	"testing"
)

func TestFloatDoubleEqualityIsSymmetric(t *testing.T) {
	samples := []float32{0, -0, 1, -1, 0.1, 1.5, math.MaxFloat32, math.SmallestNonzeroFloat32, 123456.789}
	for _, x := range samples {
		f := FromFloat(x)
		d := FromDouble(float64(x))
		if Equals(f, d) != Equals(d, f) {
			t.Fatalf("asymmetric comparison for %v", x)
		}
		if !Equals(f, d) {
			t.Fatalf("float %v should equal its widened double", x)
		}
	}
	// 0.1 is not representable as float32, so the widened value differs.
	if Equals(FromFloat(0.1), FromDouble(0.1)) || Equals(FromDouble(0.1), FromFloat(0.1)) {
		t.Fatalf("narrowed float should not equal the original double")
	}
}

func TestEnumWidening(t *testing.T) {
	if !Equals(FromEnum8(3, 7), FromEnum(3, 7)) || !Equals(FromEnum(3, 7), FromEnum8(3, 7)) {
		t.Fatalf("enum8 should widen to enum")
	}
	if Equals(FromEnum8(3, 7), FromEnum(3, 8)) {
		t.Fatalf("enums of different types must differ")
	}
}

func TestMismatchedKindsAreUnequal(t *testing.T) {
	pairs := [][2]Value{
		{FromSigned(1), FromInt64(1)},
		{FromSigned(1), FromDouble(1)},
		{FromString("1"), FromSigned(1)},
		{Null(), Unset()},
		{FromBool(false), FromSigned(0)},
	}
	for _, p := range pairs {
		if Equals(p[0], p[1]) {
			t.Fatalf("%v should not equal %v", p[0], p[1])
		}
	}
}

func TestContentEquality(t *testing.T) {
	a, b := FromString("same"), FromString("same")
	if !Equals(a, b) {
		t.Fatalf("strings compare by content")
	}
	if !Equals(FromPointArray([]Point{{X: 1}}), FromPointArray([]Point{{X: 1}})) {
		t.Fatalf("arrays compare element-wise")
	}
	if Equals(FromSignedArray([]int32{1}), FromSignedArray([]int32{1, 2})) {
		t.Fatalf("arrays of different length must differ")
	}
	if Equals(FromString(""), Value{kind: KindString}) {
		t.Fatalf("empty string must differ from a null string")
	}
}

func TestBoxedEquality(t *testing.T) {
	box, err := NewBox(FromSigned(42))
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	boxed := WrapBoxed(box)
	if !Equals(boxed, FromSigned(42)) || !Equals(FromSigned(42), boxed) {
		t.Fatalf("boxed value should unbox before comparing")
	}
	if Equals(boxed, FromSigned(41)) {
		t.Fatalf("different payloads should differ")
	}

	other, _ := NewBox(FromSigned(42))
	if !Equals(boxed, WrapBoxed(other)) {
		t.Fatalf("two boxes with equal payloads compare equal")
	}

	a, b := &countingObject{}, &countingObject{}
	if Equals(WrapObject(a), WrapObject(b)) {
		t.Fatalf("objects compare by identity")
	}
	if !Equals(WrapObject(a), WrapObject(a)) {
		t.Fatalf("same object should be equal")
	}
}
