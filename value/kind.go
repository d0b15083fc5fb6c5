package value

import "strings"

// Kind identifies the payload category held by a Value.
type Kind uint8

const (
	// KindUnset is the zero state: no value has been assigned.
	KindUnset Kind = iota
	// KindNull is an explicit null.
	KindNull
	KindBool
	// KindEnum is a 32-bit enumeration value tagged with its type.
	KindEnum
	// KindEnum8 is the compact 8-bit form of KindEnum.
	KindEnum8
	KindSigned
	KindUnsigned
	KindInt64
	KindUInt64
	KindFloat
	KindDouble
	KindString
	KindColor
	KindPoint
	KindSize
	KindRect
	KindThickness
	KindGridLength
	KindCornerRadius
	KindDateTime
	KindTimeSpan
	KindObject
	// KindBoxed is a reference to a boxed primitive that compares by its
	// unboxed content.
	KindBoxed
	KindTypeHandle
	KindThemeResource
	// KindPointer is an opaque, never-owned address.
	KindPointer
	KindTextRange
	KindSignedArray
	KindFloatArray
	KindDoubleArray
	KindPointArray

	kindCount
)

var kindNames = [kindCount]string{
	KindUnset:         "unset",
	KindNull:          "null",
	KindBool:          "bool",
	KindEnum:          "enum",
	KindEnum8:         "enum8",
	KindSigned:        "signed",
	KindUnsigned:      "unsigned",
	KindInt64:         "int64",
	KindUInt64:        "uint64",
	KindFloat:         "float",
	KindDouble:        "double",
	KindString:        "string",
	KindColor:         "color",
	KindPoint:         "point",
	KindSize:          "size",
	KindRect:          "rect",
	KindThickness:     "thickness",
	KindGridLength:    "gridlength",
	KindCornerRadius:  "cornerradius",
	KindDateTime:      "datetime",
	KindTimeSpan:      "timespan",
	KindObject:        "object",
	KindBoxed:         "boxed",
	KindTypeHandle:    "typehandle",
	KindThemeResource: "themeresource",
	KindPointer:       "pointer",
	KindTextRange:     "textrange",
	KindSignedArray:   "signedarray",
	KindFloatArray:    "floatarray",
	KindDoubleArray:   "doublearray",
	KindPointArray:    "pointarray",
}

func (k Kind) String() string {
	if !k.IsValid() {
		return "invalid"
	}
	return kindNames[k]
}

// ParseKind converts a kind name into the corresponding Kind. Matching is
// case-insensitive. Returns false for unrecognised names.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, candidate := range kindNames {
		if candidate == name {
			return Kind(k), true
		}
	}
	return KindUnset, false
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := KindUnset; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsValid reports whether k is a declared kind.
func (k Kind) IsValid() bool {
	return k < kindCount
}

// Owning reports whether values of this kind can own a resource.
func (k Kind) Owning() bool {
	return k.IsValid() && handlers[k].storage != storageInline
}

// Nullable reports whether a null assignment is meaningful for k.
func (k Kind) Nullable() bool {
	switch k {
	case KindNull, KindPointer, KindTypeHandle:
		return true
	}
	return k.Owning()
}

// IsArray reports whether k is one of the array kinds.
func (k Kind) IsArray() bool {
	switch k {
	case KindSignedArray, KindFloatArray, KindDoubleArray, KindPointArray:
		return true
	}
	return false
}

func (k Kind) isNumeric() bool {
	switch k {
	case KindSigned, KindUnsigned, KindInt64, KindUInt64, KindFloat, KindDouble:
		return true
	}
	return false
}
