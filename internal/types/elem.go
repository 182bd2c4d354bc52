package types

// ElemTag enumerates the elementary (predeclared) scalar types: integers of
// each width, floats, string, bool, and nil.
type ElemTag uint8

const (
	ElemInvalid ElemTag = iota
	ElemI8
	ElemI16
	ElemI32
	ElemI64
	ElemU8
	ElemU16
	ElemU32
	ElemU64
	ElemF32
	ElemF64
	ElemString
	ElemBool
	ElemNil
)

func (e ElemTag) String() string {
	switch e {
	case ElemI8:
		return "i8"
	case ElemI16:
		return "i16"
	case ElemI32:
		return "i32"
	case ElemI64:
		return "i64"
	case ElemU8:
		return "u8"
	case ElemU16:
		return "u16"
	case ElemU32:
		return "u32"
	case ElemU64:
		return "u64"
	case ElemF32:
		return "f32"
	case ElemF64:
		return "f64"
	case ElemString:
		return "string"
	case ElemBool:
		return "bool"
	case ElemNil:
		return "nil"
	default:
		return "invalid"
	}
}

// family groups elementary tags that may implicitly widen into one another.
type family uint8

const (
	familyNone family = iota
	familySignedInt
	familyUnsignedInt
	familyFloat
)

func (e ElemTag) family() family {
	switch e {
	case ElemI8, ElemI16, ElemI32, ElemI64:
		return familySignedInt
	case ElemU8, ElemU16, ElemU32, ElemU64:
		return familyUnsignedInt
	case ElemF32, ElemF64:
		return familyFloat
	default:
		return familyNone
	}
}

// width orders widths within a family for widening comparisons.
func (e ElemTag) width() int {
	switch e {
	case ElemI8, ElemU8:
		return 8
	case ElemI16, ElemU16:
		return 16
	case ElemI32, ElemU32, ElemF32:
		return 32
	case ElemI64, ElemU64, ElemF64:
		return 64
	default:
		return 0
	}
}

// CanWiden reports whether a value of elementary type from may be implicitly
// converted to elementary type to: same family, and to's width is no
// smaller than from's (spec.md §4.5(b)'s "implicit widening... to any
// larger elementary type of the same family").
func CanWiden(from, to ElemTag) bool {
	if from == to {
		return true
	}
	if from.family() == familyNone || from.family() != to.family() {
		return false
	}
	return to.width() >= from.width()
}

// PromoteElementary returns the common promoted type for a binary arithmetic
// or comparison operation over a and b, per spec.md §4.5(b): both operands
// must be elementary and of compatible (equal) families; the result is
// whichever operand has the wider width.
func PromoteElementary(a, b ElemTag) (ElemTag, bool) {
	if a.family() == familyNone || a.family() != b.family() {
		return ElemInvalid, false
	}
	if a.width() >= b.width() {
		return a, true
	}
	return b, true
}

// ElemTagByName resolves the source language's spelling of an elementary
// type (e.g. "i32", "f32", "bool") to its tag. ok is false for unknown
// spellings.
func ElemTagByName(name string) (ElemTag, bool) {
	switch name {
	case "i8":
		return ElemI8, true
	case "i16":
		return ElemI16, true
	case "i32":
		return ElemI32, true
	case "i64":
		return ElemI64, true
	case "u8":
		return ElemU8, true
	case "u16":
		return ElemU16, true
	case "u32":
		return ElemU32, true
	case "u64":
		return ElemU64, true
	case "f32":
		return ElemF32, true
	case "f64":
		return ElemF64, true
	case "string":
		return ElemString, true
	case "bool":
		return ElemBool, true
	case "nil":
		return ElemNil, true
	default:
		return ElemInvalid, false
	}
}
