package box

// Kind classifies a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindDouble
	KindInt
	KindPointer
	KindBool
	KindNull
	KindUndefined
	KindEmpty
	KindDeleted
	KindShortString
	KindAux
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindDouble:      "double",
	KindInt:         "int",
	KindPointer:     "pointer",
	KindBool:        "boolean",
	KindNull:        "null",
	KindUndefined:   "undefined",
	KindEmpty:       "empty",
	KindDeleted:     "deleted",
	KindShortString: "shortstring",
	KindAux:         "aux",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// Kind returns the variant of v. Words in the singleton range that no
// constructor produces report KindInvalid.
func (v Value) Kind() Kind {
	switch {
	case v.IsDouble():
		return KindDouble
	case v.IsInt():
		return KindInt
	case v.IsPointer():
		return KindPointer
	case v.IsShortString():
		return KindShortString
	case v.IsAux():
		return KindAux
	}
	switch v {
	case True, False:
		return KindBool
	case Null:
		return KindNull
	case Undefined:
		return KindUndefined
	case Empty:
		return KindEmpty
	case Deleted:
		return KindDeleted
	}
	return KindInvalid
}
