package encode

// Validator decides whether field name is well-formed enough to be emitted.
type Validator func(name string) bool

// Teleinfo labels are short uppercase words, some with + or -,
// virtual fields start with underscore.
const MaxNameLength = 16

// ValidName is default Validator.
func ValidName(name string) bool {
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '+' || c == '-':
		default:
			return false
		}
	}
	return true
}

// OrDefault returns v or ValidName when v is nil.
func (v Validator) OrDefault() Validator {
	if v == nil {
		return ValidName
	}
	return v
}
