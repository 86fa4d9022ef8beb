package value

// Tag is the one-byte discriminant that leads every encoded value.
// Tag values are part of the wire format and are never renumbered.
type Tag byte

const (
	TagFalse  Tag = 0
	TagTrue   Tag = 1
	TagNull   Tag = 2
	TagNumber Tag = 3 // 8-byte little-endian IEEE-754 double
	TagString Tag = 4 // length field + UTF-8 bytes
	TagArray  Tag = 5 // length field + that many values
	TagObject Tag = 6 // length field + that many (key, value) entries
)

// Valid reports whether t is one of the seven known tags.
func (t Tag) Valid() bool {
	return t <= TagObject
}

// Fixed reports whether the whole encoding of a value with this tag is the tag byte itself.
func (t Tag) Fixed() bool {
	return t == TagFalse || t == TagTrue || t == TagNull
}

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagFalse:
		return "false"
	case TagTrue:
		return "true"
	case TagNull:
		return "null"
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagArray:
		return "array"
	case TagObject:
		return "object"
	default:
		return "invalid"
	}
}
