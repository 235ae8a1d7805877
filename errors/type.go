package errors

// sentinels, compare with Is

var (
	ErrConfiguration     = NewError(ConfigurationCode, InvalidConfiguration, InvalidConfiguration)
	ErrMalformed         = NewError(MalformedCode, MalformedDocument, MalformedDocument)
	ErrTypeMismatch      = NewError(TypeMismatchCode, MismatchType, MismatchType)
	ErrStructureMismatch = NewError(StructureMismatchCode, MismatchStructure, MismatchStructure)
	ErrUnknownProperty   = NewError(UnknownPropertyCode, PropertyNotFound, PropertyNotFound)
)

func Configuration(msg string) *Error {
	return NewError(ConfigurationCode, InvalidConfiguration, msg)
}

func Malformed(msg string) *Error {
	return NewError(MalformedCode, MalformedDocument, msg)
}

func TypeMismatch(msg string) *Error {
	return NewError(TypeMismatchCode, MismatchType, msg)
}

func StructureMismatch(msg string) *Error {
	return NewError(StructureMismatchCode, MismatchStructure, msg)
}

func UnknownProperty(msg string) *Error {
	return NewError(UnknownPropertyCode, PropertyNotFound, msg)
}

func IsConfiguration(err error) bool {
	return Is(err, ErrConfiguration)
}

func IsMalformed(err error) bool {
	return Is(err, ErrMalformed)
}

func IsTypeMismatch(err error) bool {
	return Is(err, ErrTypeMismatch)
}

func IsStructureMismatch(err error) bool {
	return Is(err, ErrStructureMismatch)
}

func IsUnknownProperty(err error) bool {
	return Is(err, ErrUnknownProperty)
}
