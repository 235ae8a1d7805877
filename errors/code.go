package errors

const (
	UnknownReason = "UNKNOWN_REASON"
	UnknownCode   = 600

	InvalidConfiguration = "INVALID_CONFIGURATION"
	ConfigurationCode    = 620

	MalformedDocument = "MALFORMED_DOCUMENT"
	MalformedCode     = 621

	MismatchType     = "TYPE_MISMATCH"
	TypeMismatchCode = 622

	MismatchStructure     = "STRUCTURE_MISMATCH"
	StructureMismatchCode = 623

	PropertyNotFound    = "UNKNOWN_PROPERTY"
	UnknownPropertyCode = 624
)

// metadata keys

const (
	MetaPath     = "path"
	MetaArchiver = "archiver"
	MetaLine     = "line"
	MetaValue    = "value"
)
