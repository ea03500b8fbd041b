package ffi

// MethodFlags is the bitfield describing a registered method.
// Bit values match the host header.
type MethodFlags uint32

const (
	MethodFlagNormal  MethodFlags = 1 << iota // 1
	MethodFlagEditor                          // 2
	MethodFlagConst                           // 4
	MethodFlagVirtual                         // 8
	MethodFlagVararg                          // 16
	MethodFlagStatic                          // 32

	MethodFlagsDefault = MethodFlagNormal
)

// Has reports whether all bits of f are set.
func (m MethodFlags) Has(f MethodFlags) bool {
	return m&f == f
}

// ArgumentMetadata refines a generic int/float variant kind with the
// concrete numeric width of the declared parameter. The engine records it
// for introspection; the binding layer uses it for bounds checking.
// Values match the host header.
type ArgumentMetadata uint32

const (
	MetadataNone ArgumentMetadata = iota
	MetadataIntIsInt8
	MetadataIntIsInt16
	MetadataIntIsInt32
	MetadataIntIsInt64
	MetadataIntIsUint8
	MetadataIntIsUint16
	MetadataIntIsUint32
	MetadataIntIsUint64
	MetadataRealIsFloat
	MetadataRealIsDouble
)

var metadataNames = [...]string{
	MetadataNone:         "none",
	MetadataIntIsInt8:    "int8",
	MetadataIntIsInt16:   "int16",
	MetadataIntIsInt32:   "int32",
	MetadataIntIsInt64:   "int64",
	MetadataIntIsUint8:   "uint8",
	MetadataIntIsUint16:  "uint16",
	MetadataIntIsUint32:  "uint32",
	MetadataIntIsUint64:  "uint64",
	MetadataRealIsFloat:  "float32",
	MetadataRealIsDouble: "float64",
}

func (m ArgumentMetadata) String() string {
	if int(m) < len(metadataNames) {
		return metadataNames[m]
	}
	return "unknown"
}
