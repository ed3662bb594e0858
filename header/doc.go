// Package header defines the SEG-Y Rev 1 header schema.
//
// Every field of the 240-byte trace header and the 400-byte binary file
// header is described by a FieldInfo (name, byte offset, on-disk kind).
// Fields are addressed by TraceField and FileField values, which index
// directly into the schema tables; name lookup happens once through
// ParseTraceField or ParseFileField.
//
// Coordinate and elevation fields carry an associated scalar field
// (TraceField.Scalar) interpreted with the scalar package.
package header
