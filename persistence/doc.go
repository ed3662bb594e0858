// Package persistence saves and loads scan indexes.
//
// An index file is a fixed header, a compressed body and a CRC32C
// trailer:
//
//	magic "SGYI" | version | compression | raw length | body length
//	body (varint-encoded files, key fields and shot records)
//	CRC32C over everything before it
//
// Load(Save(idx)) rebuilds an index equal to idx field for field. Files
// that fail the checksum are rejected with ErrCorrupt.
//
// Publish writes an index file under a new random name and then replaces
// the directory's CURRENT pointer with a small JSON manifest naming it.
// Readers call LoadCurrent. Over a blobstore/s3.DDBCommitStore the pointer
// flip is a conditional DynamoDB write, so concurrent publishers cannot
// overwrite each other.
package persistence
