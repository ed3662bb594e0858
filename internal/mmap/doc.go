// Package mmap maps files read-only into memory.
//
// SEG-Y files are often several gigabytes; a scan touches only the
// 240-byte trace headers spread across the file, and shot reads jump to
// arbitrary offsets. Mapping the file lets both paths read those ranges
// without a syscall per header.
//
//	m, err := mmap.Open("line42.sgy")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessRandom)
//	hdr := m.Bytes()[3600:3840]
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; Advise is a no-op there.
//
// A Mapping is safe for concurrent readers. Close is idempotent, but no
// goroutine may touch a slice returned by Bytes after Close.
package mmap
