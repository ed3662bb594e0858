// Package testutil provides testing utilities for segy.
//
// This package is intended for use in tests and benchmarks only.
// It builds synthetic SEG-Y files with a known layout so that scans and
// reads can be checked against the FileSpec that produced them.
//
// # Synthetic Files
//
//	spec := testutil.FileSpec{
//	    NS:     751,
//	    Format: sample.IEEEFloat32,
//	    Shots:  testutil.Shots(20, 48),
//	}
//	data := spec.Bytes()
//
// # Random Layouts
//
//	rng := testutil.NewRNG(seed)
//	shots := rng.Shots(20, 1, 64) // 20 shots of 1..64 traces
package testutil
