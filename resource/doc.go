// Package resource enforces process-wide budgets for SEG-Y access.
//
// A Controller tracks three resources:
//
//   - Memory: bytes held by the block cache, reserved without blocking.
//   - Reads: the number of shot reads in flight (weighted semaphore).
//   - IO: bytes per second read from or written to blobs (token bucket).
//
// Scanning a directory of field files can saturate a shared filesystem;
// an IO limit keeps a background scan from starving interactive reads:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 200 << 20,
//	    MaxConcurrentReads: 8,
//	})
//	if err := rc.AcquireIO(ctx, len(buf)); err != nil {
//	    return err
//	}
//
// All methods are safe for concurrent use and are no-ops on a nil *Controller.
package resource
