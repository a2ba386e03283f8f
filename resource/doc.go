// Package resource limits the memory, worker concurrency and IO throughput
// of a term-vector build.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   2 << 30,
//	    MaxWorkers:         4,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	b, err := semvec.New(cfg, idx, semvec.WithResourceController(rc))
package resource
