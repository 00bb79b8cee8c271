package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// InitRuntime applies conservative runtime defaults for a request/response
// service. Override with the standard GOGC, GOMAXPROCS and GOMEMLIMIT
// environment variables.
func InitRuntime() {
	if os.Getenv("GOMAXPROCS") == "" {
		procs := runtime.NumCPU()
		if procs < 1 {
			procs = 1
		}
		runtime.GOMAXPROCS(procs)
		log.Info().
			Int("GOMAXPROCS", procs).
			Msg("[runtime] set GOMAXPROCS")
	}

	// 2GB safety net unless operators set their own limit. Quote and
	// execution state is small; unbounded growth means a leak.
	if os.Getenv("GOMEMLIMIT") == "" {
		const memLimit = 2 * 1024 * 1024 * 1024
		debug.SetMemoryLimit(memLimit)
		log.Info().
			Int64("GOMEMLIMIT_bytes", memLimit).
			Msg("[runtime] set memory limit")
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Uint64("heap_alloc_mb", memStats.HeapAlloc/1024/1024).
		Str("go_version", runtime.Version()).
		Msg("[runtime] current runtime settings")
}
