// Package system checks host resources before large allocations.
package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/san-kum/boxlight/internal/diag"
)

// MemoryBudget is the share of available memory a sequence may take before
// a warning is printed.
const MemoryBudget = 0.8

// EstimateFrameBytes is the pixel memory of n frames of w x h RGBA.
func EstimateFrameBytes(w, h, n int) uint64 {
	if w <= 0 || h <= 0 || n <= 0 {
		return 0
	}
	return uint64(w) * uint64(h) * 4 * uint64(n)
}

// Available reports the memory the OS considers available, in bytes.
var Available = func() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// CheckMemory warns through sink when need exceeds the memory budget. It
// returns false in that case; it never blocks a load.
func CheckMemory(need uint64, sink diag.Sink) bool {
	sink = diag.Or(sink)
	avail, err := Available()
	if err != nil {
		sink.Printf("Could not query available memory: %v", err)
		return true
	}
	if float64(need) > MemoryBudget*float64(avail) {
		sink.Printf("Warning: frames need %s but only %s is available", FormatBytes(need), FormatBytes(avail))
		return false
	}
	return true
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / unit
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	i := 0
	for v >= unit && i < len(suffixes)-1 {
		v /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", v, suffixes[i])
}
