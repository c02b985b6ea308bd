package rawmem

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/armory/memutils"
	"golang.org/x/exp/slog"
)

// AddDetailedStatistics sums the live registry's block statistics into the
// statistics currently present in the provided memutils.DetailedStatistics
// object.
func AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	mu.Lock()
	defer mu.Unlock()

	addDetailedStatistics(stats)
}

func addDetailedStatistics(stats *memutils.DetailedStatistics) {
	pins.Iter(func(addr uintptr, p pin) bool {
		stats.BlockCount++
		stats.BlockBytes += len(p.raw)
		stats.AddAllocation(p.size)

		if slack := len(p.raw) - p.size; slack > 0 {
			stats.AddUnusedRange(slack)
		}
		return false
	})
}

// ReportLeaks logs one error per live block and returns how many there were.
// Run it at the point where every block should already have been returned,
// usually process shutdown or the end of a test.
func ReportLeaks() int {
	mu.Lock()
	defer mu.Unlock()

	leaked := 0
	pins.Iter(func(addr uintptr, p pin) bool {
		logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed block",
			slog.String("address", fmt.Sprintf("0x%x", addr)),
			slog.Int("usableBytes", p.size),
			slog.Int("reservedBytes", len(p.raw)),
		)
		leaked++
		return false
	})

	return leaked
}

// Validate runs consistency checks across the registry. It will return nil
// if all live blocks sit inside their backing buffers at their recorded
// alignment with intact corruption margins. This method is fairly expensive
// and so should only be run as part of some sort of diagnostic regime.
func Validate() error {
	mu.Lock()
	defer mu.Unlock()

	var err error
	pins.Iter(func(addr uintptr, p pin) bool {
		if p.size <= 0 {
			err = errors.Errorf("block at 0x%x has non-positive size %d", addr, p.size)
			return true
		}
		if p.alignment == 0 || addr&uintptr(p.alignment-1) != 0 {
			err = errors.Errorf("block at 0x%x is not aligned to %d", addr, p.alignment)
			return true
		}

		base := uintptr(unsafe.Pointer(&p.raw[0]))
		if addr < base || addr+uintptr(p.size+memutils.DebugMargin) > base+uintptr(len(p.raw)) {
			err = errors.Errorf("block at 0x%x escapes its backing buffer", addr)
			return true
		}
		if !memutils.ValidateMagicValue(unsafe.Add(unsafe.Pointer(&p.raw[0]), addr-base), p.size) {
			err = errors.Errorf("block at 0x%x has a corrupted debug margin", addr)
			return true
		}
		return false
	})

	return err
}

// BuildStatsString renders registry statistics as a JSON document, with a
// per-block breakdown when detailed is set.
func BuildStatsString(detailed bool) string {
	mu.Lock()
	defer mu.Unlock()

	var stats memutils.DetailedStatistics
	stats.Clear()
	addDetailedStatistics(&stats)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	obj.Name("BlockCount").Int(stats.BlockCount)
	obj.Name("BlockBytes").Int(stats.BlockBytes)
	obj.Name("AllocationCount").Int(stats.AllocationCount)
	obj.Name("AllocationBytes").Int(stats.AllocationBytes)
	obj.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)
	if stats.AllocationCount > 0 {
		obj.Name("AllocationSizeMin").Int(stats.AllocationSizeMin)
		obj.Name("AllocationSizeMax").Int(stats.AllocationSizeMax)
	}

	if detailed {
		blocks := obj.Name("Blocks").Array()
		pins.Iter(func(addr uintptr, p pin) bool {
			block := blocks.Object()
			block.Name("Address").String(fmt.Sprintf("0x%x", addr))
			block.Name("UsableBytes").Int(p.size)
			block.Name("ReservedBytes").Int(len(p.raw))
			block.Name("Alignment").Int(int(p.alignment))
			block.End()
			return false
		})
		blocks.End()
	}
	obj.End()

	return string(writer.Bytes())
}
