package metrics

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessUsage is a snapshot of this process's resource usage.
type ProcessUsage struct {
	RSSBytes    uint64
	CPUSeconds  float64
	ThreadCount int32
}

// SampleProcess reads current RSS, CPU time and thread count for this process.
func SampleProcess() (ProcessUsage, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessUsage{}, err
	}

	var usage ProcessUsage

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return ProcessUsage{}, err
	}
	usage.RSSBytes = memInfo.RSS

	if times, err := proc.Times(); err == nil {
		usage.CPUSeconds = times.User + times.System
	}
	usage.ThreadCount, _ = proc.NumThreads()

	return usage, nil
}
