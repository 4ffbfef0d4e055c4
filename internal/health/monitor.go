// Package health samples the bot's own process on an interval and logs
// resource usage, warning when CPU stays hot for several readings.
package health

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"whenbot/internal/logging"
)

// Monitor polls the current process for CPU and memory usage.
type Monitor struct {
	mu sync.Mutex

	pollInterval time.Duration
	hotThreshold float64 // avg CPU % above which we warn
	historySize  int

	proc       *process.Process
	cpuHistory []float64

	stopChan chan struct{}
	running  bool
}

// NewMonitor creates a monitor for the current process.
func NewMonitor() (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Monitor{
		pollInterval: 5 * time.Minute,
		hotThreshold: 80.0,
		historySize:  5,
		proc:         proc,
	}, nil
}

// SetInterval overrides the poll interval. Only effective before Start.
func (m *Monitor) SetInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollInterval = d
}

// Start begins polling in the background.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})
	interval := m.pollInterval
	m.mu.Unlock()

	go m.pollLoop()
	logging.Info("health", "Started (poll=%v, warn>%.0f%% CPU)", interval, m.hotThreshold)
}

// Stop stops polling.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		close(m.stopChan)
		m.running = false
	}
}

func (m *Monitor) pollLoop() {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cpu, err := m.proc.CPUPercent()
	if err != nil {
		logging.Debug("health", "CPU read failed: %v", err)
		return
	}

	m.cpuHistory = append(m.cpuHistory, cpu)
	if len(m.cpuHistory) > m.historySize {
		m.cpuHistory = m.cpuHistory[1:]
	}

	var rssMB float64
	if mem, err := m.proc.MemoryInfo(); err == nil && mem != nil {
		rssMB = float64(mem.RSS) / (1024 * 1024)
	}

	avg := avgCPU(m.cpuHistory)
	if len(m.cpuHistory) >= 3 && avg > m.hotThreshold {
		logging.Warn("health", "CPU running hot: avg %.1f%% over %d samples (rss=%.1f MB)",
			avg, len(m.cpuHistory), rssMB)
		return
	}
	logging.Debug("health", "cpu=%.1f%% avg=%.1f%% rss=%.1f MB", cpu, avg, rssMB)
}

func avgCPU(history []float64) float64 {
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for _, v := range history {
		sum += v
	}
	return sum / float64(len(history))
}
