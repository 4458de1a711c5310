package server

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var startupTime = time.Now()

// handleHealth reports process uptime plus host CPU/RAM usage, the same
// pair system_handlers.go's getSystemStats collects for its health/status
// endpoints — a short CPU sampling window keeps the handler responsive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cpuPct, memPct := s.systemStats()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"uptime_sec":   time.Since(startupTime).Seconds(),
		"cpu_percent":  cpuPct,
		"mem_percent":  memPct,
		"fanout_limit": s.concurrency,
	})
}

func (s *Server) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read cpu percent")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read memory stats")
		return cpuAvg(cpuPercent), 0
	}

	return cpuAvg(cpuPercent), memStat.UsedPercent
}

func cpuAvg(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[0]
}
