package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/axiome/analytics/internal/database"
	"github.com/axiome/analytics/internal/server/respond"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	marketDB    *database.DB
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, dataDir string, marketDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		marketDB:    marketDB,
	}
}

// SystemStatus is the /api/system/status payload
type SystemStatus struct {
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	GoVersion     string          `json:"go_version"`
	Goroutines    int             `json:"goroutines"`
	CPUPercent    float64         `json:"cpu_percent"`
	MemoryPercent float64         `json:"memory_percent"`
	DiskPercent   float64         `json:"disk_percent"`
	Database      *DatabaseStatus `json:"database,omitempty"`
}

// DatabaseStatus describes market.db
type DatabaseStatus struct {
	Name    string          `json:"name"`
	Driver  string          `json:"driver"`
	Healthy bool            `json:"healthy"`
	Stats   *database.Stats `json:"stats,omitempty"`
}

// HandleSystemStatus returns host and database status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()
	status := SystemStatus{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		DiskPercent:   h.getDiskUsage(),
	}

	if h.marketDB != nil {
		status.Database = h.databaseStatus(r.Context())
		if !status.Database.Healthy {
			status.Status = "degraded"
		}
	}

	respond.Write(w, r, http.StatusOK, status, h.log)
}

func (h *SystemHandlers) databaseStatus(ctx context.Context) *DatabaseStatus {
	ds := &DatabaseStatus{Name: h.marketDB.Name(), Driver: h.marketDB.Driver(), Healthy: true}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.marketDB.QuickCheck(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Market database ping failed")
		ds.Healthy = false
		return ds
	}

	stats, err := h.marketDB.GetStats()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read database stats")
		return ds
	}
	ds.Stats = stats
	return ds
}

// getSystemStats calculates CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// 100ms sample keeps the endpoint responsive
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) getDiskUsage() float64 {
	if h.dataDir == "" {
		return 0
	}
	usage, err := disk.Usage(h.dataDir)
	if err != nil {
		h.log.Warn().Err(err).Str("path", h.dataDir).Msg("Failed to get disk usage")
		return 0
	}
	return usage.UsedPercent
}
