package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/shirou/gopsutil"
	"github.com/shirou/gopsutil/process"
)

// HealthMonitoringWorker periodically samples the server's own process and
// logs CPU and memory usage together with the live connection count. It is
// observability only: losing a sample has no effect on the relay.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	connCount      func() int
}

func NewHealthMonitoringWorker(log *slog.Logger, metricInterval time.Duration,
	connCount func() int) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		metricInterval: metricInterval,
		connCount:      connCount,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Error("Error while attaching to own process", "err", err)
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			cpu, err := p.CPUPercent()
			if err != nil {
				w.log.Error("Error while finding process cpu usage", "err", err)
				continue
			}
			ram, err := p.MemoryPercent()
			if err != nil {
				w.log.Error("Error while finding process ram usage", "err", err)
				continue
			}
			w.log.Info("Health sample",
				"cpu_percent", cpu,
				"ram_percent", ram,
				"connections", w.connCount())
		}
	}
}
