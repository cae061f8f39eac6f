package scheduler

import (
	"context"

	"github.com/ternarybob/bosbiss/internal/interfaces"
)

// StorageGCJob is the name of the storage maintenance job
const StorageGCJob = "storage_gc"

// RegisterStorageGC schedules value-log GC on the storage manager
func (s *Service) RegisterStorageGC(storage interfaces.StorageManager, schedule string, discardRatio float64) error {
	return s.RegisterJob(StorageGCJob, schedule, "Reclaim space in the watchlist database", func(ctx context.Context) error {
		return storage.RunMaintenance(ctx, discardRatio)
	})
}
