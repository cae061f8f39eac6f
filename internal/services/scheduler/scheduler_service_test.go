package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/interfaces"
)

type fakeStorage struct {
	ratio float64
	runs  int
	err   error
}

func (f *fakeStorage) WatchlistStorage() interfaces.WatchlistStorage { return nil }

func (f *fakeStorage) RunMaintenance(ctx context.Context, discardRatio float64) error {
	f.runs++
	f.ratio = discardRatio
	return f.err
}

func (f *fakeStorage) Close() error { return nil }

func TestService_RegisterJobValidation(t *testing.T) {
	service := NewService(arbor.NewLogger(), 0)

	assert.Error(t, service.RegisterJob("bad", "not a schedule", "", func(ctx context.Context) error { return nil }))
	assert.Error(t, service.RegisterJob("nil", "@every 1h", "", nil))

	require.NoError(t, service.RegisterJob("ok", "@every 1h", "", func(ctx context.Context) error { return nil }))
	assert.Error(t, service.RegisterJob("ok", "@every 1h", "", func(ctx context.Context) error { return nil }))
}

func TestService_TriggerStorageGC(t *testing.T) {
	service := NewService(arbor.NewLogger(), 0)
	storage := &fakeStorage{}

	require.NoError(t, service.RegisterStorageGC(storage, "@every 1h", 0.5))
	require.NoError(t, service.TriggerJob(StorageGCJob))

	assert.Equal(t, 1, storage.runs)
	assert.Equal(t, 0.5, storage.ratio)

	status, err := service.GetJobStatus(StorageGCJob)
	require.NoError(t, err)
	assert.Equal(t, 1, status.RunCount)
	assert.NotNil(t, status.LastRun)
	assert.Empty(t, status.LastError)
	assert.Nil(t, status.NextRun)
}

func TestService_TriggerRecordsFailures(t *testing.T) {
	service := NewService(arbor.NewLogger(), 0)
	storage := &fakeStorage{err: errors.New("disk full")}

	require.NoError(t, service.RegisterStorageGC(storage, "@every 1h", 0.5))
	assert.Error(t, service.TriggerJob(StorageGCJob))

	status, err := service.GetJobStatus(StorageGCJob)
	require.NoError(t, err)
	assert.Equal(t, "disk full", status.LastError)

	require.NoError(t, service.RegisterJob("panics", "@every 1h", "", func(ctx context.Context) error {
		panic("boom")
	}))
	assert.Error(t, service.TriggerJob("panics"))

	assert.Error(t, service.TriggerJob("missing"))
}

func TestService_StartStop(t *testing.T) {
	service := NewService(arbor.NewLogger(), 0)
	require.NoError(t, service.RegisterJob("a", "@every 1h", "first", func(ctx context.Context) error { return nil }))
	require.NoError(t, service.RegisterJob("b", "0 3 * * *", "second", func(ctx context.Context) error { return nil }))

	require.NoError(t, service.Start())
	assert.True(t, service.IsRunning())
	assert.Error(t, service.Start())

	statuses := service.GetAllJobStatuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "a", statuses[0].Name)
	assert.NotNil(t, statuses[0].NextRun)

	require.NoError(t, service.Stop())
	assert.False(t, service.IsRunning())
	require.NoError(t, service.Stop())
}
