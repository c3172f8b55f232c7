package container

import (
	"context"
	"strings"
	"testing"
	"time"

	"fleetops/domain/firstmile"
	"fleetops/internal"
	"fleetops/internal/config"
	"fleetops/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateBatch(ctx context.Context, tasks []firstmile.Task) error {
	return m.Called(ctx, tasks).Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, filter firstmile.TaskFilter) ([]firstmile.Task, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Import:   config.DefaultImportConfig(),
		Timezone: time.UTC,
		LogLevel: "ERROR",
	}
}

const csvFile = "Date,Hub,Destination\n2026-02-05,HUB01,north gate\n"

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestContainerParsesWithoutDatabase(t *testing.T) {
	c, err := New(testConfig(), internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Shutdown()

	parsed, err := c.ImportService.Parse(context.Background(), "tasks.csv", strings.NewReader(csvFile))
	require.NoError(t, err)
	require.Len(t, parsed.Batch.Tasks, 1)
	assert.Equal(t, firstmile.DestinationNorth, parsed.Batch.Tasks[0].Destination)

	_, err = c.ImportService.Commit(context.Background(), parsed.Batch, nil)
	assert.True(t, errors.HasCode(err, errors.CodeInternalError))
}

func TestContainerCommitsWithRepository(t *testing.T) {
	repo := &MockTaskRepository{}
	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil).Once()

	c, err := New(testConfig(), internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Shutdown()
	c.InitWithRepository(repo)

	parsed, err := c.ImportService.Parse(context.Background(), "tasks.csv", strings.NewReader(csvFile))
	require.NoError(t, err)

	result, err := c.ImportService.Commit(context.Background(), parsed.Batch, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TasksCommitted)
	repo.AssertExpectations(t)
}

func TestInitWithDatabaseRejectsNil(t *testing.T) {
	c, err := New(testConfig(), internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Shutdown()

	assert.Error(t, c.InitWithDatabase(nil))
}
