package list_unavailabilities

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	backendRepo "github.com/m04kA/SMC-PlanningService/internal/infra/storage/backend"
	"github.com/m04kA/SMC-PlanningService/pkg/logger"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

type MockUnavailabilitySource struct {
	mock.Mock
}

func (m *MockUnavailabilitySource) ListUnavailabilities(ctx context.Context, fieldID types.ID) ([]domain.Unavailability, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unavailability), args.Error(1)
}

var records = []domain.Unavailability{
	{ID: 1, Date: "2025-06-01"},
	{ID: 2, Date: "2025-06-02"},
	{ID: 3, Date: "2025-06-08"},
	{ID: 4, Date: "2025-06-09"},
}

func TestExecute_FiltersByRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantIDs []types.ID
	}{
		{name: "week", from: "2025-06-02", to: "2025-06-08", wantIDs: []types.ID{2, 3}},
		{name: "open start", to: "2025-06-02", wantIDs: []types.ID{1, 2}},
		{name: "open end", from: "2025-06-08", wantIDs: []types.ID{3, 4}},
		{name: "no bounds", wantIDs: []types.ID{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(MockUnavailabilitySource)
			src.On("ListUnavailabilities", mock.Anything, types.ID(1)).Return(records, nil)

			resp, err := NewUseCase(src, logger.Nop()).Execute(context.Background(), &Request{
				FieldID: 1,
				From:    tt.from,
				To:      tt.to,
			})
			require.NoError(t, err)

			ids := make([]types.ID, 0, len(resp.Items))
			for _, item := range resp.Items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestExecute_Validation(t *testing.T) {
	src := new(MockUnavailabilitySource)
	uc := NewUseCase(src, logger.Nop())

	for _, req := range []*Request{
		{FieldID: 0},
		{FieldID: 1, From: "02/06/2025"},
		{FieldID: 1, To: "2025-13-01"},
		{FieldID: 1, From: "2025-06-09", To: "2025-06-02"},
	} {
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	src.AssertNotCalled(t, "ListUnavailabilities", mock.Anything, mock.Anything)
}

func TestExecute_SourceErrors(t *testing.T) {
	src := new(MockUnavailabilitySource)
	src.On("ListUnavailabilities", mock.Anything, types.ID(5)).Return(nil, backendRepo.ErrNotFound)
	src.On("ListUnavailabilities", mock.Anything, types.ID(6)).Return(nil, errors.New("timeout"))
	uc := NewUseCase(src, logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{FieldID: 5})
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = uc.Execute(context.Background(), &Request{FieldID: 6})
	assert.ErrorIs(t, err, ErrInternal)
}
