package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/santeconnect/careconnect/internal/application/services"
	"github.com/santeconnect/careconnect/internal/domain/entities"
	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

// Mocks

type MockAvailabilityGateway struct {
	mock.Mock
}

func (m *MockAvailabilityGateway) ListDoctorAvailabilities(ctx context.Context, token string) ([]json.RawMessage, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func (m *MockAvailabilityGateway) CreateDoctorAvailability(ctx context.Context, token string, payload entities.AvailabilityPayload) (json.RawMessage, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockAvailabilityGateway) UpdateDoctorAvailability(ctx context.Context, token, id string, payload entities.AvailabilityPayload) (json.RawMessage, error) {
	args := m.Called(ctx, token, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockAvailabilityGateway) DeleteDoctorAvailability(ctx context.Context, token, id string) (string, error) {
	args := m.Called(ctx, token, id)
	return args.String(0), args.Error(1)
}

func (m *MockAvailabilityGateway) GetPublicAvailabilities(ctx context.Context, doctorID string, query map[string]string) (map[string]json.RawMessage, error) {
	args := m.Called(ctx, doctorID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

// Tests

func TestAvailabilityService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns backend records untouched", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		list := []json.RawMessage{
			json.RawMessage(`{"id":1,"doctor_id":4,"is_recurring":true,"day_of_week":1,"start_time":"08:00:00","end_time":"12:00:00","created_at":"2025-05-01T10:00:00Z"}`),
			json.RawMessage(`{"id":2,"is_recurring":true,"day_of_week":"monday"}`),
		}
		gateway.On("ListDoctorAvailabilities", ctx, "tok").Return(list, nil)

		got := services.NewAvailabilityService(gateway).List(ctx, "tok")

		assert.Equal(t, list, got)
		gateway.AssertExpectations(t)
	})

	t.Run("backend failure degrades to an empty list", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		gateway.On("ListDoctorAvailabilities", ctx, "tok").Return(nil, apperrors.NewUpstreamStatusError("backend api", 500))

		got := services.NewAvailabilityService(gateway).List(ctx, "tok")

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAvailabilityService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards the normalized payload", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		created := json.RawMessage(`{"id":9}`)
		gateway.On("CreateDoctorAvailability", ctx, "tok", mock.MatchedBy(func(p entities.AvailabilityPayload) bool {
			data, err := json.Marshal(p)
			return err == nil && string(data) == `{"day_of_week":5,"end_time":"17:00:00","is_recurring":true,"start_time":"09:00:00"}`
		})).Return(created, nil)

		in := entities.AvailabilityInput{IsRecurring: true, DayOfWeek: "5", Date: "", StartTime: "09:00", EndTime: "17:00"}
		got, err := services.NewAvailabilityService(gateway).Create(ctx, "tok", in)

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":9}`, string(got))
		gateway.AssertExpectations(t)
	})

	t.Run("validation failure never reaches the backend", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)

		in := entities.AvailabilityInput{IsRecurring: true, DayOfWeek: 9.0, StartTime: "09:00", EndTime: "17:00"}
		_, err := services.NewAvailabilityService(gateway).Create(ctx, "tok", in)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		gateway.AssertNotCalled(t, "CreateDoctorAvailability", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backend field errors propagate", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		backendErr := apperrors.NewFieldValidationError("The given data was invalid.", map[string][]string{"date": {"The date field is required."}})
		gateway.On("CreateDoctorAvailability", ctx, "tok", mock.Anything).Return(nil, backendErr)

		in := entities.AvailabilityInput{Date: "2025-06-01", StartTime: "09:00", EndTime: "10:00"}
		_, err := services.NewAvailabilityService(gateway).Create(ctx, "tok", in)

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, []string{"The date field is required."}, appErr.Fields["date"])
	})
}

func TestAvailabilityService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockAvailabilityGateway)
	gateway.On("UpdateDoctorAvailability", ctx, "tok", "3", mock.MatchedBy(func(p entities.AvailabilityPayload) bool {
		return !p.Recurring()
	})).Return(json.RawMessage(`{"id":3}`), nil)
	gateway.On("DeleteDoctorAvailability", ctx, "tok", "3").Return("3", nil)

	svc := services.NewAvailabilityService(gateway)

	_, err := svc.Update(ctx, "tok", "3", entities.AvailabilityInput{IsRecurring: false, Date: "2025-06-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	id, err := svc.Delete(ctx, "tok", "3")
	require.NoError(t, err)
	assert.Equal(t, "3", id)
	gateway.AssertExpectations(t)
}

func TestAvailabilityService_PublicSlots(t *testing.T) {
	ctx := context.Background()
	// Monday
	today := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	t.Run("builds slots from raw availabilities", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		gateway.On("GetPublicAvailabilities", ctx, "12", map[string]string(nil)).Return(map[string]json.RawMessage{
			"doctor_id":      json.RawMessage(`12`),
			"availabilities": json.RawMessage(`[{"is_recurring":true,"day_of_week":2,"start_time":"09:00:00","end_time":"11:00:00"}]`),
		}, nil)

		svc := services.NewAvailabilityService(gateway).WithClock(func() time.Time { return today })
		got, err := svc.PublicSlots(ctx, "12", nil)

		require.NoError(t, err)
		assert.JSONEq(t, `{"2025-06-03":["09:00","11:00"]}`, string(got["slots"]))
		assert.JSONEq(t, `12`, string(got["doctor_id"]))
	})

	t.Run("malformed records are skipped", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		gateway.On("GetPublicAvailabilities", ctx, "12", map[string]string(nil)).Return(map[string]json.RawMessage{
			"availabilities": json.RawMessage(`[
				{"is_recurring":true,"day_of_week":"monday","start_time":"07:00:00","end_time":"08:00:00"},
				{"is_recurring":false,"date":"2025-06-05","start_time":"14:00:00","end_time":"15:30:00"}
			]`),
		}, nil)

		svc := services.NewAvailabilityService(gateway).WithClock(func() time.Time { return today })
		got, err := svc.PublicSlots(ctx, "12", nil)

		require.NoError(t, err)
		assert.JSONEq(t, `{"2025-06-05":["14:00","15:30"]}`, string(got["slots"]))
	})

	t.Run("keeps backend slots untouched", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		data := map[string]json.RawMessage{"slots": json.RawMessage(`{"2025-06-03":["10:00"]}`)}
		gateway.On("GetPublicAvailabilities", ctx, "12", map[string]string{"from": "2025-06-01"}).Return(data, nil)

		got, err := services.NewAvailabilityService(gateway).PublicSlots(ctx, "12", map[string]string{"from": "2025-06-01"})

		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("non array availabilities are returned as is", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		data := map[string]json.RawMessage{"availabilities": json.RawMessage(`"none"`)}
		gateway.On("GetPublicAvailabilities", ctx, "12", map[string]string(nil)).Return(data, nil)

		got, err := services.NewAvailabilityService(gateway).PublicSlots(ctx, "12", nil)

		require.NoError(t, err)
		assert.NotContains(t, got, "slots")
	})

	t.Run("backend errors propagate", func(t *testing.T) {
		gateway := new(MockAvailabilityGateway)
		gateway.On("GetPublicAvailabilities", ctx, "12", map[string]string(nil)).Return(nil, errors.New("boom"))

		_, err := services.NewAvailabilityService(gateway).PublicSlots(ctx, "12", nil)

		assert.Error(t, err)
	})
}
