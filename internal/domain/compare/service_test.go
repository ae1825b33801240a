package compare

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"skusync/internal/domain/catalog"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Run(t *testing.T) {
	cat := new(MockCatalog)
	cat.On("FindBySKU", mock.Anything, "FA00").
		Return(&catalog.Item{ItemID: "1", SKU: "FA00", Name: "Blue Widget", Rate: dec("12.50")}, nil)
	cat.On("FindBySKU", mock.Anything, "AB12C").
		Return(&catalog.Item{ItemID: "2", SKU: "AB12C", Name: "Red Lamp", Rate: dec("20")}, nil)
	cat.On("FindBySKU", mock.Anything, "ZZ1").Return(nil, catalog.ErrNotFound)
	cat.On("FindBySKU", mock.Anything, "ERR1").Return(nil, &catalog.APIError{StatusCode: 500, Body: "boom"})

	svc := NewService(cat, testLogger(), Config{ProgressEvery: 2})
	report, err := svc.Run(context.Background(), []Row{
		{SKU: "FA00", Name: "blue widget", CostPrice: nullDec("12.5")},
		{SKU: "AB12C", Name: "Green Chair", CostPrice: nullDec("15")},
		{SKU: "ZZ1", Name: "Missing"},
		{SKU: "ERR1", Name: "Broken"},
		{SKU: "  ", Name: "No sku"},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 1, report.PriceMatches)
	assert.Equal(t, 1, report.NameMatches)
	assert.Equal(t, 3, report.NotFound())
	assert.False(t, report.Cancelled)
	require.Len(t, report.Results, 5)

	assert.Equal(t, PriceMatch, report.Results[0].Price)
	assert.Equal(t, NameExact, report.Results[0].Name)

	second := report.Results[1]
	assert.Equal(t, PriceRemoteHigher, second.Price)
	assert.Equal(t, NameDifferent, second.Name)
	assert.True(t, second.PriceDiff.Decimal.Equal(dec("-5")))

	assert.Equal(t, PriceNotFound, report.Results[2].Price)
	assert.Equal(t, "no item found with this sku", report.Results[2].Error)
	assert.Contains(t, report.Results[3].Error, "status 500")
	assert.Equal(t, "empty sku", report.Results[4].Error)

	cat.AssertNumberOfCalls(t, "FindBySKU", 4)
}

func TestService_Run_AuthErrorAborts(t *testing.T) {
	cat := new(MockCatalog)
	cat.On("FindBySKU", mock.Anything, "FA00").Return(&catalog.Item{Name: "Widget", Rate: dec("1")}, nil)
	cat.On("FindBySKU", mock.Anything, "FA01").Return(nil, &catalog.AuthError{StatusCode: 401, Message: "rejected"})

	svc := NewService(cat, testLogger(), Config{})
	report, err := svc.Run(context.Background(), []Row{
		{SKU: "FA00", Name: "Widget"},
		{SKU: "FA01", Name: "Widget"},
		{SKU: "FA02", Name: "Widget"},
	})

	require.Error(t, err)
	assert.True(t, catalog.IsAuthError(err))
	require.NotNil(t, report)
	assert.Len(t, report.Results, 1)
	cat.AssertNotCalled(t, "FindBySKU", mock.Anything, "FA02")
}

func TestService_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := new(MockCatalog)
	cat.On("FindBySKU", mock.Anything, "FA00").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, catalog.ErrNotFound)

	svc := NewService(cat, testLogger(), Config{RequestDelay: time.Hour})
	report, err := svc.Run(ctx, []Row{{SKU: "FA00"}, {SKU: "FA01"}})

	require.NoError(t, err)
	assert.True(t, report.Cancelled)
	assert.Len(t, report.Results, 1)
	cat.AssertNumberOfCalls(t, "FindBySKU", 1)
}

func TestService_Run_RequestDelay(t *testing.T) {
	cat := new(MockCatalog)
	cat.On("FindBySKU", mock.Anything, mock.Anything).Return(nil, catalog.ErrNotFound)

	svc := NewService(cat, testLogger(), Config{RequestDelay: 20 * time.Millisecond})

	start := time.Now()
	_, err := svc.Run(context.Background(), []Row{{SKU: "A1"}, {SKU: "A2"}, {SKU: "A3"}})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestService_Run_UnexpectedErrorIsRecorded(t *testing.T) {
	cat := new(MockCatalog)
	cat.On("FindBySKU", mock.Anything, "FA00").Return(nil, errors.New("connection reset"))

	svc := NewService(cat, testLogger(), Config{})
	report, err := svc.Run(context.Background(), []Row{{SKU: "FA00"}})

	require.NoError(t, err)
	assert.Equal(t, "connection reset", report.Results[0].Error)
	assert.False(t, report.Results[0].Found)
}

func TestOutputName(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "data/Analysis_comparison_20250102_030405.csv", OutputName("data/Analysis.csv", now))
	assert.Equal(t, "export_comparison_20250102_030405.csv", OutputName("export", now))
}
