package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildmate-lk/BookingService/internal/domain"
	"github.com/buildmate-lk/BookingService/internal/integrations/catalogservice"
	"github.com/buildmate-lk/BookingService/internal/integrations/mediastore"
	addressesService "github.com/buildmate-lk/BookingService/internal/service/addresses"
)

type fakeBookingRepo struct {
	created []*domain.Booking
	err     error
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	copied := *booking
	copied.ID = int64(len(r.created) + 1)
	r.created = append(r.created, &copied)
	result := copied
	return &result, nil
}

type fakeAddressService struct {
	ownedBy map[int64]int64 // addressID -> ownerID
}

func (s *fakeAddressService) CheckOwnership(ctx context.Context, id, ownerID int64) error {
	if s.ownedBy[id] != ownerID {
		return addressesService.ErrAddressNotFound
	}
	return nil
}

type fakeCatalogClient struct {
	services map[int64]*catalogservice.Service
}

func (c *fakeCatalogClient) GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	svc, ok := c.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return svc, nil
}

type fakeMediaClient struct {
	uploads int
	url     string
	err     error
}

func (c *fakeMediaClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	c.uploads++
	if c.err != nil {
		return "", c.err
	}
	return c.url, nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	uc      *UseCase
	repo    *fakeBookingRepo
	media   *fakeMediaClient
	nowTime time.Time
}

func newFixture() *fixture {
	repo := &fakeBookingRepo{}
	media := &fakeMediaClient{url: "https://media.buildmate.lk/files/ref-1.jpg"}
	nowTime := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	uc := NewUseCase(
		repo,
		&fakeAddressService{ownedBy: map[int64]int64{7: 10}},
		&fakeCatalogClient{services: map[int64]*catalogservice.Service{
			5: {ID: 5, Name: "Plumbing Repair", FixedRate: 1000, EstimatedDurationHours: 2, IsActive: true},
		}},
		media,
		&fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: nowTime}

	return &fixture{uc: uc, repo: repo, media: media, nowTime: nowTime}
}

func validRequest() *Request {
	return &Request{
		CustomerID:     10,
		ServiceID:      5,
		AddressID:      7,
		Quantity:       2,
		Description:    "fix leaking pipe under the sink",
		PreferredStart: time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		PreferredEnd:   time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(10), resp.CustomerID)
	assert.Equal(t, "Plumbing Repair", resp.ServiceName)
	assert.Equal(t, f.nowTime, resp.BookingDate)

	// totalAmount = fixedRate x quantity, фиксируется при создании
	assert.Equal(t, float64(2000), resp.TotalAmount)
	assert.Equal(t, float64(1000), resp.FixedRate)

	require.Len(t, f.repo.created, 1)
	assert.Nil(t, f.repo.created[0].TechnicianID)
	assert.Equal(t, domain.StatusPending, f.repo.created[0].Status)
}

func TestExecute_WindowValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"start equals end", func(r *Request) { r.PreferredEnd = r.PreferredStart }},
		{"start after end", func(r *Request) {
			r.PreferredStart, r.PreferredEnd = r.PreferredEnd, r.PreferredStart
		}},
		{"zero start", func(r *Request) { r.PreferredStart = time.Time{} }},
		{"zero end", func(r *Request) { r.PreferredEnd = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	// Валидация провалилась до какой-либо записи
	assert.Empty(t, f.repo.created)
}

func TestExecute_FieldValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero customer", func(r *Request) { r.CustomerID = 0 }},
		{"negative service", func(r *Request) { r.ServiceID = -1 }},
		{"zero address", func(r *Request) { r.AddressID = 0 }},
		{"zero quantity", func(r *Request) { r.Quantity = 0 }},
		{"quantity above max", func(r *Request) { r.Quantity = domain.MaxQuantity + 1 }},
		{"blank description", func(r *Request) { r.Description = "   " }},
		{"image data without name", func(r *Request) {
			r.ReferenceImageData = []byte{0x1}
			r.ReferenceImageName = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	assert.Empty(t, f.repo.created)
}

func TestExecute_ForeignAddressNotFound(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.CustomerID = 11 // адрес 7 принадлежит клиенту 10

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrAddressNotFound)
	assert.Empty(t, f.repo.created)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.ServiceID = 999

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrServiceNotFound)
	assert.Empty(t, f.repo.created)
}

func TestExecute_WithReferenceImage(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.ReferenceImageName = "leak.jpg"
	req.ReferenceImageData = []byte("fake image bytes")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.media.uploads)
	require.NotNil(t, resp.ReferenceImage)
	assert.Equal(t, "https://media.buildmate.lk/files/ref-1.jpg", *resp.ReferenceImage)
}

func TestExecute_WithoutImageSkipsUpload(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, f.media.uploads)
	assert.Nil(t, resp.ReferenceImage)
}

func TestExecute_ImageUploadFailure(t *testing.T) {
	f := newFixture()
	f.media.err = mediastore.ErrUploadFailed

	req := validRequest()
	req.ReferenceImageName = "leak.jpg"
	req.ReferenceImageData = []byte("fake image bytes")

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrImageUploadFailed)

	// Провал загрузки не оставляет частичных записей
	assert.Empty(t, f.repo.created)
}

func TestExecute_RepositoryFailure(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrInternal)
}
