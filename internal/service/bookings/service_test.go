package bookings

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildmate-lk/BookingService/internal/domain"
	bookingRepo "github.com/buildmate-lk/BookingService/internal/infra/storage/booking"
	"github.com/buildmate-lk/BookingService/internal/integrations/userservice"
	"github.com/buildmate-lk/BookingService/internal/service/bookings/models"
)

// fakeBookingRepo in-memory реализация BookingRepository с условными
// обновлениями, повторяющими семантику conditional UPDATE в PostgreSQL
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		nextID:   1,
		bookings: make(map[int64]*domain.Booking),
	}
}

func (r *fakeBookingRepo) add(b *domain.Booking) *domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	copied.ID = r.nextID
	r.nextID++
	r.bookings[copied.ID] = &copied
	result := copied
	return &result
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) ListPending(ctx context.Context) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.Status == domain.StatusPending {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PreferredStart.Equal(out[j].PreferredStart) {
			return out[i].PreferredStart.Before(out[j].PreferredStart)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeBookingRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Booking, error) {
	return r.listBy(func(b *domain.Booking) bool { return b.CustomerID == customerID })
}

func (r *fakeBookingRepo) ListByTechnician(ctx context.Context, technicianID int64) ([]*domain.Booking, error) {
	return r.listBy(func(b *domain.Booking) bool { return b.IsAssignedTo(technicianID) })
}

func (r *fakeBookingRepo) listBy(match func(*domain.Booking) bool) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if match(b) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeBookingRepo) AssignTechnician(ctx context.Context, id, technicianID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != domain.StatusPending || b.TechnicianID != nil {
		return bookingRepo.ErrNoRowsUpdated
	}
	assigned := technicianID
	b.TechnicianID = &assigned
	b.Status = domain.StatusAccepted
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrNoRowsUpdated
	}
	b.Status = to
	return nil
}

func (r *fakeBookingRepo) Complete(ctx context.Context, id int64, from domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrNoRowsUpdated
	}
	now := time.Now()
	b.Status = domain.StatusCompleted
	b.WorkCompletionTime = &now
	return nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrNoRowsUpdated
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	return nil
}

// fakeUserClient возвращает предзаданные имена пользователей
type fakeUserClient struct {
	names map[int64]string
}

func (c *fakeUserClient) GetUser(ctx context.Context, userID int64) (*userservice.User, error) {
	name, ok := c.names[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return &userservice.User{ID: userID, DisplayName: name}, nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(names map[int64]string) (*Service, *fakeBookingRepo) {
	repo := newFakeBookingRepo()
	svc := NewService(repo, &fakeUserClient{names: names}, &fakeTxManager{}, nopLogger{})
	return svc, repo
}

func pendingBooking(customerID int64) *domain.Booking {
	return &domain.Booking{
		CustomerID:     customerID,
		ServiceID:      5,
		AddressID:      7,
		Status:         domain.StatusPending,
		Description:    "fix kitchen sink",
		Quantity:       1,
		PreferredStart: time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		PreferredEnd:   time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
		TotalAmount:    1500,
	}
}

func acceptedBooking(customerID, technicianID int64) *domain.Booking {
	b := pendingBooking(customerID)
	b.Status = domain.StatusAccepted
	b.TechnicianID = &technicianID
	return b
}

func TestAccept_Success(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(pendingBooking(10))

	resp, err := svc.Accept(context.Background(), 20, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusAccepted), resp.Status)
	require.NotNil(t, resp.TechnicianID)
	assert.Equal(t, int64(20), *resp.TechnicianID)
}

func TestAccept_ConcurrentSingleWinner(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(pendingBooking(10))

	const technicians = 16
	var wg sync.WaitGroup
	errs := make([]error, technicians)

	for i := 0; i < technicians; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = svc.Accept(context.Background(), int64(100+slot), created.ID)
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyAssigned)
		losers++
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, technicians-1, losers)

	final, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, final.Status)
	require.NotNil(t, final.TechnicianID)
}

func TestAccept_NotFound(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.Accept(context.Background(), 20, 999)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestAccept_AlreadyAssigned(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))

	_, err := svc.Accept(context.Background(), 21, created.ID)
	require.ErrorIs(t, err, ErrAlreadyAssigned)

	// Назначение не перезаписано
	final, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, final.TechnicianID)
	assert.Equal(t, int64(20), *final.TechnicianID)
}

func TestUpdateStatus_FullLifecycle(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))
	tech := domain.Actor{ID: 20, Role: domain.RoleTechnician}

	resp, err := svc.UpdateStatus(context.Background(), created.ID, &models.UpdateStatusRequest{
		Actor:  tech,
		Status: string(domain.StatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), resp.Status)

	resp, err = svc.UpdateStatus(context.Background(), created.ID, &models.UpdateStatusRequest{
		Actor:  tech,
		Status: string(domain.StatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.NotNil(t, resp.WorkCompletionTime)
}

func TestUpdateStatus_AcceptedTargetRejected(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(pendingBooking(10))

	// Назначение техника только через Accept
	_, err := svc.UpdateStatus(context.Background(), created.ID, &models.UpdateStatusRequest{
		Actor:  domain.Actor{ID: 20, Role: domain.RoleTechnician},
		Status: string(domain.StatusAccepted),
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(pendingBooking(10))

	_, err := svc.UpdateStatus(context.Background(), created.ID, &models.UpdateStatusRequest{
		Actor:  domain.Actor{ID: 20, Role: domain.RoleTechnician},
		Status: "done",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_SkipTransitionRejected(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))

	// accepted -> completed минуя in_progress запрещён
	_, err := svc.UpdateStatus(context.Background(), created.ID, &models.UpdateStatusRequest{
		Actor:  domain.Actor{ID: 20, Role: domain.RoleTechnician},
		Status: string(domain.StatusCompleted),
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_ForeignTechnicianDenied(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))

	_, err := svc.UpdateStatus(context.Background(), created.ID, &models.UpdateStatusRequest{
		Actor:  domain.Actor{ID: 21, Role: domain.RoleTechnician},
		Status: string(domain.StatusInProgress),
	})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateStatus_TerminalImmutable(t *testing.T) {
	svc, repo := newTestService(nil)
	tech := int64(20)

	completed := pendingBooking(10)
	completed.Status = domain.StatusCompleted
	completed.TechnicianID = &tech
	created := repo.add(completed)

	_, err := svc.Cancel(context.Background(), created.ID, &models.CancelBookingRequest{
		Actor: domain.Actor{ID: 20, Role: domain.RoleTechnician},
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_PendingByOwner(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(pendingBooking(10))
	reason := "changed my mind"

	resp, err := svc.Cancel(context.Background(), created.ID, &models.CancelBookingRequest{
		Actor:              domain.Actor{ID: 10, Role: domain.RoleCustomer},
		CancellationReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, reason, *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)
}

func TestCancel_PendingByForeignCustomerDenied(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(pendingBooking(10))

	_, err := svc.Cancel(context.Background(), created.ID, &models.CancelBookingRequest{
		Actor: domain.Actor{ID: 11, Role: domain.RoleCustomer},
	})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_AcceptedByCustomerDenied(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))

	// После принятия отмена доступна только назначенному технику
	_, err := svc.Cancel(context.Background(), created.ID, &models.CancelBookingRequest{
		Actor: domain.Actor{ID: 10, Role: domain.RoleCustomer},
	})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_AcceptedByAssignedTechnician(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))

	resp, err := svc.Cancel(context.Background(), created.ID, &models.CancelBookingRequest{
		Actor: domain.Actor{ID: 20, Role: domain.RoleTechnician},
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestGetByID_Visibility(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))

	// Владелец, назначенный техник и админ видят бронирование
	for _, actor := range []domain.Actor{
		{ID: 10, Role: domain.RoleCustomer},
		{ID: 20, Role: domain.RoleTechnician},
		{ID: 1, Role: domain.RoleAdmin},
	} {
		resp, err := svc.GetByID(context.Background(), actor, created.ID)
		require.NoError(t, err, "actor %d role %s", actor.ID, actor.Role)
		assert.Equal(t, created.ID, resp.ID)
	}

	// Чужой клиент и посторонний техник получают not found
	for _, actor := range []domain.Actor{
		{ID: 11, Role: domain.RoleCustomer},
		{ID: 21, Role: domain.RoleTechnician},
	} {
		_, err := svc.GetByID(context.Background(), actor, created.ID)
		require.ErrorIs(t, err, ErrBookingNotFound, "actor %d role %s", actor.ID, actor.Role)
	}
}

func TestGetByID_PendingVisibleToAnyTechnician(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(pendingBooking(10))

	resp, err := svc.GetByID(context.Background(), domain.Actor{ID: 21, Role: domain.RoleTechnician}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
}

func TestGetByID_EnrichesNames(t *testing.T) {
	svc, repo := newTestService(map[int64]string{10: "Nimal Perera", 20: "Kasun Silva"})
	created := repo.add(acceptedBooking(10, 20))

	resp, err := svc.GetByID(context.Background(), domain.Actor{ID: 10, Role: domain.RoleCustomer}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nimal Perera", resp.CustomerName)
	assert.Equal(t, "Kasun Silva", resp.TechnicianName)
}

func TestGetByID_EnrichmentFailureIsNotFatal(t *testing.T) {
	svc, repo := newTestService(nil)
	created := repo.add(acceptedBooking(10, 20))

	resp, err := svc.GetByID(context.Background(), domain.Actor{ID: 10, Role: domain.RoleCustomer}, created.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.CustomerName)
	assert.Empty(t, resp.TechnicianName)
}

func TestListAvailable_PendingSortedByPreferredStart(t *testing.T) {
	svc, repo := newTestService(nil)

	late := pendingBooking(10)
	late.PreferredStart = time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)
	lateCreated := repo.add(late)

	early := pendingBooking(11)
	early.PreferredStart = time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)
	earlyCreated := repo.add(early)

	repo.add(acceptedBooking(12, 20))

	resp, err := svc.ListAvailable(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, earlyCreated.ID, resp.Bookings[0].ID)
	assert.Equal(t, lateCreated.ID, resp.Bookings[1].ID)
	assert.Equal(t, 2, resp.Total)
}

func TestListForCustomer(t *testing.T) {
	svc, repo := newTestService(nil)
	repo.add(pendingBooking(10))
	repo.add(pendingBooking(10))
	repo.add(pendingBooking(11))

	resp, err := svc.ListForCustomer(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestListForTechnician(t *testing.T) {
	svc, repo := newTestService(nil)
	repo.add(acceptedBooking(10, 20))
	repo.add(acceptedBooking(11, 20))
	repo.add(acceptedBooking(12, 21))
	repo.add(pendingBooking(13))

	resp, err := svc.ListForTechnician(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}
