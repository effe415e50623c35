package addresses

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildmate-lk/BookingService/internal/domain"
	addressRepo "github.com/buildmate-lk/BookingService/internal/infra/storage/address"
	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

// fakeAddressRepo in-memory реализация AddressRepository для тестов
type fakeAddressRepo struct {
	mu        sync.Mutex
	nextID    int64
	addresses map[int64]*domain.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{
		nextID:    1,
		addresses: make(map[int64]*domain.Address),
	}
}

func (r *fakeAddressRepo) LockOwner(ctx context.Context, ownerID int64) error {
	return nil
}

func (r *fakeAddressRepo) byOwnerSorted(ownerID int64) []*domain.Address {
	var out []*domain.Address
	for _, a := range r.addresses {
		if a.OwnerID == ownerID {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeAddressRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byOwnerSorted(ownerID), nil
}

func (r *fakeAddressRepo) GetByID(ctx context.Context, id, ownerID int64) (*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.OwnerID != ownerID {
		return nil, addressRepo.ErrAddressNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAddressRepo) GetDefault(ctx context.Context, ownerID int64) (*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.addresses {
		if a.OwnerID == ownerID && a.IsDefault {
			copied := *a
			return &copied, nil
		}
	}
	return nil, addressRepo.ErrNoDefaultAddress
}

func (r *fakeAddressRepo) GetFirstByOwner(ctx context.Context, ownerID int64) (*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first *domain.Address
	for _, a := range r.addresses {
		if a.OwnerID != ownerID {
			continue
		}
		if first == nil || a.ID < first.ID {
			first = a
		}
	}
	if first == nil {
		return nil, addressRepo.ErrAddressNotFound
	}
	copied := *first
	return &copied, nil
}

func (r *fakeAddressRepo) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, a := range r.addresses {
		if a.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAddressRepo) ClearDefault(ctx context.Context, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.addresses {
		if a.OwnerID == ownerID {
			a.IsDefault = false
		}
	}
	return nil
}

func (r *fakeAddressRepo) Create(ctx context.Context, addr *domain.Address) (*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *addr
	copied.ID = r.nextID
	r.nextID++
	r.addresses[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeAddressRepo) Update(ctx context.Context, addr *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.addresses[addr.ID]
	if !ok || existing.OwnerID != addr.OwnerID {
		return addressRepo.ErrAddressNotFound
	}
	copied := *addr
	r.addresses[addr.ID] = &copied
	return nil
}

func (r *fakeAddressRepo) SetDefault(ctx context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.OwnerID != ownerID {
		return addressRepo.ErrAddressNotFound
	}
	a.IsDefault = true
	return nil
}

func (r *fakeAddressRepo) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.OwnerID != ownerID {
		return false, addressRepo.ErrAddressNotFound
	}
	wasDefault := a.IsDefault
	delete(r.addresses, id)
	return wasDefault, nil
}

// fakeTxManager выполняет функцию без реальной транзакции
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

func newTestService() (*Service, *fakeAddressRepo) {
	repo := newFakeAddressRepo()
	svc := NewService(repo, &fakeTxManager{}, nopLogger{})
	return svc, repo
}

func validFields() models.AddressFields {
	return models.AddressFields{
		Street:     "12 Galle Road",
		City:       "Colombo",
		State:      "Western",
		PostalCode: "00300",
		Country:    "Sri Lanka",
	}
}

// assertSingleDefault проверяет инвариант: ровно один default при наличии адресов
func assertSingleDefault(t *testing.T, repo *fakeAddressRepo, ownerID int64) {
	t.Helper()

	all, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	if len(all) == 0 {
		return
	}

	defaults := 0
	for _, a := range all {
		if a.IsDefault {
			defaults++
		}
	}
	require.Equal(t, 1, defaults, "owner %d must have exactly one default address", ownerID)
}

func TestCreate_FirstAddressForcedDefault(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	// isDefault=false игнорируется для первого адреса
	resp, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields(), IsDefault: false})
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestCreate_SecondAddressNotDefaultByDefault(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	second, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields(), IsDefault: false})
	require.NoError(t, err)

	assert.True(t, first.IsDefault)
	assert.False(t, second.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestCreate_NewDefaultDemotesPrevious(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	second, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields(), IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	reloaded, err := repo.GetByID(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestCreate_EmptyCountryFallsBackToDefault(t *testing.T) {
	svc, _ := newTestService()

	fields := validFields()
	fields.Country = "   "

	resp, err := svc.Create(context.Background(), 1, &models.CreateAddressRequest{Fields: fields})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCountry, resp.Country)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc, repo := newTestService()

	fields := validFields()
	fields.Street = ""

	_, err := svc.Create(context.Background(), 1, &models.CreateAddressRequest{Fields: fields})
	require.ErrorIs(t, err, ErrInvalidInput)

	// Ничего не записано
	count, err := repo.CountByOwner(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreate_OwnersIsolated(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	// Default второго владельца не трогает адреса первого
	_, err = svc.Create(ctx, 2, &models.CreateAddressRequest{Fields: validFields(), IsDefault: true})
	require.NoError(t, err)

	assertSingleDefault(t, repo, 1)
	assertSingleDefault(t, repo, 2)
}

func TestUpdate_CannotDemoteDefault(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	require.True(t, created.IsDefault)

	// isDefault=false на текущем default игнорируется
	updated, err := svc.Update(ctx, created.ID, 1, &models.UpdateAddressRequest{Fields: validFields(), IsDefault: false})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestUpdate_PromotesAndDemotesPrevious(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, second.ID, 1, &models.UpdateAddressRequest{Fields: validFields(), IsDefault: true})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	reloaded, err := repo.GetByID(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestUpdate_WrongOwnerNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, 2, &models.UpdateAddressRequest{Fields: validFields()})
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestSetDefault_Idempotent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		resp, err := svc.SetDefault(ctx, created.ID, 1)
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assertSingleDefault(t, repo, 1)
	}
}

func TestSetDefault_SwitchesDefault(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	resp, err := svc.SetDefault(ctx, second.ID, 1)
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)

	reloaded, err := repo.GetByID(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestSetDefault_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SetDefault(context.Background(), 999, 1)
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDelete_DefaultPromotesLowestID(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	third, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	// first - default; после удаления им становится second (наименьший id)
	require.NoError(t, svc.Delete(ctx, first.ID, 1))

	reloaded, err := repo.GetByID(ctx, second.ID, 1)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)

	other, err := repo.GetByID(ctx, third.ID, 1)
	require.NoError(t, err)
	assert.False(t, other.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestDelete_NonDefaultKeepsDefault(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, second.ID, 1))

	reloaded, err := repo.GetByID(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestDelete_LastAddressLeavesOwnerEmpty(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, 1))

	count, err := repo.CountByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = svc.GetDefault(ctx, 1)
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDelete_WrongOwnerNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, 2)
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestGetDefault_FallsBackToLowestID(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	// Транзиентное состояние без default: fallback на наименьший id
	require.NoError(t, repo.ClearDefault(ctx, 1))

	resp, err := svc.GetDefault(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resp.ID)
}

func TestList_DefaultFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields(), IsDefault: true})
	require.NoError(t, err)

	resp, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, resp.Addresses, 2)
	assert.Equal(t, second.ID, resp.Addresses[0].ID)
	assert.True(t, resp.Addresses[0].IsDefault)
}

func TestCheckOwnership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &models.CreateAddressRequest{Fields: validFields()})
	require.NoError(t, err)

	require.NoError(t, svc.CheckOwnership(ctx, created.ID, 1))
	require.ErrorIs(t, svc.CheckOwnership(ctx, created.ID, 2), ErrAddressNotFound)
	require.ErrorIs(t, svc.CheckOwnership(ctx, 999, 1), ErrAddressNotFound)
}
