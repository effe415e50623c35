package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/buildmate-lk/BookingService/internal/domain"
	"github.com/buildmate-lk/BookingService/pkg/dbmetrics"
	"github.com/buildmate-lk/BookingService/pkg/psqlbuilder"
)

var addressColumns = []string{
	"id",
	"owner_id",
	"street",
	"city",
	"state",
	"postal_code",
	"country",
	"is_default",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с адресами клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория адресов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockOwner блокирует все адреса владельца до конца текущей транзакции (FOR UPDATE).
// Все мутирующие операции над адресами одного владельца сериализуются через эту
// блокировку: конкурентные clear-then-set не могут оставить два default-адреса.
// Вызывать только внутри транзакции.
func (r *Repository) LockOwner(ctx context.Context, ownerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("addresses").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LockOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("%w: LockOwner - scan id: %v", ErrScanRow, err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: LockOwner - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// ListByOwner возвращает адреса владельца: сначала default, затем по возрастанию id
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Address, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(addressColumns...).
		From("addresses").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("is_default DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAddresses(rows)
}

// GetByID получает адрес по id с проверкой владельца.
// Чужой адрес неотличим от несуществующего (ErrAddressNotFound).
// Внутри транзакции добавляет FOR UPDATE.
func (r *Repository) GetByID(ctx context.Context, id, ownerID int64) (*domain.Address, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(addressColumns...).
		From("addresses").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanAddress(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetDefault получает default-адрес владельца
func (r *Repository) GetDefault(ctx context.Context, ownerID int64) (*domain.Address, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(addressColumns...).
		From("addresses").
		Where(squirrel.Eq{"owner_id": ownerID, "is_default": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefault - build select query: %v", ErrBuildQuery, err)
	}

	addr, err := r.scanAddress(executor.QueryRowContext(ctx, query, args...), "GetDefault")
	if errors.Is(err, ErrAddressNotFound) {
		return nil, ErrNoDefaultAddress
	}
	return addr, err
}

// GetFirstByOwner получает адрес владельца с наименьшим id.
// Внутри транзакции добавляет FOR UPDATE (используется при промоушене
// нового default-адреса после удаления).
func (r *Repository) GetFirstByOwner(ctx context.Context, ownerID int64) (*domain.Address, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(addressColumns...).
		From("addresses").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetFirstByOwner - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanAddress(executor.QueryRowContext(ctx, query, args...), "GetFirstByOwner")
}

// CountByOwner возвращает количество адресов владельца
func (r *Repository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("addresses").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByOwner - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByOwner - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ClearDefault снимает флаг default со всех адресов владельца
func (r *Repository) ClearDefault(ctx context.Context, ownerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("addresses").
		Set("is_default", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"owner_id": ownerID, "is_default": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ClearDefault - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ClearDefault - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Create создает новый адрес
func (r *Repository) Create(ctx context.Context, addr *domain.Address) (*domain.Address, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("addresses").
		Columns(
			"owner_id",
			"street",
			"city",
			"state",
			"postal_code",
			"country",
			"is_default",
		).
		Values(
			addr.OwnerID,
			addr.Street,
			addr.City,
			addr.State,
			addr.PostalCode,
			addr.Country,
			addr.IsDefault,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&addr.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	addr.CreatedAt = createdAt.Time
	addr.UpdatedAt = updatedAt.Time

	return addr, nil
}

// Update обновляет поля адреса с проверкой владельца
func (r *Repository) Update(ctx context.Context, addr *domain.Address) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("addresses").
		Set("street", addr.Street).
		Set("city", addr.City).
		Set("state", addr.State).
		Set("postal_code", addr.PostalCode).
		Set("country", addr.Country).
		Set("is_default", addr.IsDefault).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": addr.ID, "owner_id": addr.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// SetDefault устанавливает флаг default на адрес с проверкой владельца
func (r *Repository) SetDefault(ctx context.Context, id, ownerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("addresses").
		Set("is_default", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetDefault - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetDefault - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetDefault - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// Delete удаляет адрес с проверкой владельца.
// Возвращает true, если удалённый адрес был default (промоушен выполняет сервис
// в той же транзакции).
func (r *Repository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("addresses").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		Suffix("RETURNING is_default").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	var wasDefault bool
	err = executor.QueryRowContext(ctx, query, args...).Scan(&wasDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrAddressNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return wasDefault, nil
}

// scanAddress сканирует одну строку в адрес
func (r *Repository) scanAddress(row *sql.Row, method string) (*domain.Address, error) {
	var addr domain.Address
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&addr.ID,
		&addr.OwnerID,
		&addr.Street,
		&addr.City,
		&addr.State,
		&addr.PostalCode,
		&addr.Country,
		&addr.IsDefault,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan address: %v", ErrScanRow, method, err)
	}

	addr.CreatedAt = createdAt.Time
	addr.UpdatedAt = updatedAt.Time

	return &addr, nil
}

// scanAddresses сканирует результаты запроса в слайс адресов
func (r *Repository) scanAddresses(rows *sql.Rows) ([]*domain.Address, error) {
	addresses := make([]*domain.Address, 0)

	for rows.Next() {
		var addr domain.Address
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&addr.ID,
			&addr.OwnerID,
			&addr.Street,
			&addr.City,
			&addr.State,
			&addr.PostalCode,
			&addr.Country,
			&addr.IsDefault,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAddresses - scan row: %v", ErrScanRow, err)
		}

		addr.CreatedAt = createdAt.Time
		addr.UpdatedAt = updatedAt.Time

		addresses = append(addresses, &addr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAddresses - rows error: %v", ErrScanRow, err)
	}

	return addresses, nil
}
