package booking

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

var bookingColumns = []string{
	"id",
	"customer_id",
	"technician_id",
	"service_id",
	"address_id",
	"status",
	"description",
	"quantity",
	"preferred_start",
	"preferred_end",
	"booking_date",
	"total_amount",
	"service_name",
	"fixed_rate",
	"estimated_duration_hours",
	"reference_image",
	"cancellation_reason",
	"cancelled_at",
	"work_completion_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"technician_id",
			"service_id",
			"address_id",
			"status",
			"description",
			"quantity",
			"preferred_start",
			"preferred_end",
			"booking_date",
			"total_amount",
			"service_name",
			"fixed_rate",
			"estimated_duration_hours",
			"reference_image",
		).
		Values(
			b.CustomerID,
			b.TechnicianID,
			b.ServiceID,
			b.AddressID,
			b.Status,
			b.Description,
			b.Quantity,
			b.PreferredStart,
			b.PreferredEnd,
			b.BookingDate,
			b.TotalAmount,
			b.ServiceName,
			b.FixedRate,
			b.EstimatedDurationHours,
			b.ReferenceImage,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции добавляет FOR UPDATE, чтобы проверка перехода и запись
// статуса выполнялись над зафиксированной строкой.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// ListPending возвращает бронирования в статусе pending по возрастанию
// preferred_start: раньше запрошенные работы показываются первыми
func (r *Repository) ListPending(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		OrderBy("preferred_start ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListByCustomer возвращает историю бронирований клиента (новые первыми)
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Booking, error) {
	return r.listBy(ctx, "ListByCustomer", squirrel.Eq{"customer_id": customerID})
}

// ListByTechnician возвращает бронирования, назначенные технику (новые первыми)
func (r *Repository) ListByTechnician(ctx context.Context, technicianID int64) ([]*domain.Booking, error) {
	return r.listBy(ctx, "ListByTechnician", squirrel.Eq{"technician_id": technicianID})
}

func (r *Repository) listBy(ctx context.Context, method string, where squirrel.Eq) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		OrderBy("booking_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// AssignTechnician атомарно назначает техника на pending-бронирование:
// UPDATE ... WHERE id = ? AND status = 'pending' AND technician_id IS NULL.
// Из N конкурентных вызовов ровно один затронет строку; остальные получают
// ErrNoRowsUpdated.
func (r *Repository) AssignTechnician(ctx context.Context, id, technicianID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("technician_id", technicianID).
		Set("status", domain.StatusAccepted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		Where("technician_id IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AssignTechnician - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AssignTechnician - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AssignTechnician - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNoRowsUpdated
	}

	return nil
}

// UpdateStatus обновляет статус по принципу compare-and-set:
// строка меняется только если её текущий статус равен from
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	builder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from})

	return r.execConditionalUpdate(ctx, "UpdateStatus", builder)
}

// Complete переводит бронирование в completed и фиксирует время завершения работ
func (r *Repository) Complete(ctx context.Context, id int64, from domain.BookingStatus) error {
	builder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("work_completion_time", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from})

	return r.execConditionalUpdate(ctx, "Complete", builder)
}

// Cancel переводит бронирование в cancelled с указанием причины.
// Физическое удаление не выполняется: терминальные статусы хранятся для истории.
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string) error {
	builder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from})

	return r.execConditionalUpdate(ctx, "Cancel", builder)
}

func (r *Repository) execConditionalUpdate(ctx context.Context, method string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrNoRowsUpdated
	}

	return nil
}

// scanBooking сканирует одну строку в бронирование
func (r *Repository) scanBooking(row *sql.Row, method string) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.TechnicianID,
		&b.ServiceID,
		&b.AddressID,
		&b.Status,
		&b.Description,
		&b.Quantity,
		&b.PreferredStart,
		&b.PreferredEnd,
		&b.BookingDate,
		&b.TotalAmount,
		&b.ServiceName,
		&b.FixedRate,
		&b.EstimatedDurationHours,
		&b.ReferenceImage,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.WorkCompletionTime,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.CustomerID,
			&b.TechnicianID,
			&b.ServiceID,
			&b.AddressID,
			&b.Status,
			&b.Description,
			&b.Quantity,
			&b.PreferredStart,
			&b.PreferredEnd,
			&b.BookingDate,
			&b.TotalAmount,
			&b.ServiceName,
			&b.FixedRate,
			&b.EstimatedDurationHours,
			&b.ReferenceImage,
			&b.CancellationReason,
			&b.CancelledAt,
			&b.WorkCompletionTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
