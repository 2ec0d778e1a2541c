package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/psqlbuilder"
)

const (
	bookingsTable = "bookings"
	outboxTable   = "booking_events_outbox"
)

// Repository репозиторий бронирований в PostgreSQL
// Бронирование хранится одним JSONB документом; status, revision и email вынесены в колонки для фильтрации
type Repository struct {
	db        DBExecutor
	txManager TransactionManager
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, txManager TransactionManager) *Repository {
	return &Repository{db: db, txManager: txManager}
}

// Create сохраняет новое бронирование и присваивает ему последовательный requestId
// Новые события журнала в той же транзакции пишутся в outbox
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.Revision = 1

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		document, err := json.Marshal(booking)
		if err != nil {
			return fmt.Errorf("%w: Create: %v", ErrEncodeDocument, err)
		}

		query, args, err := psqlbuilder.Insert(bookingsTable).
			Columns("id", "status", "revision", "customer_email", "feedback_token", "document", "created_at", "updated_at").
			Values(booking.ID, booking.Status, booking.Revision, booking.Customer.Email, booking.FeedbackToken,
				string(document), booking.CreatedAt, booking.UpdatedAt).
			Suffix("RETURNING request_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(txCtx, query, args...).Scan(&booking.RequestID); err != nil {
			return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
		}

		return r.insertOutbox(txCtx, executor, booking)
	})
	if err != nil {
		return err
	}

	booking.MarkPersisted()
	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("request_id", "revision", "document").
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}

	return booking, nil
}

// Update записывает новое состояние бронирования, если ревизия в БД совпадает с ревизией документа
// При успехе ревизия увеличивается на единицу
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	expected := booking.Revision
	booking.Revision = expected + 1

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		document, err := json.Marshal(booking)
		if err != nil {
			return fmt.Errorf("%w: Update: %v", ErrEncodeDocument, err)
		}

		query, args, err := psqlbuilder.Update(bookingsTable).
			Set("status", booking.Status).
			Set("revision", booking.Revision).
			Set("customer_email", booking.Customer.Email).
			Set("feedback_token", booking.FeedbackToken).
			Set("document", string(document)).
			Set("updated_at", booking.UpdatedAt).
			Where(squirrel.Eq{"id": booking.ID, "revision": expected}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(txCtx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: Update - rows affected: %v", ErrExecQuery, err)
		}
		if rows == 0 {
			return r.missOrConflict(txCtx, executor, booking.ID, expected)
		}

		return r.insertOutbox(txCtx, executor, booking)
	})
	if err != nil {
		booking.Revision = expected
		return err
	}

	booking.MarkPersisted()
	return nil
}

// List получает бронирования по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("request_id", "revision", "document").
		From(bookingsTable).
		OrderBy("created_at DESC", "request_id DESC")

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.CustomerEmail != nil {
		builder = builder.Where(squirrel.Eq{"customer_email": *filter.CustomerEmail})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	builder = builder.Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func (r *Repository) missOrConflict(ctx context.Context, executor DBExecutor, id string, expected int64) error {
	query, args, err := psqlbuilder.Select("revision").
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build revision query: %v", ErrBuildQuery, err)
	}

	var current int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: Update - read revision: %v", ErrExecQuery, err)
	}

	return &domain.ConcurrentModificationError{BookingID: id, ExpectedRevision: expected}
}

func (r *Repository) insertOutbox(ctx context.Context, executor DBExecutor, booking *domain.Booking) error {
	events := booking.PendingEvents()
	if len(events) == 0 {
		return nil
	}

	builder := psqlbuilder.Insert(outboxTable).Columns("booking_id", "event", "payload", "created_at")
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("%w: outbox event %s: %v", ErrEncodeDocument, event.Event(), err)
		}
		builder = builder.Values(booking.ID, string(event.Event()), string(payload), event.Timestamp)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: outbox - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: outbox - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		requestID int64
		revision  int64
		document  []byte
	)

	if err := row.Scan(&requestID, &revision, &document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
	}

	var booking domain.Booking
	if err := json.Unmarshal(document, &booking); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeDocument, err)
	}

	// колонки авторитетнее документа: request_id присваивается базой после вставки
	booking.RequestID = requestID
	booking.Revision = revision
	booking.MarkPersisted()

	return &booking, nil
}

// MarkDispatched отмечает события outbox бронирования до момента until как доставленные
func (r *Repository) MarkDispatched(ctx context.Context, bookingID string, until time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(outboxTable).
		Set("dispatched_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "dispatched_at": nil}).
		Where(squirrel.LtOrEq{"created_at": until}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkDispatched - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkDispatched - execute update: %v", ErrExecQuery, err)
	}
	return nil
}
