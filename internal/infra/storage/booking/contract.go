package booking

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TransactionManager выполняет запись документа и outbox атомарно
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
