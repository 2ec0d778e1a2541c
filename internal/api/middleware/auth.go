package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
)

type contextKey string

const (
	staffIDKey contextKey = "staffID"

	// StaffIDHeader заголовок с идентификатором сотрудника
	StaffIDHeader = "X-Staff-ID"

	msgMissingStaffID = "отсутствует заголовок X-Staff-ID"
	maxStaffIDLength  = 128
)

// Auth пропускает только запросы сотрудников с заголовком X-Staff-ID
// Идентификатор попадает в журнал бронирования как processedBy
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID := strings.TrimSpace(r.Header.Get(StaffIDHeader))
		if staffID == "" || len(staffID) > maxStaffIDLength {
			handlers.RespondUnauthorized(w, msgMissingStaffID)
			return
		}

		ctx := context.WithValue(r.Context(), staffIDKey, staffID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetStaffID извлекает идентификатор сотрудника из контекста
func GetStaffID(ctx context.Context) (string, bool) {
	staffID, ok := ctx.Value(staffIDKey).(string)
	return staffID, ok && staffID != ""
}

// WithStaffID кладет идентификатор сотрудника в контекст (для тестов handlers)
func WithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffIDKey, staffID)
}
