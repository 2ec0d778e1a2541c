package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

const (
	bookingPrefix   = "booking/"
	requestIDSeqKey = "seq/request_id"
	seqBandwidth    = 100
)

var (
	// ErrEncodeDocument возвращается, когда документ бронирования не удалось сериализовать
	ErrEncodeDocument = errors.New("badgerstore: failed to encode document")

	// ErrDecodeDocument возвращается, когда сохраненный документ не удалось разобрать
	ErrDecodeDocument = errors.New("badgerstore: failed to decode document")

	// ErrStorage возвращается при ошибках badger
	ErrStorage = errors.New("badgerstore: storage error")

	// ErrAlreadyExists бронирование с таким id уже сохранено
	ErrAlreadyExists = errors.New("badgerstore: booking already exists")
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Open открывает badger в каталоге path; пустой path - хранилище в памяти
func Open(path string, log Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{log: log})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrStorage, path, err)
	}
	return db, nil
}

// Store хранилище бронирований во встроенной badger БД: один JSON документ на ключ booking/<id>
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStore создает хранилище поверх открытой БД
func NewStore(db *badger.DB) (*Store, error) {
	seq, err := db.GetSequence([]byte(requestIDSeqKey), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("%w: request id sequence: %v", ErrStorage, err)
	}
	return &Store{db: db, seq: seq}, nil
}

// Close освобождает выделенный диапазон последовательности
func (s *Store) Close() error {
	return s.seq.Release()
}

func bookingKey(id string) []byte {
	return []byte(bookingPrefix + id)
}

// Create сохраняет новое бронирование и присваивает ему requestId
func (s *Store) Create(_ context.Context, booking *domain.Booking) error {
	next, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("%w: next request id: %v", ErrStorage, err)
	}
	booking.RequestID = int64(next) + 1
	booking.Revision = 1

	document, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("%w: Create: %v", ErrEncodeDocument, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(bookingKey(booking.ID)); err == nil {
			return fmt.Errorf("%w: id=%s", ErrAlreadyExists, booking.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(bookingKey(booking.ID), document)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("%w: Create: %v", ErrStorage, err)
	}

	booking.MarkPersisted()
	return nil
}

// GetByID получает бронирование по ID
func (s *Store) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	var booking *domain.Booking

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookingKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			booking, err = decode(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, id)
	}
	if err != nil {
		if errors.Is(err, ErrDecodeDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: GetByID: %v", ErrStorage, err)
	}

	return booking, nil
}

// Update записывает документ, если сохраненная ревизия совпадает с ревизией документа
// Параллельная запись того же ключа отклоняется badger при коммите (ErrConflict)
func (s *Store) Update(_ context.Context, booking *domain.Booking) error {
	expected := booking.Revision
	booking.Revision = expected + 1

	document, err := json.Marshal(booking)
	if err != nil {
		booking.Revision = expected
		return fmt.Errorf("%w: Update: %v", ErrEncodeDocument, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(bookingKey(booking.ID))
		if err != nil {
			return err
		}

		var stored struct {
			Revision int64 `json:"revision"`
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeDocument, err)
		}

		if stored.Revision != expected {
			return &domain.ConcurrentModificationError{BookingID: booking.ID, ExpectedRevision: expected}
		}

		return txn.Set(bookingKey(booking.ID), document)
	})
	if err != nil {
		booking.Revision = expected
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("%w: id=%s", domain.ErrBookingNotFound, booking.ID)
		case errors.Is(err, badger.ErrConflict):
			return &domain.ConcurrentModificationError{BookingID: booking.ID, ExpectedRevision: expected}
		case errors.Is(err, domain.ErrConcurrentModification), errors.Is(err, ErrDecodeDocument):
			return err
		default:
			return fmt.Errorf("%w: Update: %v", ErrStorage, err)
		}
	}

	booking.MarkPersisted()
	return nil
}

// List получает бронирования по фильтру, новые первыми
func (s *Store) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookingPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				booking, err := decode(val)
				if err != nil {
					return err
				}
				if filter.Matches(booking) {
					bookings = append(bookings, booking)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDecodeDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: List: %v", ErrStorage, err)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].RequestID > bookings[j].RequestID
	})

	return paginate(bookings, filter), nil
}

func paginate(bookings []*domain.Booking, filter domain.BookingFilter) []*domain.Booking {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	if filter.Offset >= len(bookings) {
		return []*domain.Booking{}
	}
	end := filter.Offset + limit
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[filter.Offset:end]
}

func decode(val []byte) (*domain.Booking, error) {
	var booking domain.Booking
	if err := json.Unmarshal(val, &booking); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeDocument, err)
	}
	booking.MarkPersisted()
	return &booking, nil
}

// badgerLogger адаптирует логгер сервиса к badger.Logger
type badgerLogger struct {
	log Logger
}

func (l badgerLogger) Errorf(format string, v ...interface{})   { l.log.Error("Badger: "+format, v...) }
func (l badgerLogger) Warningf(format string, v ...interface{}) { l.log.Warn("Badger: "+format, v...) }
func (l badgerLogger) Infof(format string, v ...interface{})    { l.log.Debug("Badger: "+format, v...) }
func (l badgerLogger) Debugf(format string, v ...interface{})   { l.log.Debug("Badger: "+format, v...) }
