package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	args := m.Called(ctx, bookerID, itemID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*models.Booking, error) {
	args := m.Called(ctx, actorID, bookingID, approve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) Get(ctx context.Context, actorID, bookingID int64) (*models.Booking, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) ListForBooker(ctx context.Context, bookerID int64, filter models.StateFilter, page models.Page) ([]*models.Booking, error) {
	args := m.Called(ctx, bookerID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockBookingService) ListForOwner(ctx context.Context, ownerID int64, filter models.StateFilter, page models.Page) ([]*models.Booking, error) {
	args := m.Called(ctx, ownerID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockBookingService) IsBookable(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, itemID, start, end)
	return args.Bool(0), args.Error(1)
}

type mockItemService struct {
	mock.Mock
}

func (m *mockItemService) Add(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	args := m.Called(ctx, ownerID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItemService) Update(ctx context.Context, ownerID, itemID int64, update models.ItemUpdate) (*models.Item, error) {
	args := m.Called(ctx, ownerID, itemID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItemService) Get(ctx context.Context, actorID, itemID int64) (*models.AnnotatedItem, error) {
	args := m.Called(ctx, actorID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnnotatedItem), args.Error(1)
}

func (m *mockItemService) ListOwned(ctx context.Context, ownerID int64) ([]*models.AnnotatedItem, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AnnotatedItem), args.Error(1)
}

func (m *mockItemService) Search(ctx context.Context, actorID int64, text string) ([]*models.Item, error) {
	args := m.Called(ctx, actorID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *mockItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	args := m.Called(ctx, authorID, itemID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id int64, update models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type mockRequestService struct {
	mock.Mock
}

func (m *mockRequestService) Add(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	args := m.Called(ctx, requesterID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequest), args.Error(1)
}

func (m *mockRequestService) ListOwn(ctx context.Context, requesterID int64) ([]*models.RequestWithItems, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RequestWithItems), args.Error(1)
}

func (m *mockRequestService) ListOthers(ctx context.Context, requesterID int64, page models.Page) ([]*models.ItemRequest, error) {
	args := m.Called(ctx, requesterID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ItemRequest), args.Error(1)
}

func (m *mockRequestService) Get(ctx context.Context, actorID, requestID int64) (*models.RequestWithItems, error) {
	args := m.Called(ctx, actorID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestWithItems), args.Error(1)
}

type serverMocks struct {
	bookings *mockBookingService
	items    *mockItemService
	users    *mockUserService
	requests *mockRequestService
}

func newTestServer(cfg config.HTTPConfig) (*HTTPServer, *serverMocks) {
	logger := zerolog.New(io.Discard)
	m := &serverMocks{
		bookings: new(mockBookingService),
		items:    new(mockItemService),
		users:    new(mockUserService),
		requests: new(mockRequestService),
	}
	srv := NewHTTPServer(cfg, m.bookings, m.items, m.users, m.requests, &logger)
	return srv, m
}

// doRequest drives the full middleware-wrapped handler. userID 0 means no
// identity header.
func doRequest(t *testing.T, srv *HTTPServer, method, target string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID > 0 {
		req.Header.Set(userHeader, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	decodeBody(t, rec, &payload)
	return payload["error"]
}
