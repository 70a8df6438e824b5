package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the persistence surface the services are built against.
// The sqlite store in internal/database implements all of it.
type Repository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error
	GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error)
	GetBookingsByItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error)
	ListBookingsByBooker(ctx context.Context, bookerID int64, filter models.StateFilter, now time.Time, page models.Page) ([]*models.Booking, error)
	ListBookingsByItems(ctx context.Context, itemIDs []int64, filter models.StateFilter, now time.Time, page models.Page) ([]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetItemExcludingOwner(ctx context.Context, id, ownerID int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)

	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
	GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByUser(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	ListRequestsExcept(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error)
}

// Clock supplies wall-clock time so temporal filters are testable.
type Clock interface {
	Now() time.Time
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ListingCache holds rendered annotated listings keyed by owner.
type ListingCache interface {
	GetListing(ctx context.Context, ownerID int64) ([]*models.AnnotatedItem, error)
	SetListing(ctx context.Context, ownerID int64, items []*models.AnnotatedItem) error
	InvalidateListing(ctx context.Context, ownerID int64) error
}

type BookingService interface {
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*models.Booking, error)
	Get(ctx context.Context, actorID, bookingID int64) (*models.Booking, error)
	ListForBooker(ctx context.Context, bookerID int64, filter models.StateFilter, page models.Page) ([]*models.Booking, error)
	ListForOwner(ctx context.Context, ownerID int64, filter models.StateFilter, page models.Page) ([]*models.Booking, error)
	IsBookable(ctx context.Context, itemID int64, start, end time.Time) (bool, error)
}

type ItemService interface {
	Add(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, ownerID, itemID int64, update models.ItemUpdate) (*models.Item, error)
	Get(ctx context.Context, actorID, itemID int64) (*models.AnnotatedItem, error)
	ListOwned(ctx context.Context, ownerID int64) ([]*models.AnnotatedItem, error)
	Search(ctx context.Context, actorID int64, text string) ([]*models.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, update models.UserUpdate) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.User, error)
}

type RequestService interface {
	Add(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error)
	ListOwn(ctx context.Context, requesterID int64) ([]*models.RequestWithItems, error)
	ListOthers(ctx context.Context, requesterID int64, page models.Page) ([]*models.ItemRequest, error)
	Get(ctx context.Context, actorID, requestID int64) (*models.RequestWithItems, error)
}
