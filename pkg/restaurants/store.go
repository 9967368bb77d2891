package restaurants

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested entity does not exist
var ErrNotFound = errors.New("not found")

// RestaurantStore manages restaurants and their owner links
type RestaurantStore interface {
	ListRestaurants(ctx context.Context) ([]*Restaurant, error)
	ListRestaurantsByOwner(ctx context.Context, userID string) ([]*Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*Restaurant, error)
	// CreateRestaurant inserts the restaurant and links ownerID as its first owner
	CreateRestaurant(ctx context.Context, r *Restaurant, ownerID string) error
	UpdateRestaurant(ctx context.Context, id string, updates *UpdateRestaurantRequest) (*Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error

	ListOwners(ctx context.Context, restaurantID string) ([]*RestaurantOwner, error)
	AddOwner(ctx context.Context, restaurantID, userID string) (*RestaurantOwner, error)
	IsOwner(ctx context.Context, restaurantID, userID string) (bool, error)
}

// MenuStore manages menus
type MenuStore interface {
	ListMenus(ctx context.Context, restaurantID string) ([]*Menu, error)
	// GetMenu returns the menu with Restaurant set, or nil Restaurant when the parent is gone
	GetMenu(ctx context.Context, id string) (*Menu, error)
	CreateMenu(ctx context.Context, m *Menu) error
	UpdateMenu(ctx context.Context, id string, updates *UpdateMenuRequest) (*Menu, error)
	DeleteMenu(ctx context.Context, id string) error
}

// ItemStore manages menu items
type ItemStore interface {
	ListItems(ctx context.Context, menuID string) ([]*Item, error)
	// GetItem returns the item with Menu and Menu.Restaurant set when they exist
	GetItem(ctx context.Context, id string) (*Item, error)
	// GetItemsForRestaurant returns the items among ids whose menu belongs to restaurantID
	GetItemsForRestaurant(ctx context.Context, restaurantID string, ids []string) ([]*Item, error)
	CreateItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, id string, updates *UpdateItemRequest) (*Item, error)
	SetItemAvailability(ctx context.Context, id string, available bool) (*Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// TableStore manages restaurant tables
type TableStore interface {
	ListTables(ctx context.Context, restaurantID string) ([]*RestaurantTable, error)
	CreateTable(ctx context.Context, t *RestaurantTable) error
	// DeleteTable only deletes a table of restaurantID
	DeleteTable(ctx context.Context, restaurantID, tableID string) error
}

// Store is the complete persistence contract of the service
type Store interface {
	RestaurantStore
	MenuStore
	ItemStore
	TableStore
}
