package restaurants

import "time"

// Restaurant is the root of the ownership hierarchy
type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RestaurantOwner links a user identity to a restaurant
type RestaurantOwner struct {
	RestaurantID string    `json:"restaurantId"`
	UserID       string    `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RestaurantTable is a physical table at a restaurant
type RestaurantTable struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Menu belongs to exactly one restaurant.
// StartTime and EndTime are optional "HH:MM" times of day.
type Menu struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Name         string    `json:"name"`
	StartTime    *string   `json:"startTime"`
	EndTime      *string   `json:"endTime"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Restaurant is set by lookups that resolve the parent; nil when it is missing
	Restaurant *Restaurant `json:"-"`
	Items      []*Item     `json:"items,omitempty"`
}

// Item belongs to exactly one menu
type Item struct {
	ID          string    `json:"id"`
	MenuID      string    `json:"menuId"`
	DisplayName string    `json:"displayName"`
	ShortName   string    `json:"shortName"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Menu is set by GetItem, with its Restaurant; nil when the menu is missing
	Menu *Menu `json:"-"`
}

// CreateRestaurantRequest is the body of a restaurant creation
type CreateRestaurantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateRestaurantRequest carries a partial restaurant update
type UpdateRestaurantRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateMenuRequest is the body of a menu creation
type CreateMenuRequest struct {
	Name      string  `json:"name"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// UpdateMenuRequest carries a partial menu update
type UpdateMenuRequest struct {
	Name      *string `json:"name,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// CreateItemRequest is the body of an item creation
type CreateItemRequest struct {
	DisplayName string  `json:"displayName"`
	ShortName   string  `json:"shortName"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}

// UpdateItemRequest carries a partial item update
type UpdateItemRequest struct {
	DisplayName *string  `json:"displayName,omitempty"`
	ShortName   *string  `json:"shortName,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// UpdateAvailabilityRequest toggles item availability.
// Anything other than a literal true marks the item unavailable.
type UpdateAvailabilityRequest struct {
	IsAvailable interface{} `json:"isAvailable"`
}

// Available reports whether the request asked for availability
func (r *UpdateAvailabilityRequest) Available() bool {
	b, ok := r.IsAvailable.(bool)
	return ok && b
}

// CreateTableRequest is the body of a table creation
type CreateTableRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// AddOwnerRequest adds a co-owner to a restaurant
type AddOwnerRequest struct {
	UserID string `json:"userId"`
}

// IsEmpty reports whether the update changes nothing
func (u *UpdateRestaurantRequest) IsEmpty() bool {
	return u.Name == nil && u.Description == nil
}

// IsEmpty reports whether the update changes nothing
func (u *UpdateMenuRequest) IsEmpty() bool {
	return u.Name == nil && u.StartTime == nil && u.EndTime == nil
}

// IsEmpty reports whether the update changes nothing
func (u *UpdateItemRequest) IsEmpty() bool {
	return u.DisplayName == nil && u.ShortName == nil && u.Description == nil && u.Price == nil
}
