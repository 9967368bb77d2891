package restaurants

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used for local runs and tests.
// Deletes cascade the same way the database schema does.
type MemoryStore struct {
	mu          sync.RWMutex
	restaurants map[string]*Restaurant
	owners      map[string]map[string]*RestaurantOwner // restaurant id -> user id
	menus       map[string]*Menu
	items       map[string]*Item
	tables      map[string]*RestaurantTable
	now         func() time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		restaurants: make(map[string]*Restaurant),
		owners:      make(map[string]map[string]*RestaurantOwner),
		menus:       make(map[string]*Menu),
		items:       make(map[string]*Item),
		tables:      make(map[string]*RestaurantTable),
		now:         time.Now,
	}
}

func (s *MemoryStore) ListRestaurants(_ context.Context) ([]*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		cp := *r
		out = append(out, &cp)
	}
	sortRestaurants(out)
	return out, nil
}

func (s *MemoryStore) ListRestaurantsByOwner(_ context.Context, userID string) ([]*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Restaurant{}
	for id, links := range s.owners {
		if _, ok := links[userID]; !ok {
			continue
		}
		if r, ok := s.restaurants[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortRestaurants(out)
	return out, nil
}

func sortRestaurants(rs []*Restaurant) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}

func (s *MemoryStore) GetRestaurant(_ context.Context, id string) (*Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) CreateRestaurant(_ context.Context, r *Restaurant, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := s.now()
	r.CreatedAt, r.UpdatedAt = now, now

	cp := *r
	s.restaurants[r.ID] = &cp
	s.owners[r.ID] = map[string]*RestaurantOwner{
		ownerID: {RestaurantID: r.ID, UserID: ownerID, CreatedAt: now},
	}
	return nil
}

func (s *MemoryStore) UpdateRestaurant(_ context.Context, id string, updates *UpdateRestaurantRequest) (*Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !updates.IsEmpty() {
		if updates.Name != nil {
			r.Name = *updates.Name
		}
		if updates.Description != nil {
			r.Description = *updates.Description
		}
		r.UpdatedAt = s.now()
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) DeleteRestaurant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.restaurants[id]; !ok {
		return ErrNotFound
	}
	delete(s.restaurants, id)
	delete(s.owners, id)
	for tid, t := range s.tables {
		if t.RestaurantID == id {
			delete(s.tables, tid)
		}
	}
	for mid, m := range s.menus {
		if m.RestaurantID == id {
			s.deleteMenuLocked(mid)
		}
	}
	return nil
}

func (s *MemoryStore) ListOwners(_ context.Context, restaurantID string) ([]*RestaurantOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*RestaurantOwner{}
	for _, o := range s.owners[restaurantID] {
		cp := *o
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) AddOwner(_ context.Context, restaurantID, userID string) (*RestaurantOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.restaurants[restaurantID]; !ok {
		return nil, ErrNotFound
	}
	links := s.owners[restaurantID]
	if links == nil {
		links = make(map[string]*RestaurantOwner)
		s.owners[restaurantID] = links
	}
	o, ok := links[userID]
	if !ok {
		o = &RestaurantOwner{RestaurantID: restaurantID, UserID: userID, CreatedAt: s.now()}
		links[userID] = o
	}
	cp := *o
	return &cp, nil
}

func (s *MemoryStore) IsOwner(_ context.Context, restaurantID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.owners[restaurantID][userID]
	return ok, nil
}

func (s *MemoryStore) ListMenus(_ context.Context, restaurantID string) ([]*Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Menu{}
	for _, m := range s.menus {
		if m.RestaurantID == restaurantID {
			out = append(out, copyMenu(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func copyMenu(m *Menu) *Menu {
	cp := *m
	cp.Restaurant = nil
	cp.Items = nil
	return &cp
}

func (s *MemoryStore) GetMenu(_ context.Context, id string) (*Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMenuLocked(id)
}

func (s *MemoryStore) getMenuLocked(id string) (*Menu, error) {
	m, ok := s.menus[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyMenu(m)
	if r, ok := s.restaurants[m.RestaurantID]; ok {
		rc := *r
		cp.Restaurant = &rc
	}
	return cp, nil
}

func (s *MemoryStore) CreateMenu(_ context.Context, m *Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.restaurants[m.RestaurantID]; !ok {
		return ErrNotFound
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := s.now()
	m.CreatedAt, m.UpdatedAt = now, now
	s.menus[m.ID] = copyMenu(m)
	return nil
}

func (s *MemoryStore) UpdateMenu(_ context.Context, id string, updates *UpdateMenuRequest) (*Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.menus[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !updates.IsEmpty() {
		if updates.Name != nil {
			m.Name = *updates.Name
		}
		if updates.StartTime != nil {
			v := *updates.StartTime
			m.StartTime = &v
		}
		if updates.EndTime != nil {
			v := *updates.EndTime
			m.EndTime = &v
		}
		m.UpdatedAt = s.now()
	}
	return copyMenu(m), nil
}

func (s *MemoryStore) DeleteMenu(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menus[id]; !ok {
		return ErrNotFound
	}
	s.deleteMenuLocked(id)
	return nil
}

func (s *MemoryStore) deleteMenuLocked(id string) {
	delete(s.menus, id)
	for iid, it := range s.items {
		if it.MenuID == id {
			delete(s.items, iid)
		}
	}
}

func (s *MemoryStore) ListItems(_ context.Context, menuID string) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Item{}
	for _, it := range s.items {
		if it.MenuID == menuID {
			out = append(out, copyItem(it))
		}
	}
	sortItems(out)
	return out, nil
}

func copyItem(it *Item) *Item {
	cp := *it
	cp.Menu = nil
	return &cp
}

func sortItems(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func (s *MemoryStore) GetItem(_ context.Context, id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyItem(it)
	if m, err := s.getMenuLocked(it.MenuID); err == nil {
		cp.Menu = m
	}
	return cp, nil
}

func (s *MemoryStore) GetItemsForRestaurant(_ context.Context, restaurantID string, ids []string) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Item{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		it, ok := s.items[id]
		if !ok {
			continue
		}
		m, ok := s.menus[it.MenuID]
		if !ok || m.RestaurantID != restaurantID {
			continue
		}
		out = append(out, copyItem(it))
	}
	sortItems(out)
	return out, nil
}

func (s *MemoryStore) CreateItem(_ context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menus[item.MenuID]; !ok {
		return ErrNotFound
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := s.now()
	item.CreatedAt, item.UpdatedAt = now, now
	s.items[item.ID] = copyItem(item)
	return nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, id string, updates *UpdateItemRequest) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !updates.IsEmpty() {
		if updates.DisplayName != nil {
			it.DisplayName = *updates.DisplayName
		}
		if updates.ShortName != nil {
			it.ShortName = *updates.ShortName
		}
		if updates.Description != nil {
			it.Description = *updates.Description
		}
		if updates.Price != nil {
			it.Price = *updates.Price
		}
		it.UpdatedAt = s.now()
	}
	return copyItem(it), nil
}

func (s *MemoryStore) SetItemAvailability(_ context.Context, id string, available bool) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	it.IsAvailable = available
	it.UpdatedAt = s.now()
	return copyItem(it), nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) ListTables(_ context.Context, restaurantID string) ([]*RestaurantTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*RestaurantTable{}
	for _, t := range s.tables {
		if t.RestaurantID == restaurantID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) CreateTable(_ context.Context, t *RestaurantTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.restaurants[t.RestaurantID]; !ok {
		return ErrNotFound
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = s.now()
	cp := *t
	s.tables[t.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteTable(_ context.Context, restaurantID, tableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[tableID]
	if !ok || t.RestaurantID != restaurantID {
		return ErrNotFound
	}
	delete(s.tables, tableID)
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
