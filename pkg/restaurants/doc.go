// Package restaurants provides the restaurant data model and its persistence.
//
// # Overview
//
// Everything hangs off a restaurant:
//
//	Restaurant
//	  ├── RestaurantOwner (user id links, at least one per restaurant)
//	  ├── RestaurantTable
//	  └── Menu
//	        └── Item
//
// Deleting a restaurant deletes its owners, tables, menus and their items.
// Deleting a menu deletes its items.
//
// # Stores
//
// PostgresStore is the production Store. Reads go to a replica when a
// postgres.ConnectionManager with replicas is supplied, writes always go to
// the primary. MemoryStore keeps everything in process maps.
//
// Lookups of a missing entity return ErrNotFound:
//
//	item, err := store.GetItem(ctx, id)
//	if errors.Is(err, restaurants.ErrNotFound) {
//		// 404
//	}
//
// GetItem resolves the item's menu and the menu's restaurant in one round
// trip. A nil Item.Menu or Menu.Restaurant means the parent row is gone.
//
// # Creating a Restaurant
//
// The creator becomes the first owner in the same transaction:
//
//	r := &restaurants.Restaurant{Name: "Chez Go"}
//	if err := store.CreateRestaurant(ctx, r, identity.Subject); err != nil {
//		return err
//	}
package restaurants
