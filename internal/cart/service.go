package cart

import (
	"context"

	"github.com/lukecc25/Flowershop/internal/domain"
)

// CatalogReader is the slice of the catalog the cart needs: existence checks
// and the name/price/photo snapshot taken at add time.
type CatalogReader interface {
	GetFlowerByID(ctx context.Context, id int64) (*domain.Flower, error)
}

// Service implements the cart operations. Every operation loads the cart
// from the store, validates before mutating, recomputes the total and
// persists the result. A failed operation leaves the stored cart untouched.
type Service struct {
	store   *Store
	catalog CatalogReader
}

func NewService(store *Store, catalog CatalogReader) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
	}
}

// Cart returns the session's cart for display.
func (s *Service) Cart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// Count returns the total quantity across the cart, for badge display.
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// Add puts quantity units of a catalog flower into the given bouquet. The
// catalog lookup resolves before the cart is touched, so a nonexistent
// flower never leaves a trace. An item already present in the bouquet with
// the same (id, kind) has its quantity incremented instead of a second
// entry being appended.
func (s *Service) Add(ctx context.Context, sessionID string, flowerID int64, kind string, quantity, bouquetIndex int) (*domain.Cart, error) {
	if kind != domain.ItemKindFlower {
		return nil, ErrInvalidKind
	}
	if quantity < 1 {
		quantity = 1
	}

	flower, err := s.catalog.GetFlowerByID(ctx, flowerID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if bouquetIndex < 0 || bouquetIndex >= len(cart.Bouquets) {
		return nil, ErrInvalidBouquet
	}

	bouquet := &cart.Bouquets[bouquetIndex]
	if existing := findItem(bouquet, flowerID, kind); existing != nil {
		existing.Quantity += quantity
	} else {
		bouquet.Items = append(bouquet.Items, domain.CartItem{
			FlowerID: flowerID,
			Kind:     kind,
			Name:     flower.Name,
			Price:    flower.Price,
			Photo:    flower.Photo,
			Quantity: quantity,
		})
	}

	return s.save(ctx, sessionID, cart)
}

// AddBouquet appends a new empty bouquet named after its position.
func (s *Service) AddBouquet(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.Bouquets = append(cart.Bouquets, domain.Bouquet{
		Name:  domain.BouquetName(len(cart.Bouquets)),
		Items: []domain.CartItem{},
	})

	return s.save(ctx, sessionID, cart)
}

// MoveItem moves exactly one unit of the referenced item between bouquets,
// merging into a matching destination item or appending a fresh one that
// carries over the source's snapshot.
func (s *Service) MoveItem(ctx context.Context, sessionID string, fromBouquet, toBouquet, itemIndex int) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if fromBouquet < 0 || fromBouquet >= len(cart.Bouquets) ||
		toBouquet < 0 || toBouquet >= len(cart.Bouquets) {
		return nil, ErrInvalidReference
	}
	source := &cart.Bouquets[fromBouquet]
	if itemIndex < 0 || itemIndex >= len(source.Items) {
		return nil, ErrInvalidReference
	}

	moved := source.Items[itemIndex]
	if moved.Quantity > 1 {
		source.Items[itemIndex].Quantity--
	} else {
		source.Items = append(source.Items[:itemIndex], source.Items[itemIndex+1:]...)
	}

	dest := &cart.Bouquets[toBouquet]
	if existing := findItem(dest, moved.FlowerID, moved.Kind); existing != nil {
		existing.Quantity++
	} else {
		moved.Quantity = 1
		dest.Items = append(dest.Items, moved)
	}

	return s.save(ctx, sessionID, cart)
}

// UpdateQuantity sets an item's quantity; zero or negative removes the item.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, bouquetIndex, itemIndex, quantity int) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	bouquet, err := itemRef(cart, bouquetIndex, itemIndex)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		bouquet.Items = append(bouquet.Items[:itemIndex], bouquet.Items[itemIndex+1:]...)
	} else {
		bouquet.Items[itemIndex].Quantity = quantity
	}

	return s.save(ctx, sessionID, cart)
}

// UpdateBouquetDescription sets the free-text annotation on a bouquet.
func (s *Service) UpdateBouquetDescription(ctx context.Context, sessionID string, bouquetIndex int, description string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if bouquetIndex < 0 || bouquetIndex >= len(cart.Bouquets) {
		return nil, ErrInvalidReference
	}
	cart.Bouquets[bouquetIndex].Description = description

	return s.save(ctx, sessionID, cart)
}

// RemoveItem deletes an item from a bouquet.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, bouquetIndex, itemIndex int) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	bouquet, err := itemRef(cart, bouquetIndex, itemIndex)
	if err != nil {
		return nil, err
	}
	bouquet.Items = append(bouquet.Items[:itemIndex], bouquet.Items[itemIndex+1:]...)

	return s.save(ctx, sessionID, cart)
}

// RemoveBouquet deletes a bouquet, transferring its items into the first
// remaining bouquet with quantity merge. The sole bouquet is reset instead
// of removed, so the cart never drops to zero bouquets. Remaining bouquets
// are renamed to match their new positions.
func (s *Service) RemoveBouquet(ctx context.Context, sessionID string, bouquetIndex int) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if bouquetIndex < 0 || bouquetIndex >= len(cart.Bouquets) {
		return nil, ErrInvalidReference
	}

	if len(cart.Bouquets) == 1 {
		cart.Bouquets[0] = domain.Bouquet{Name: domain.BouquetName(0), Items: []domain.CartItem{}}
		return s.save(ctx, sessionID, cart)
	}

	transferred := cart.Bouquets[bouquetIndex].Items
	cart.Bouquets = append(cart.Bouquets[:bouquetIndex], cart.Bouquets[bouquetIndex+1:]...)

	target := &cart.Bouquets[0]
	for _, item := range transferred {
		if existing := findItem(target, item.FlowerID, item.Kind); existing != nil {
			existing.Quantity += item.Quantity
		} else {
			target.Items = append(target.Items, item)
		}
	}

	cart.RenumberBouquets()

	return s.save(ctx, sessionID, cart)
}

// Clear resets the cart to a single empty bouquet.
func (s *Service) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart := domain.NewCart(sessionID)
	if err := s.store.Replace(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Discard removes the cart document entirely. Used when the owning
// session is destroyed.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) save(ctx context.Context, sessionID string, cart *domain.Cart) (*domain.Cart, error) {
	cart.RecalculateTotal()
	if err := s.store.Replace(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func findItem(b *domain.Bouquet, flowerID int64, kind string) *domain.CartItem {
	for i := range b.Items {
		if b.Items[i].FlowerID == flowerID && b.Items[i].Kind == kind {
			return &b.Items[i]
		}
	}
	return nil
}

func itemRef(cart *domain.Cart, bouquetIndex, itemIndex int) (*domain.Bouquet, error) {
	if bouquetIndex < 0 || bouquetIndex >= len(cart.Bouquets) {
		return nil, ErrInvalidReference
	}
	bouquet := &cart.Bouquets[bouquetIndex]
	if itemIndex < 0 || itemIndex >= len(bouquet.Items) {
		return nil, ErrInvalidReference
	}
	return bouquet, nil
}
