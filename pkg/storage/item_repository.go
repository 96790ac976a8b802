package storage

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

// ItemEvent types.
const (
	ItemCreated = "item.created"
	ItemUpdated = "item.updated"
	ItemDeleted = "item.deleted"
)

// ItemEvent describes a change to the item store.
type ItemEvent struct {
	Type   string    `json:"type"`
	ItemID string    `json:"itemId"`
	At     time.Time `json:"at"`
}

// ItemEventHandler receives store changes. Handlers run synchronously on the
// writer's goroutine and must not block.
type ItemEventHandler func(ItemEvent)

// InMemoryItemRepository is the process-owned item store. Reads return
// copies so callers never observe a partially applied write.
type InMemoryItemRepository struct {
	mu       sync.RWMutex
	items    map[string]planning.WorkItem
	order    []string
	handlers []ItemEventHandler
	now      func() time.Time
}

// NewInMemoryItemRepository creates an empty store.
func NewInMemoryItemRepository() *InMemoryItemRepository {
	return &InMemoryItemRepository{
		items: make(map[string]planning.WorkItem),
		now:   time.Now,
	}
}

// Subscribe registers a handler for item events.
func (r *InMemoryItemRepository) Subscribe(handler ItemEventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handler)
}

func (r *InMemoryItemRepository) Save(item planning.WorkItem) error {
	if item.ID == "" {
		return &planning.ValidationError{Field: "id", Message: "must not be empty"}
	}

	r.mu.Lock()
	_, exists := r.items[item.ID]
	r.items[item.ID] = copyItem(item)
	if !exists {
		r.order = append(r.order, item.ID)
	}
	r.mu.Unlock()

	eventType := ItemUpdated
	if !exists {
		eventType = ItemCreated
	}
	r.publish(ItemEvent{Type: eventType, ItemID: item.ID, At: r.now()})
	return nil
}

func (r *InMemoryItemRepository) Get(id string) (planning.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return planning.WorkItem{}, planning.ErrItemNotFound
	}
	return copyItem(item), nil
}

// Update holds the write lock while fn runs, so fn must not call back into
// the repository.
func (r *InMemoryItemRepository) Update(id string, fn func(*planning.WorkItem) error) (planning.WorkItem, error) {
	r.mu.Lock()
	current, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return planning.WorkItem{}, planning.ErrItemNotFound
	}
	item := copyItem(current)
	if err := fn(&item); err != nil {
		r.mu.Unlock()
		return planning.WorkItem{}, err
	}
	item.ID = id
	r.items[id] = copyItem(item)
	r.mu.Unlock()

	r.publish(ItemEvent{Type: ItemUpdated, ItemID: id, At: r.now()})
	return item, nil
}

func (r *InMemoryItemRepository) Delete(id string) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return planning.ErrItemNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.publish(ItemEvent{Type: ItemDeleted, ItemID: id, At: r.now()})
	return nil
}

// List returns every item in insertion order.
func (r *InMemoryItemRepository) List() ([]planning.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]planning.WorkItem, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyItem(r.items[id]))
	}
	return out, nil
}

func (r *InMemoryItemRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *InMemoryItemRepository) publish(e ItemEvent) {
	r.mu.RLock()
	handlers := make([]ItemEventHandler, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

func copyItem(item planning.WorkItem) planning.WorkItem {
	if item.EstimatedHours != nil {
		item.EstimatedHours = planning.Hours(*item.EstimatedHours)
	}
	return item
}

var _ planning.ItemRepository = (*InMemoryItemRepository)(nil)
