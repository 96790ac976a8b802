package planning

// ItemRepository stores work items. Implementations must be safe for
// concurrent use and return snapshot copies.
type ItemRepository interface {
	Save(item WorkItem) error
	Get(id string) (WorkItem, error)
	// Update runs fn on a copy of the stored item and stores the result in
	// one step. It returns ErrItemNotFound when the item is gone and leaves
	// the item untouched when fn fails.
	Update(id string, fn func(*WorkItem) error) (WorkItem, error)
	Delete(id string) error
	List() ([]WorkItem, error)
	Count() int
}
