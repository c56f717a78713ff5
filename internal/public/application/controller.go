package application

import "github.com/sngm3741/coffee-hunter/api/internal/public/domain"

// State is the derived view of a controller after an operation has completed.
type State struct {
	Criteria       FilterCriteria
	SelectedShopID string
	VisibleShops   []domain.Shop
}

// HasSelection reports whether a shop is currently selected.
func (s State) HasSelection() bool {
	return s.SelectedShopID != ""
}

// Controller owns the filter criteria and the selected shop for one browse session.
// It is the only writer of that state; list, detail and map surfaces read derived
// state and send intents back through its methods.
//
// A Controller is not safe for concurrent use. Callers serialise access per session.
type Controller struct {
	catalog    *Catalog
	criteria   FilterCriteria
	selectedID string

	observers map[int]func(State)
	order     []int
	nextID    int
}

// NewController returns a controller with default criteria and no selection.
func NewController(catalog *Catalog) *Controller {
	return &Controller{
		catalog:   catalog,
		observers: make(map[int]func(State)),
	}
}

// SetMinimumRating sets or unsets (nil) the minimum overall score.
// A selected shop scoring below the new minimum is deselected. Lowering the minimum
// later does not restore it.
func (c *Controller) SetMinimumRating(r *float64) {
	if r == nil {
		c.criteria.MinimumRating = nil
	} else {
		v := *r
		c.criteria.MinimumRating = &v
		if shop, ok := c.SelectedShop(); ok && shop.OverallScore < v {
			c.selectedID = ""
		}
	}
	c.notify()
}

// ToggleVerifiedOnly flips the verified-only filter.
// The current selection is kept even when the selected shop is no longer visible.
func (c *Controller) ToggleVerifiedOnly() {
	c.criteria.VerifiedOnly = !c.criteria.VerifiedOnly
	c.notify()
}

// SetSearchText stores q verbatim; normalisation happens during derivation.
func (c *Controller) SetSearchText(q string) {
	c.criteria.SearchText = q
	c.notify()
}

// SelectShop selects id without checking the active filters, so a shop hidden from
// the list may still be selected from the map. An id missing from the catalog clears
// the selection.
func (c *Controller) SelectShop(id string) {
	if _, ok := c.catalog.ByID(id); ok {
		c.selectedID = id
	} else {
		c.selectedID = ""
	}
	c.notify()
}

// ClearSelection returns the controller to the idle state.
func (c *Controller) ClearSelection() {
	c.selectedID = ""
	c.notify()
}

// VisibleShops derives the filtered list from the current criteria.
func (c *Controller) VisibleShops() []domain.Shop {
	return Derive(c.catalog, c.criteria)
}

// SelectedShop resolves the selected id against the catalog.
func (c *Controller) SelectedShop() (domain.Shop, bool) {
	if c.selectedID == "" {
		return domain.Shop{}, false
	}
	return c.catalog.ByID(c.selectedID)
}

// SelectedShopID returns the selected id, if any.
func (c *Controller) SelectedShopID() (string, bool) {
	return c.selectedID, c.selectedID != ""
}

// Criteria returns a copy of the active filter criteria.
func (c *Controller) Criteria() FilterCriteria {
	criteria := c.criteria
	if c.criteria.MinimumRating != nil {
		v := *c.criteria.MinimumRating
		criteria.MinimumRating = &v
	}
	return criteria
}

// Catalog returns the catalog the controller derives from.
func (c *Controller) Catalog() *Catalog {
	return c.catalog
}

// State returns the current derived state.
func (c *Controller) State() State {
	return State{
		Criteria:       c.Criteria(),
		SelectedShopID: c.selectedID,
		VisibleShops:   c.VisibleShops(),
	}
}

// Subscribe registers fn to receive the state after every mutating operation.
// Observers are called synchronously in registration order. The returned function
// removes the observer and may be called more than once.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.order = append(c.order, id)

	return func() {
		if _, ok := c.observers[id]; !ok {
			return
		}
		delete(c.observers, id)
		for i, v := range c.order {
			if v == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

func (c *Controller) notify() {
	if len(c.order) == 0 {
		return
	}
	state := c.State()
	for _, id := range append([]int{}, c.order...) {
		if fn, ok := c.observers[id]; ok {
			fn(state)
		}
	}
}
