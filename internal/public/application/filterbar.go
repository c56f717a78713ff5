package application

// DefaultPanelRating is applied when the rating panel is opened with no rating set.
const DefaultPanelRating = 4.0

// RatingOptions are the rating pills offered by the filter bar, highest first.
var RatingOptions = []float64{5, 4, 3, 2, 1}

// FilterBarState summarises the filter input surface.
type FilterBarState struct {
	TotalShops        int
	FilteredCount     int
	ActiveFilterCount int
	RatingPanelOpen   bool
	RatingOptions     []float64
}

// FilterBar derives the filter bar summary from a controller state.
func FilterBar(state State, total int) FilterBarState {
	active := 0
	if state.Criteria.MinimumRating != nil {
		active++
	}
	if state.Criteria.VerifiedOnly {
		active++
	}
	return FilterBarState{
		TotalShops:        total,
		FilteredCount:     len(state.VisibleShops),
		ActiveFilterCount: active,
		RatingPanelOpen:   state.Criteria.MinimumRating != nil,
		RatingOptions:     append([]float64{}, RatingOptions...),
	}
}

// ToggledRatingPanel returns the rating after pressing the "Filters" button:
// unset when a rating is active, DefaultPanelRating otherwise.
func ToggledRatingPanel(current *float64) *float64 {
	if current != nil {
		return nil
	}
	v := DefaultPanelRating
	return &v
}

// PickedRating returns the rating after pressing a rating pill. Pressing the active
// pill unsets the rating.
func PickedRating(current *float64, pill float64) *float64 {
	if current != nil && *current == pill {
		return nil
	}
	v := pill
	return &v
}
