// Package catalog computes per-course purchase state for rendering:
// already owned, sitting in the cart, or available for both actions.
package catalog

import "course-academy/internal/model"

// CourseState decorates a course with the visitor's relationship to it.
// Purchased and InCart are mutually exclusive; purchased wins.
type CourseState struct {
	model.Course
	Purchased bool `json:"purchased"`
	InCart    bool `json:"in_cart"`
}

// PurchasedSet folds purchase records into a course-id lookup.
func PurchasedSet(purchases []model.Purchase) map[string]bool {
	set := make(map[string]bool, len(purchases))
	for _, p := range purchases {
		set[p.CourseID] = true
	}
	return set
}

// Reconcile assigns each course its three-way state against the purchased
// set and the cart contents.
func Reconcile(courses []model.Course, purchased map[string]bool, cartIDs []string) []CourseState {
	inCart := make(map[string]bool, len(cartIDs))
	for _, id := range cartIDs {
		inCart[id] = true
	}

	states := make([]CourseState, 0, len(courses))
	for _, course := range courses {
		state := CourseState{Course: course}
		switch {
		case purchased[course.ID]:
			state.Purchased = true
		case inCart[course.ID]:
			state.InCart = true
		}
		states = append(states, state)
	}
	return states
}
