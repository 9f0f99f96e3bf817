package main

import (
	"net/http"

	"course-academy/internal/catalog"
	"course-academy/internal/checkout"
	"course-academy/internal/model"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// getCart re-reads the persisted cart and joins it with course data. The
// total is the flat bundle price whenever the cart is non-empty.
func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	visitorCart := s.visitorCart(w, r)
	ids := visitorCart.Items()

	courses, err := s.db.GetCourses()
	if err != nil {
		log.Errorf("fetching courses: %v", err)
		courses = nil
	}

	byID := make(map[string]model.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	purchased := s.purchasedSet(r)

	items := make([]catalog.CourseState, 0, len(ids))
	for _, id := range ids {
		course, ok := byID[id]
		if !ok {
			continue
		}
		states := catalog.Reconcile([]model.Course{course}, purchased, ids)
		items = append(items, states[0])
	}

	total := 0
	if len(ids) > 0 {
		total = checkout.BundlePrice
	}

	s.respondJSON(w, http.StatusOK, CartResponse{Items: items, Total: total})
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	visitorCart := s.visitorCart(w, r)
	visitorCart.Add(mux.Vars(r)["courseId"])

	s.respondJSON(w, http.StatusOK, CheckoutContextResponse{Cart: visitorCart.Items()})
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	visitorCart := s.visitorCart(w, r)
	visitorCart.Remove(mux.Vars(r)["courseId"])

	s.respondJSON(w, http.StatusOK, CheckoutContextResponse{Cart: visitorCart.Items()})
}
