package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"course-academy/internal/auth"
	"course-academy/internal/cart"
	"course-academy/internal/catalog"
	"course-academy/internal/database"
	"course-academy/internal/model"
	"course-academy/internal/payments"
	"course-academy/internal/storage"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

const cartCookie = "cart_id"

type Server struct {
	port           int
	db             database.Client
	sessions       *auth.Service
	carts          cart.Persistence
	files          *storage.FileStorage
	paylink        *payments.LinkCreator
	nrApp          *newrelic.Application
	allowedOrigins []string
	httpServer     *http.Server
}

func NewServer(port int, db database.Client, sessions *auth.Service, carts cart.Persistence,
	files *storage.FileStorage, paylink *payments.LinkCreator, nrApp *newrelic.Application,
	allowedOrigins string) *Server {
	return &Server{
		port:           port,
		db:             db,
		sessions:       sessions,
		carts:          carts,
		files:          files,
		paylink:        paylink,
		nrApp:          nrApp,
		allowedOrigins: strings.Split(allowedOrigins, ","),
	}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = http.HandlerFunc(s.notFound)

	s.handle(router, "/", s.home, "GET")

	s.handle(router, "/auth/signup", s.signUp, "POST")
	s.handle(router, "/auth/signin", s.signIn, "POST")
	s.handle(router, "/auth/signout", s.authenticate(s.signOut), "POST")
	s.handle(router, "/auth/me", s.authenticate(s.me), "GET")
	s.handle(router, "/auth/me", s.authenticate(s.updateMe), "PUT")

	s.handle(router, "/course/{courseId}", s.courseDetails, "GET")
	s.handle(router, "/course/{courseId}/buy", s.buyNow, "POST")

	s.handle(router, "/cart", s.getCart, "GET")
	s.handle(router, "/cart/{courseId}", s.addToCart, "POST")
	s.handle(router, "/cart/{courseId}", s.removeFromCart, "DELETE")

	s.handle(router, "/payment", s.requireSignIn(s.checkout), "POST")
	s.handle(router, "/pay", s.createPaymentLink, "POST")

	s.handle(router, "/admin/login", s.adminLogin, "POST")
	s.handle(router, "/admin/courses", s.requireAdmin(s.adminListCourses), "GET")
	s.handle(router, "/admin/courses", s.requireAdmin(s.adminCreateCourse), "POST")
	s.handle(router, "/admin/courses/{id}", s.requireAdmin(s.adminUpdateCourse), "PUT")
	s.handle(router, "/admin/courses/{id}", s.requireAdmin(s.adminDeleteCourse), "DELETE")
	s.handle(router, "/admin/news", s.requireAdmin(s.adminListNews), "GET")
	s.handle(router, "/admin/news", s.requireAdmin(s.adminCreateNews), "POST")
	s.handle(router, "/admin/news/{id}", s.requireAdmin(s.adminUpdateNews), "PUT")
	s.handle(router, "/admin/news/{id}", s.requireAdmin(s.adminDeleteNews), "DELETE")
	s.handle(router, "/admin/upload", s.requireAdmin(s.adminUpload), "POST")

	router.PathPrefix("/storage/").Handler(
		http.StripPrefix("/storage/", http.FileServer(http.Dir(s.files.Dir()))))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

func (s *Server) handle(router *mux.Router, pattern string, handler http.HandlerFunc, method string) {
	p, h := newrelic.WrapHandleFunc(s.nrApp, pattern, handler)
	router.HandleFunc(p, h).Methods(method)
}

func (s *Server) Run() error {
	address := "0.0.0.0"

	log.Printf("listening requests at %v:%v", address, s.port)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%v:%v", address, s.port),
		Handler: s.Router(),
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// home is the landing payload: the catalog in creation order, news newest
// first, and the visitor's purchase state when signed in. Backend failures
// degrade to empty sets with a visible error instead of blocking the page.
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	var banner string

	courses, err := s.db.GetCourses()
	if err != nil {
		log.Errorf("fetching courses: %v", err)
		banner = "فشل في تحميل الكورسات"
		courses = nil
	}

	news, err := s.db.GetNews()
	if err != nil {
		log.Errorf("fetching news: %v", err)
		banner = "فشل في تحميل الأخبار"
		news = nil
	}

	states := catalog.Reconcile(courses, s.purchasedSet(r), s.visitorCart(w, r).Items())

	response := HomeResponse{
		Courses: states,
		News:    news,
		Error:   banner,
	}
	if response.News == nil {
		response.News = []model.News{}
	}

	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) courseDetails(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseId"]

	course, err := s.db.GetCourseByID(courseID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "الكورس غير موجود")
		return
	}

	states := catalog.Reconcile([]model.Course{course}, s.purchasedSet(r), s.visitorCart(w, r).Items())

	s.respondJSON(w, http.StatusOK, states[0])
}

// buyNow ensures the course is in the cart (idempotently) and returns the
// checkout context: the full cart plus the course list. Buying a single
// course still routes through the general multi-item checkout.
func (s *Server) buyNow(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseId"]

	visitorCart := s.visitorCart(w, r)
	visitorCart.Add(courseID)

	courses, err := s.db.GetCourses()
	if err != nil {
		log.Errorf("fetching courses: %v", err)
		courses = nil
	}

	s.respondJSON(w, http.StatusOK, CheckoutContextResponse{
		Cart:    visitorCart.Items(),
		Courses: courses,
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, http.StatusNotFound, "الصفحة غير موجودة")
}

// purchasedSet resolves the purchase records for the request's user, empty
// when unauthenticated or on backend failure.
func (s *Server) purchasedSet(r *http.Request) map[string]bool {
	userID := s.optionalUserID(r)
	if userID == "" {
		return nil
	}

	purchases, err := s.db.PurchasesByUser(userID)
	if err != nil {
		log.Errorf("fetching purchases for user %s: %v", userID, err)
		return nil
	}

	return catalog.PurchasedSet(purchases)
}

// visitorCart opens the cart keyed to the visitor's cookie, minting the
// cookie on first contact. Every call re-reads persisted state rather than
// assuming freshness.
func (s *Server) visitorCart(w http.ResponseWriter, r *http.Request) *cart.Store {
	if c, err := r.Cookie(cartCookie); err == nil && c.Value != "" {
		return cart.NewStore(s.carts, c.Value)
	}

	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 365,
		HttpOnly: true,
	})
	return cart.NewStore(s.carts, key)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encoding response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
