package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"course-academy/internal/auth"
	"course-academy/internal/cart"
	"course-academy/internal/model"
	"course-academy/internal/payments"
	"course-academy/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	users      map[string]model.User
	courses    []model.Course
	news       []model.News
	purchases  []model.Purchase
	coursesErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{users: map[string]model.User{}}
}

func (f *fakeClient) Close() {}

func (f *fakeClient) CreateUser(email, password, name, phone string) (model.User, error) {
	user := model.User{ID: fmt.Sprintf("u%d", len(f.users)+1), Email: email, Name: name, Phone: phone, Role: model.RoleStudent}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeClient) Authenticate(email, password string) (model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, errors.New("Invalid login credentials")
}

func (f *fakeClient) GetUserByID(id string) (model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("no user found with id: %s", id)
	}
	return user, nil
}

func (f *fakeClient) GetUserRole(id string) (string, error) {
	user, ok := f.users[id]
	if !ok {
		return "", fmt.Errorf("no user found with id: %s", id)
	}
	return user.Role, nil
}

func (f *fakeClient) UpdateUserProfile(id, name, phone string) (model.User, error) {
	user := f.users[id]
	user.Name = name
	user.Phone = phone
	f.users[id] = user
	return user, nil
}

func (f *fakeClient) RecordSignOut(id string) error { return nil }

func (f *fakeClient) GetCourses() ([]model.Course, error) {
	if f.coursesErr != nil {
		return nil, f.coursesErr
	}
	return f.courses, nil
}

func (f *fakeClient) GetCourseByID(id string) (model.Course, error) {
	for _, course := range f.courses {
		if course.ID == id {
			return course, nil
		}
	}
	return model.Course{}, fmt.Errorf("no course found with id: %v", id)
}

func (f *fakeClient) CreateCourse(course model.Course) (model.Course, error) {
	course.ID = fmt.Sprintf("c%d", len(f.courses)+1)
	f.courses = append(f.courses, course)
	return course, nil
}

func (f *fakeClient) UpdateCourse(course model.Course) (model.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == course.ID {
			f.courses[i] = course
			return course, nil
		}
	}
	return model.Course{}, fmt.Errorf("no course found with id: %v", course.ID)
}

func (f *fakeClient) DeleteCourse(id string) error {
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses = append(f.courses[:i], f.courses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeClient) GetNews() ([]model.News, error) { return f.news, nil }

func (f *fakeClient) CreateNews(item model.News) (model.News, error) {
	item.ID = fmt.Sprintf("n%d", len(f.news)+1)
	f.news = append(f.news, item)
	return item, nil
}

func (f *fakeClient) UpdateNews(item model.News) (model.News, error) { return item, nil }

func (f *fakeClient) DeleteNews(id string) error { return nil }

func (f *fakeClient) PurchasesByUser(userID string) ([]model.Purchase, error) {
	var out []model.Purchase
	for _, p := range f.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClient) PurchasedCourseIDs(userID string, courseIDs []string) ([]string, error) {
	wanted := map[string]bool{}
	for _, id := range courseIDs {
		wanted[id] = true
	}
	var out []string
	for _, p := range f.purchases {
		if p.UserID == userID && wanted[p.CourseID] {
			out = append(out, p.CourseID)
		}
	}
	return out, nil
}

func (f *fakeClient) ExistingCourseIDs(courseIDs []string) ([]string, error) {
	known := map[string]bool{}
	for _, course := range f.courses {
		known[course.ID] = true
	}
	var out []string
	for _, id := range courseIDs {
		if known[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeClient) InsertPurchases(purchases []model.Purchase) error {
	f.purchases = append(f.purchases, purchases...)
	return nil
}

func newTestServer(t *testing.T, db *fakeClient) (*Server, http.Handler) {
	t.Helper()

	carts, err := cart.NewFileStore(t.TempDir())
	require.NoError(t, err)

	files, err := storage.NewFileStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	sessions := auth.NewService(db, "test-key", nil, false)
	paylink := payments.NewLinkCreator("http://localhost/success", "http://localhost/cancel")

	server := NewServer(8080, db, sessions, carts, files, paylink, nil, "http://localhost:5173")
	return server, server.Router()
}

func tokenFor(t *testing.T, server *Server, db *fakeClient, role string) string {
	t.Helper()

	user, err := db.CreateUser("user@example.com", "secret123", "Ahmed", "12345678901")
	require.NoError(t, err)
	user.Role = role
	db.users[user.ID] = user

	_, token, err := server.sessions.SignIn("user@example.com", "secret123")
	require.NoError(t, err)
	return token
}

func doJSON(handler http.Handler, method, path, token string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAdminGateRedirectsStudent(t *testing.T) {
	db := newFakeClient()
	server, handler := newTestServer(t, db)
	token := tokenFor(t, server, db, model.RoleStudent)

	rec := doJSON(handler, "GET", "/admin/courses", token, nil, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestAdminGateRedirectsAnonymous(t *testing.T) {
	db := newFakeClient()
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "GET", "/admin/courses", "", nil, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestAdminGateAllowsAdmin(t *testing.T) {
	db := newFakeClient()
	server, handler := newTestServer(t, db)
	token := tokenFor(t, server, db, model.RoleAdmin)

	rec := doJSON(handler, "GET", "/admin/courses", token, nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLoginRefusesStudent(t *testing.T) {
	db := newFakeClient()
	_, handler := newTestServer(t, db)
	_, err := db.CreateUser("student@example.com", "secret123", "Ahmed", "12345678901")
	require.NoError(t, err)

	rec := doJSON(handler, "POST", "/admin/login", "", SignInRequest{Email: "student@example.com", Password: "secret123"}, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckoutEntryGuardRedirectsToAuth(t *testing.T) {
	db := newFakeClient()
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "POST", "/payment", "", CheckoutRequest{}, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get("Location"))
}

func TestNotFound(t *testing.T) {
	db := newFakeClient()
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "GET", "/nonexistent", "", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRoundTripThroughHandlers(t *testing.T) {
	db := newFakeClient()
	db.courses = []model.Course{{ID: "a", Title: "Course A", Price: 300}}
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "POST", "/cart/a", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = doJSON(handler, "GET", "/cart", "", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var response CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Items, 1)
	assert.Equal(t, "a", response.Items[0].ID)
	assert.Equal(t, 300, response.Total)
}

func TestCartTotalIsFlatRegardlessOfItemCount(t *testing.T) {
	db := newFakeClient()
	db.courses = []model.Course{
		{ID: "a", Price: 300},
		{ID: "b", Price: 300},
	}
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "POST", "/cart/a", "", nil, nil)
	cookies := rec.Result().Cookies()
	doJSON(handler, "POST", "/cart/b", "", nil, cookies)

	rec = doJSON(handler, "GET", "/cart", "", nil, cookies)

	var response CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 300, response.Total)
}

func TestCheckoutThroughHandlersClearsCart(t *testing.T) {
	db := newFakeClient()
	db.courses = []model.Course{{ID: "a"}, {ID: "b"}}
	server, handler := newTestServer(t, db)
	token := tokenFor(t, server, db, model.RoleStudent)

	rec := doJSON(handler, "POST", "/cart/a", "", nil, nil)
	cookies := rec.Result().Cookies()
	doJSON(handler, "POST", "/cart/b", "", nil, cookies)

	request := CheckoutRequest{}
	request.Number = "4242424242424242"
	request.Expiry = "12/27"
	request.CVV = "123"
	request.Holder = "Ahmed Ali"

	rec = doJSON(handler, "POST", "/payment", token, request, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, db.purchases, 2)

	rec = doJSON(handler, "GET", "/cart", token, nil, cookies)
	var response CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Items)
}

func TestCheckoutDuplicateCourseConflict(t *testing.T) {
	db := newFakeClient()
	db.courses = []model.Course{{ID: "a"}, {ID: "b"}}
	server, handler := newTestServer(t, db)
	token := tokenFor(t, server, db, model.RoleStudent)

	claims, err := server.sessions.ParseToken(token)
	require.NoError(t, err)
	db.purchases = []model.Purchase{{UserID: claims.UserID, CourseID: "a", PaymentStatus: model.PaymentStatusCompleted}}

	rec := doJSON(handler, "POST", "/cart/a", "", nil, nil)
	cookies := rec.Result().Cookies()
	doJSON(handler, "POST", "/cart/b", "", nil, cookies)

	request := CheckoutRequest{}
	request.Number = "4242424242424242"
	request.Expiry = "12/27"
	request.CVV = "123"
	request.Holder = "Ahmed Ali"

	rec = doJSON(handler, "POST", "/payment", token, request, cookies)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, db.purchases, 1, "no row may be written for the other course")
}

func TestHomeDegradesToEmptyCatalogOnBackendFailure(t *testing.T) {
	db := newFakeClient()
	db.coursesErr = errors.New("backend down")
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "GET", "/", "", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var response HomeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Courses)
	assert.NotEmpty(t, response.Error)
}

func TestCourseDetailsReportsPurchaseState(t *testing.T) {
	db := newFakeClient()
	db.courses = []model.Course{{ID: "a", Title: "Course A"}}
	server, handler := newTestServer(t, db)
	token := tokenFor(t, server, db, model.RoleStudent)

	claims, err := server.sessions.ParseToken(token)
	require.NoError(t, err)
	db.purchases = []model.Purchase{{UserID: claims.UserID, CourseID: "a"}}

	rec := doJSON(handler, "GET", "/course/a", token, nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		Purchased bool `json:"purchased"`
		InCart    bool `json:"in_cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.Purchased)
	assert.False(t, state.InCart)
}

func TestBuyNowIsIdempotentAndCarriesCart(t *testing.T) {
	db := newFakeClient()
	db.courses = []model.Course{{ID: "a"}, {ID: "b"}}
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "POST", "/cart/b", "", nil, nil)
	cookies := rec.Result().Cookies()

	rec = doJSON(handler, "POST", "/course/a/buy", "", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var response CheckoutContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, []string{"b", "a"}, response.Cart)

	rec = doJSON(handler, "POST", "/course/a/buy", "", nil, cookies)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, []string{"b", "a"}, response.Cart, "buying twice must not duplicate the entry")
}

func TestSignUpAndSignInThroughHandlers(t *testing.T) {
	db := newFakeClient()
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "POST", "/auth/signup", "",
		SignUpRequest{Email: "new@example.com", Password: "secret123", Name: "Ahmed", Phone: "12345678901"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.NotEmpty(t, session.Token)

	rec = doJSON(handler, "POST", "/auth/signin", "",
		SignInRequest{Email: "new@example.com", Password: "secret123"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignUpValidationFailure(t *testing.T) {
	db := newFakeClient()
	_, handler := newTestServer(t, db)

	rec := doJSON(handler, "POST", "/auth/signup", "",
		SignUpRequest{Email: "new@example.com", Password: "secret123", Name: "Ahmed", Phone: "123"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, db.users)
}
