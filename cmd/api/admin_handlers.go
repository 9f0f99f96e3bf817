package main

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"regexp"

	"course-academy/internal/model"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var adminEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// adminLogin signs in and verifies the admin role in one step. A valid
// account without the role is signed out again and refused.
func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	var request SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !adminEmailPattern.MatchString(request.Email) {
		s.respondError(w, http.StatusBadRequest, "يرجى إدخال بريد إلكتروني صحيح")
		return
	}
	if len(request.Password) < 6 {
		s.respondError(w, http.StatusBadRequest, "كلمة المرور يجب أن تكون 6 أحرف على الأقل")
		return
	}

	user, token, err := s.sessions.SignIn(request.Email, request.Password)
	if err != nil {
		s.respondError(w, authErrorStatus(err), err.Error())
		return
	}

	role, err := s.db.GetUserRole(user.ID)
	if err != nil || role != model.RoleAdmin {
		if err != nil {
			log.Warnf("looking up role for user %s: %v", user.ID, err)
		}
		if err := s.sessions.SignOut(user.ID); err != nil {
			log.Errorf("signing out non-admin user %s: %v", user.ID, err)
		}
		s.respondError(w, http.StatusForbidden, "غير مصرح لك بالوصول إلى هذه الصفحة")
		return
	}

	s.respondJSON(w, http.StatusOK, SessionResponse{User: user, Token: token})
}

func (s *Server) adminListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.db.GetCourses()
	if err != nil {
		log.Errorf("fetching courses: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في تحميل الكورسات")
		return
	}

	s.respondJSON(w, http.StatusOK, courses)
}

func (s *Server) adminCreateCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := s.decodeCourse(w, r)
	if !ok {
		return
	}

	created, err := s.db.CreateCourse(course)
	if err != nil {
		log.Errorf("creating course: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في حفظ الكورس")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) adminUpdateCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := s.decodeCourse(w, r)
	if !ok {
		return
	}
	course.ID = mux.Vars(r)["id"]

	updated, err := s.db.UpdateCourse(course)
	if err != nil {
		log.Errorf("updating course: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في حفظ الكورس")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) adminDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteCourse(mux.Vars(r)["id"]); err != nil {
		log.Errorf("deleting course: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في حذف الكورس")
		return
	}

	s.respondJSON(w, http.StatusOK, MessageResponse{Message: "تم حذف الكورس"})
}

func (s *Server) adminListNews(w http.ResponseWriter, r *http.Request) {
	news, err := s.db.GetNews()
	if err != nil {
		log.Errorf("fetching news: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في تحميل الأخبار")
		return
	}

	s.respondJSON(w, http.StatusOK, news)
}

func (s *Server) adminCreateNews(w http.ResponseWriter, r *http.Request) {
	item, ok := s.decodeNews(w, r)
	if !ok {
		return
	}

	created, err := s.db.CreateNews(item)
	if err != nil {
		log.Errorf("creating news item: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في حفظ الخبر")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) adminUpdateNews(w http.ResponseWriter, r *http.Request) {
	item, ok := s.decodeNews(w, r)
	if !ok {
		return
	}
	item.ID = mux.Vars(r)["id"]

	updated, err := s.db.UpdateNews(item)
	if err != nil {
		log.Errorf("updating news item: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في حفظ الخبر")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) adminDeleteNews(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteNews(mux.Vars(r)["id"]); err != nil {
		log.Errorf("deleting news item: %v", err)
		s.respondError(w, http.StatusInternalServerError, "فشل في حذف الخبر")
		return
	}

	s.respondJSON(w, http.StatusOK, MessageResponse{Message: "تم حذف الخبر"})
}

// adminUpload receives a multipart image and stores it in the requested
// bucket, answering with the public URL to put on the course or news form.
func (s *Server) adminUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "يرجى اختيار ملف")
		return
	}
	defer file.Close()

	bucket := r.FormValue("bucket")
	if bucket == "" {
		bucket = "course_images"
	}

	path := uuid.NewString() + filepath.Ext(header.Filename)

	url, err := s.files.Upload(bucket, path, file, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Server) decodeCourse(w http.ResponseWriter, r *http.Request) (model.Course, bool) {
	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return model.Course{}, false
	}

	if course.Title == "" || course.Duration == "" || course.Price == 0 ||
		course.Instructor == "" || course.Category == "" || course.Objectives == "" {
		s.respondError(w, http.StatusBadRequest, "يرجى ملء جميع الحقول المطلوبة")
		return model.Course{}, false
	}

	return course, true
}

func (s *Server) decodeNews(w http.ResponseWriter, r *http.Request) (model.News, bool) {
	var item model.News
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return model.News{}, false
	}

	if item.Title == "" || item.Content == "" || item.Date == "" {
		s.respondError(w, http.StatusBadRequest, "يرجى ملء جميع الحقول المطلوبة")
		return model.News{}, false
	}

	return item, true
}
