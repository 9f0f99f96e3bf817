package database

import (
	"database/sql"
	"fmt"

	"course-academy/internal/model"
	"github.com/google/uuid"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Client interface {
	Close()
	CreateUser(email, password, name, phone string) (model.User, error)
	Authenticate(email, password string) (model.User, error)
	GetUserByID(id string) (model.User, error)
	GetUserRole(id string) (string, error)
	UpdateUserProfile(id, name, phone string) (model.User, error)
	RecordSignOut(id string) error
	GetCourses() ([]model.Course, error)
	GetCourseByID(id string) (model.Course, error)
	CreateCourse(course model.Course) (model.Course, error)
	UpdateCourse(course model.Course) (model.Course, error)
	DeleteCourse(id string) error
	GetNews() ([]model.News, error)
	CreateNews(item model.News) (model.News, error)
	UpdateNews(item model.News) (model.News, error)
	DeleteNews(id string) error
	PurchasesByUser(userID string) ([]model.Purchase, error)
	PurchasedCourseIDs(userID string, courseIDs []string) ([]string, error)
	ExistingCourseIDs(courseIDs []string) ([]string, error)
	InsertPurchases(purchases []model.Purchase) error
}

type client struct {
	db *sql.DB
}

func NewClient(connStr string) (Client, error) {
	db, err := sql.Open("postgres", connStr)

	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &client{db: db}, nil
}

func (c *client) Close() {
	err := c.db.Close()
	if err != nil {
		log.Errorf("closing database: %v", err)
	}
}

func (c *client) CreateUser(email, password, name, phone string) (model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	query := `INSERT INTO users (id, email, password, name, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, name, phone, role`
	var user model.User
	err = c.db.QueryRow(query, uuid.NewString(), email, hashedPassword, name, phone, model.RoleStudent).
		Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.Role)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return model.User{}, fmt.Errorf("User already registered")
		}
		return model.User{}, fmt.Errorf("executing user insert and returning data: %w", err)
	}

	return user, nil
}

func (c *client) Authenticate(email, password string) (model.User, error) {
	query := `SELECT id, email, password, name, phone, role FROM users WHERE email = $1`
	var user model.User
	err := c.db.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.Phone, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, fmt.Errorf("Invalid login credentials")
		}
		return model.User{}, fmt.Errorf("querying for user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return model.User{}, fmt.Errorf("Invalid login credentials")
	}

	user.Password = ""
	return user, nil
}

func (c *client) GetUserByID(id string) (model.User, error) {
	query := `SELECT id, email, name, phone, role FROM users WHERE id = $1`
	var user model.User
	err := c.db.QueryRow(query, id).Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, fmt.Errorf("no user found with id: %s", id)
		}
		return model.User{}, fmt.Errorf("querying for user by id: %w", err)
	}

	return user, nil
}

func (c *client) GetUserRole(id string) (string, error) {
	query := `SELECT role FROM users WHERE id = $1`
	var role string
	err := c.db.QueryRow(query, id).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("no user found with id: %s", id)
		}
		return "", fmt.Errorf("querying for user role: %w", err)
	}

	return role, nil
}

func (c *client) UpdateUserProfile(id, name, phone string) (model.User, error) {
	query := `UPDATE users SET name = $1, phone = $2 WHERE id = $3
		RETURNING id, email, name, phone, role`
	var user model.User
	err := c.db.QueryRow(query, name, phone, id).Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.Role)
	if err != nil {
		return model.User{}, fmt.Errorf("updating user profile: %w", err)
	}

	return user, nil
}

func (c *client) RecordSignOut(id string) error {
	_, err := c.db.Exec(`UPDATE users SET last_sign_out = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("recording sign-out: %w", err)
	}

	return nil
}

func (c *client) GetCourses() ([]model.Course, error) {
	rows, err := c.db.Query(`SELECT id, title, description, image, icon, color, price, lessons_count,
		duration, instructor, category, objectives, created_at
		FROM courses ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.Image, &course.Icon,
			&course.Color, &course.Price, &course.LessonsCount, &course.Duration, &course.Instructor,
			&course.Category, &course.Objectives, &course.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

func (c *client) GetCourseByID(id string) (model.Course, error) {
	query := `SELECT id, title, description, image, icon, color, price, lessons_count,
		duration, instructor, category, objectives, created_at
		FROM courses WHERE id = $1`
	var course model.Course
	err := c.db.QueryRow(query, id).Scan(&course.ID, &course.Title, &course.Description, &course.Image,
		&course.Icon, &course.Color, &course.Price, &course.LessonsCount, &course.Duration,
		&course.Instructor, &course.Category, &course.Objectives, &course.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Course{}, fmt.Errorf("no course found with id: %v", id)
		}
		return model.Course{}, fmt.Errorf("querying for course by id: %w", err)
	}

	return course, nil
}

func (c *client) CreateCourse(course model.Course) (model.Course, error) {
	query := `INSERT INTO courses (id, title, description, image, icon, color, price, lessons_count,
		duration, instructor, category, objectives)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`
	err := c.db.QueryRow(query, uuid.NewString(), course.Title, course.Description, course.Image,
		course.Icon, course.Color, course.Price, course.LessonsCount, course.Duration,
		course.Instructor, course.Category, course.Objectives).
		Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return model.Course{}, fmt.Errorf("inserting course: %w", err)
	}

	return course, nil
}

func (c *client) UpdateCourse(course model.Course) (model.Course, error) {
	query := `UPDATE courses SET title = $1, description = $2, image = $3, icon = $4, color = $5,
		price = $6, lessons_count = $7, duration = $8, instructor = $9, category = $10, objectives = $11
		WHERE id = $12
		RETURNING created_at`
	err := c.db.QueryRow(query, course.Title, course.Description, course.Image, course.Icon,
		course.Color, course.Price, course.LessonsCount, course.Duration, course.Instructor,
		course.Category, course.Objectives, course.ID).
		Scan(&course.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Course{}, fmt.Errorf("no course found with id: %v", course.ID)
		}
		return model.Course{}, fmt.Errorf("updating course: %w", err)
	}

	return course, nil
}

func (c *client) DeleteCourse(id string) error {
	_, err := c.db.Exec(`DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}

	return nil
}

func (c *client) GetNews() ([]model.News, error) {
	rows, err := c.db.Query(`SELECT id, title, content, image, date, created_at
		FROM news ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.News
	for rows.Next() {
		var item model.News
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.Image, &item.Date, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (c *client) CreateNews(item model.News) (model.News, error) {
	query := `INSERT INTO news (id, title, content, image, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := c.db.QueryRow(query, uuid.NewString(), item.Title, item.Content, item.Image, item.Date).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return model.News{}, fmt.Errorf("inserting news item: %w", err)
	}

	return item, nil
}

func (c *client) UpdateNews(item model.News) (model.News, error) {
	query := `UPDATE news SET title = $1, content = $2, image = $3, date = $4 WHERE id = $5
		RETURNING created_at`
	err := c.db.QueryRow(query, item.Title, item.Content, item.Image, item.Date, item.ID).
		Scan(&item.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.News{}, fmt.Errorf("no news item found with id: %v", item.ID)
		}
		return model.News{}, fmt.Errorf("updating news item: %w", err)
	}

	return item, nil
}

func (c *client) DeleteNews(id string) error {
	_, err := c.db.Exec(`DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting news item: %w", err)
	}

	return nil
}

func (c *client) PurchasesByUser(userID string) ([]model.Purchase, error) {
	rows, err := c.db.Query(`SELECT id, user_id, course_id, payment_status, payment_date
		FROM user_purchases WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.PaymentStatus, &p.PaymentDate); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	return purchases, rows.Err()
}

func (c *client) PurchasedCourseIDs(userID string, courseIDs []string) ([]string, error) {
	rows, err := c.db.Query(`SELECT course_id FROM user_purchases
		WHERE user_id = $1 AND course_id = ANY($2)`, userID, pq.Array(courseIDs))
	if err != nil {
		return nil, fmt.Errorf("querying purchased course ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (c *client) ExistingCourseIDs(courseIDs []string) ([]string, error) {
	rows, err := c.db.Query(`SELECT id FROM courses WHERE id = ANY($1)`, pq.Array(courseIDs))
	if err != nil {
		return nil, fmt.Errorf("querying existing course ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// InsertPurchases writes the whole batch inside one transaction so a failed
// insert never leaves a partial checkout behind. The unique constraint on
// (user_id, course_id) backs up the pre-insert duplicate check.
func (c *client) InsertPurchases(purchases []model.Purchase) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning purchase transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO user_purchases (id, user_id, course_id, payment_status, payment_date)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("preparing purchase insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range purchases {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.Exec(id, p.UserID, p.CourseID, p.PaymentStatus, p.PaymentDate); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting purchase for course %s: %w", p.CourseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing purchase transaction: %w", err)
	}

	return nil
}
