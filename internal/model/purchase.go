package model

import "time"

// PaymentStatusCompleted is the only status checkout ever writes; other
// values may appear once a real payment gateway reconciles asynchronously.
const PaymentStatusCompleted = "completed"

type Purchase struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CourseID      string    `json:"course_id"`
	PaymentStatus string    `json:"payment_status"`
	PaymentDate   time.Time `json:"payment_date"`
}
