package main

import (
	"course-academy/internal/catalog"
	"course-academy/internal/checkout"
	"course-academy/internal/model"
)

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type SessionResponse struct {
	User    model.User `json:"user"`
	Token   string     `json:"token,omitempty"`
	Message string     `json:"message,omitempty"`
}

type HomeResponse struct {
	Courses []catalog.CourseState `json:"courses"`
	News    []model.News          `json:"news"`
	Error   string                `json:"error,omitempty"`
}

type CartResponse struct {
	Items []catalog.CourseState `json:"items"`
	Total int                   `json:"total"`
}

type CheckoutContextResponse struct {
	Cart    []string       `json:"cart"`
	Courses []model.Course `json:"courses"`
}

type CheckoutRequest struct {
	checkout.CardDetails
}

type PayRequest struct {
	Email  string `json:"email"`
	Amount int64  `json:"amount"`
}

type PayResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
