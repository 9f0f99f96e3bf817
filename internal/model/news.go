package model

import "time"

type News struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
