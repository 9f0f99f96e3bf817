package model

import "time"

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Icon         string    `json:"icon"`
	Color        string    `json:"color"`
	Price        int       `json:"price"`
	LessonsCount int       `json:"lessons_count"`
	Duration     string    `json:"duration"`
	Instructor   string    `json:"instructor"`
	Category     string    `json:"category"`
	Objectives   string    `json:"objectives"`
	CreatedAt    time.Time `json:"created_at"`
}
