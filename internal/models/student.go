package models

import "time"

type Student struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	ClassName     string    `json:"class_name"`
	GuardianEmail string    `json:"guardian_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type StudentFilter struct {
	ClassName string
	Search    string
	Limit     int
	Offset    int
}
