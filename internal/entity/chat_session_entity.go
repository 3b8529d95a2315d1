package entity

import "time"

type ChatSession struct {
	Id        string
	CreatedAt time.Time
}
