package models

import (
	"time"
)

// Note rappresenta una nota salvata da un utente, identificata da una chiave
type Note struct {
	Key     string    `json:"key"`
	Text    string    `json:"text"`
	AddedAt time.Time `json:"addedAt"`
}
