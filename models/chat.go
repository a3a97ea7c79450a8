package models

import (
	"time"
)

// Struttura per memorizzare i messaggi archiviati
type Message struct {
	ID        string    `json:"id"`
	Chat      string    `json:"chat"`
	Channel   string    `json:"channel"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
	IsMedia   bool      `json:"isMedia"`
	MediaPath string    `json:"mediaPath,omitempty"`
}

// Struttura per la chat
type Chat struct {
	ID          string    `json:"id"`
	Channel     string    `json:"channel"`
	LastMessage Message   `json:"lastMessage"`
	Messages    []Message `json:"messages,omitempty"`
}
