package db

import (
	"telegram-ai-bot/models"
)

// Archive è l'interfaccia dell'archivio delle conversazioni: ogni messaggio
// instradato dal router viene registrato insieme alla risposta prodotta
type Archive interface {
	SaveChat(chat *models.Chat) error
	LoadChats() ([]*models.Chat, error)
	SaveMessage(message *models.Message) error
	LoadChatMessages(chatID string) ([]models.Message, error)
	Close() error
}
