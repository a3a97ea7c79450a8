package notes

import (
	"telegram-ai-bot/models"
)

// Store è l'interfaccia del deposito note per utente.
// Semantica: chiave-valore con sovrascrittura — salvare due volte la stessa
// chiave sostituisce il testo precedente
type Store interface {
	// Get restituisce le note dell'utente ordinate per chiave (anche vuote)
	Get(user string) ([]models.Note, error)
	// Put salva o sovrascrive una nota
	Put(user, key, text string) error
	// Delete elimina una nota; restituisce false se la chiave non esiste
	Delete(user, key string) (bool, error)
	// Clear elimina tutte le note dell'utente
	Clear(user string) error
	Close() error
}
