package models

// InboundMessage rappresenta un messaggio in arrivo da uno dei front end,
// normalizzato prima di passare dal router
type InboundMessage struct {
	Channel   string `json:"channel"` // "telegram" o "web"
	ChatID    string `json:"chatId"`
	UserID    string `json:"userId"`
	Text      string `json:"text,omitempty"`
	Photo     []byte `json:"-"` // payload dell'immagine allegata, se presente
	PhotoName string `json:"photoName,omitempty"`
}

// Reply è l'unica azione in uscita prodotta dal router per un messaggio
type Reply struct {
	Text         string `json:"text,omitempty"`
	PhotoURL     string `json:"photoUrl,omitempty"`
	Caption      string `json:"caption,omitempty"`
	AudioPath    string `json:"audioPath,omitempty"`
	DocumentPath string `json:"documentPath,omitempty"`

	// Transient indica che il file locale va eliminato dopo l'invio
	Transient bool `json:"-"`
}

// IsMedia indica se la risposta contiene qualcosa oltre al testo
func (r Reply) IsMedia() bool {
	return r.PhotoURL != "" || r.AudioPath != "" || r.DocumentPath != ""
}
