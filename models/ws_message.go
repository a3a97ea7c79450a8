package models

// WSMessage è il messaggio inviato ai client WebSocket collegati
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebChatExchange è il payload trasmesso per ogni scambio della chat web
type WebChatExchange struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
	Reply  string `json:"reply"`
}
