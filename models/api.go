package models

// Richiesta della chat web
type WebChatRequest struct {
	Text string `json:"text"`
}

// Risposta della chat web
type WebChatResponse struct {
	Reply string `json:"reply"`
}

// Risposta dell'endpoint di upload
type UploadResponse struct {
	OK       bool   `json:"ok"`
	Filename string `json:"filename,omitempty"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}
