package clients

import (
	"fmt"
	"net/url"
	"strings"
)

// Costruzione di URL verso servizi pubblici di generazione immagini:
// nessuna chiamata di rete, solo composizione di stringhe

// GenerateImageURL costruisce l'URL di un'immagine generata da Pollinations
func GenerateImageURL(prompt string) string {
	return "https://image.pollinations.ai/prompt/" + url.QueryEscape(prompt)
}

// GenerateMemeURL costruisce l'URL di un meme tramite memegen.link
func GenerateMemeURL(text string) string {
	safe := strings.ReplaceAll(text, " ", "_")
	return fmt.Sprintf("https://api.memegen.link/images/custom/_/%s.png?background=https://i.imgur.com/8KcYpGf.png", safe)
}
