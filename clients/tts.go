package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TTSClient sintetizza il parlato tramite l'endpoint TTS di Google Translate
// e scrive il risultato in un file mp3 locale
type TTSClient struct {
	http       *http.Client
	baseURL    string
	uploadsDir string
	lang       string
}

// NewTTSClient crea il client; i file generati finiscono nella directory
// degli upload
func NewTTSClient(uploadsDir, lang string) *TTSClient {
	return NewTTSClientWithBaseURL("https://translate.google.com", uploadsDir, lang)
}

// NewTTSClientWithBaseURL è usato nei test per puntare a un server fittizio
func NewTTSClientWithBaseURL(baseURL, uploadsDir, lang string) *TTSClient {
	if lang == "" {
		lang = "en"
	}
	return &TTSClient{
		http:       &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		uploadsDir: uploadsDir,
		lang:       lang,
	}
}

// L'endpoint accetta solo frasi brevi: il testo viene spezzato in blocchi
const ttsChunkLimit = 200

// Synthesize converte il testo in un file mp3 e restituisce il percorso
func (t *TTSClient) Synthesize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("testo vuoto")
	}

	if err := os.MkdirAll(t.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("errore nella creazione della directory: %v", err)
	}

	fileName := fmt.Sprintf("%d_tts.mp3", time.Now().Unix())
	path := filepath.Join(t.uploadsDir, fileName)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("errore nella creazione del file audio: %v", err)
	}

	for _, chunk := range splitChunks(text, ttsChunkLimit) {
		if err := t.fetchChunk(ctx, chunk, out); err != nil {
			out.Close()
			os.Remove(path)
			return "", err
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (t *TTSClient) fetchChunk(ctx context.Context, chunk string, out io.Writer) error {
	apiURL := fmt.Sprintf("%s/translate_tts?ie=UTF-8&client=tw-ob&tl=%s&q=%s",
		t.baseURL, url.QueryEscape(t.lang), url.QueryEscape(chunk))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts http %d", resp.StatusCode)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("errore nella scrittura dell'audio: %v", err)
	}
	return nil
}

// Spezza il testo in blocchi di al massimo limit rune, preferendo gli spazi
func splitChunks(text string, limit int) []string {
	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, string(runes))
			break
		}
		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[:cut])))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	return chunks
}
