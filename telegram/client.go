package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client è un client minimale per la Bot API di Telegram
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient crea un nuovo client per la Bot API
func NewClient(httpClient *http.Client, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		http:    httpClient,
		baseURL: "https://api.telegram.org",
		token:   token,
	}
}

// NewClientWithBaseURL è usato nei test per puntare a un server fittizio
func NewClientWithBaseURL(httpClient *http.Client, baseURL, token string) *Client {
	c := NewClient(httpClient, token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Update rappresenta un aggiornamento ricevuto via getUpdates
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message è un messaggio Telegram (sottoinsieme dei campi)
type Message struct {
	MessageID int64       `json:"message_id"`
	Chat      *Chat       `json:"chat,omitempty"`
	From      *User       `json:"from,omitempty"`
	Text      string      `json:"text,omitempty"`
	Caption   string      `json:"caption,omitempty"`
	Photo     []PhotoSize `json:"photo,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"` // private|group|supergroup|channel
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// BotCommand è una voce del menu comandi
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Esegue una chiamata GET e decodifica il campo result
func (c *Client) call(ctx context.Context, method string, query url.Values, out interface{}) error {
	apiURL := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, method, out)
}

// Esegue una chiamata POST con corpo JSON e decodifica il campo result
func (c *Client) callJSON(ctx context.Context, method string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, method, out)
}

func (c *Client) do(req *http.Request, method string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err
	}
	if !envelope.OK {
		return fmt.Errorf("telegram %s: %s", method, envelope.Description)
	}
	if out != nil && len(envelope.Result) > 0 {
		return json.Unmarshal(envelope.Result, out)
	}
	return nil
}

// GetMe restituisce le informazioni sul bot
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUpdates esegue il long polling e restituisce gli aggiornamenti
// insieme al prossimo offset da usare
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, int64, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}

	query := url.Values{}
	query.Set("timeout", fmt.Sprintf("%d", secs))
	if offset > 0 {
		query.Set("offset", fmt.Sprintf("%d", offset))
	}

	// Il timeout della richiesta deve superare quello del long polling
	reqCtx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
	defer cancel()

	var updates []Update
	if err := c.call(reqCtx, "getUpdates", query, &updates); err != nil {
		return nil, offset, err
	}

	next := offset
	for _, u := range updates {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return updates, next, nil
}

// SendMessage invia un messaggio di testo
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		text = "(vuoto)"
	}
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	return c.callJSON(ctx, "sendMessage", payload, nil)
}

// SendChatAction segnala l'azione "typing" o simili
func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"action":  action,
	}
	return c.callJSON(ctx, "sendChatAction", payload, nil)
}

// SendPhoto invia una foto tramite URL pubblico
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"photo":   photoURL,
	}
	if caption != "" {
		payload["caption"] = caption
	}
	return c.callJSON(ctx, "sendPhoto", payload, nil)
}

// SendAudio carica e invia un file audio locale
func (c *Client) SendAudio(ctx context.Context, chatID int64, path string) error {
	return c.sendLocalFile(ctx, chatID, "sendAudio", "audio", path)
}

// SendDocument carica e invia un documento locale
func (c *Client) SendDocument(ctx context.Context, chatID int64, path string) error {
	return c.sendLocalFile(ctx, chatID, "sendDocument", "document", path)
}

// Invia un file locale tramite upload multipart
func (c *Client) sendLocalFile(ctx context.Context, chatID int64, method, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("errore nell'apertura del file %s: %v", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return err
	}
	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, method, nil)
}

// GetFile recupera i metadati di un file caricato dall'utente
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, fmt.Errorf("file_id mancante")
	}
	query := url.Values{}
	query.Set("file_id", fileID)

	var file File
	if err := c.call(ctx, "getFile", query, &file); err != nil {
		return nil, err
	}
	if strings.TrimSpace(file.FilePath) == "" {
		return nil, fmt.Errorf("telegram getFile: file_path mancante")
	}
	return &file, nil
}

// DownloadFile scarica il contenuto di un file dato il suo file_path
func (c *Client) DownloadFile(ctx context.Context, filePath string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = 20 * 1024 * 1024
	}

	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, strings.TrimLeft(filePath, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("telegram download http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file troppo grande (>%d byte)", maxBytes)
	}
	return data, nil
}

// SetMyCommands imposta il menu dei comandi del bot
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	payload := map[string]interface{}{
		"commands": commands,
	}
	return c.callJSON(ctx, "setMyCommands", payload, nil)
}

// LargestPhoto restituisce la versione a risoluzione più alta di una foto
func LargestPhoto(sizes []PhotoSize) *PhotoSize {
	if len(sizes) == 0 {
		return nil
	}
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return &best
}
