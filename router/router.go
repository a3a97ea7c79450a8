package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"telegram-ai-bot/db"
	"telegram-ai-bot/models"
	"telegram-ai-bot/notes"
)

// Interfacce dei capability client: il router dipende solo da queste,
// così nei test si possono sostituire con degli stub

type AIClient interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type WikiClient interface {
	Summary(ctx context.Context, topic string) (string, error)
}

type WeatherClient interface {
	Configured() bool
	Current(ctx context.Context, city string) (string, error)
}

type SpeechClient interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

type PDFClient interface {
	Render(text string) (string, error)
}

type AssetStore interface {
	SaveBytes(name string, data []byte) (string, error)
	Resolve(ref string) (string, error)
	PublicURL(ref string) string
}

// Router classifica ogni messaggio in arrivo e lo smista verso un solo
// capability client o verso il deposito note, producendo una sola risposta
type Router struct {
	AI      AIClient
	Wiki    WikiClient
	Weather WeatherClient
	Speech  SpeechClient
	PDF     PDFClient
	Notes   notes.Store
	Assets  AssetStore
	Archive db.Archive
}

// Handle elabora un messaggio e restituisce l'unica azione in uscita.
// Nessun errore esterno esce da qui: ogni fallimento diventa una risposta
// testuale per l'utente
func (r *Router) Handle(ctx context.Context, msg models.InboundMessage) models.Reply {
	reply := r.dispatch(ctx, msg)
	r.record(msg, reply)
	return reply
}

// Ordine di classificazione: comando, poi allegato, poi sentinella img:,
// infine testo libero verso il modello
func (r *Router) dispatch(ctx context.Context, msg models.InboundMessage) models.Reply {
	text := strings.TrimSpace(msg.Text)

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(ctx, msg, text)
	}

	if len(msg.Photo) > 0 {
		return r.handlePhoto(msg)
	}

	if strings.HasPrefix(text, "img:") {
		return r.handleImageQuestion(ctx, text)
	}

	if text == "" {
		return models.Reply{Text: "Send some text."}
	}

	return r.askAI(ctx, text)
}

// Salva l'allegato e spiega come farci domande sopra
func (r *Router) handlePhoto(msg models.InboundMessage) models.Reply {
	name := msg.PhotoName
	if name == "" {
		name = "photo.jpg"
	}
	ref, err := r.Assets.SaveBytes(name, msg.Photo)
	if err != nil {
		fmt.Printf("Errore nel salvataggio dell'immagine: %v\n", err)
		return models.Reply{Text: "Failed to save image."}
	}
	return models.Reply{Text: fmt.Sprintf(
		"Image received and saved. To ask about this image, type:\nimg:%s <your question>\n(example: img:%s What is in this picture?)",
		ref, ref)}
}

// Gestisce la sentinella img:<riferimento> <domanda>
func (r *Router) handleImageQuestion(ctx context.Context, text string) models.Reply {
	parts := strings.SplitN(text, " ", 2)
	ref := strings.TrimPrefix(parts[0], "img:")
	question := ""
	if len(parts) > 1 {
		question = strings.TrimSpace(parts[1])
	}
	if question == "" {
		return models.Reply{Text: "Please add your question after the image reference."}
	}
	if _, err := r.Assets.Resolve(ref); err != nil {
		return models.Reply{Text: "Unknown image reference. Upload the image again."}
	}

	imageURL := r.Assets.PublicURL(ref)
	prompt := fmt.Sprintf(
		"User question about image: %s\nImage URL: %s\nPlease describe and answer the question based on the image.",
		question, imageURL)
	return r.askAI(ctx, prompt)
}

func (r *Router) askAI(ctx context.Context, prompt string) models.Reply {
	res, err := r.AI.Ask(ctx, prompt)
	if err != nil {
		fmt.Printf("Errore nella chiamata AI: %v\n", err)
		return models.Reply{Text: "⚠️ AI error. Please try again later."}
	}
	return models.Reply{Text: res}
}

// Registra messaggio e risposta nell'archivio delle conversazioni
func (r *Router) record(msg models.InboundMessage, reply models.Reply) {
	if r.Archive == nil {
		return
	}

	content := msg.Text
	if len(msg.Photo) > 0 && content == "" {
		content = "📷 Immagine"
	}

	chat := &models.Chat{ID: msg.ChatID, Channel: msg.Channel}
	if err := r.Archive.SaveChat(chat); err != nil {
		fmt.Printf("Errore nel salvataggio della chat: %v\n", err)
		return
	}

	replyText := reply.Text
	if replyText == "" {
		switch {
		case reply.PhotoURL != "":
			replyText = reply.PhotoURL
		case reply.AudioPath != "":
			replyText = "🔊 Audio"
		case reply.DocumentPath != "":
			replyText = "📄 Documento"
		}
	}

	record := &models.Message{
		ID:        uuid.NewString(),
		Chat:      msg.ChatID,
		Channel:   msg.Channel,
		Sender:    msg.UserID,
		Content:   content,
		Reply:     replyText,
		Timestamp: time.Now(),
		IsMedia:   len(msg.Photo) > 0,
	}
	if err := r.Archive.SaveMessage(record); err != nil {
		fmt.Printf("Errore nel salvataggio del messaggio: %v\n", err)
	}
}
