package router

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"telegram-ai-bot/clients"
	"telegram-ai-bot/models"
)

// Comandi esposti nel menu del bot
var Commands = []struct {
	Command     string
	Description string
}{
	{"start", "Start the bot"},
	{"ai", "Chat with AI"},
	{"wiki", "Search Wikipedia"},
	{"weather", "Weather info"},
	{"image", "Generate Image"},
	{"meme", "Make Meme"},
	{"speak", "Text to Speech"},
	{"pdf", "Text -> PDF"},
	{"note", "Notes commands"},
	{"joke", "Random Joke"},
}

var jokes = []string{
	"Why did the programmer quit his job? Because he didn't get arrays.",
	"I told my computer I needed a break, and it said 'No problem — I'll go to sleep.'",
	"There are only 10 kinds of people: those who understand binary and those who don't.",
}

// Smista un comando riconosciuto; i comandi sconosciuti non producono
// alcuna azione
func (r *Router) handleCommand(ctx context.Context, msg models.InboundMessage, text string) models.Reply {
	parts := strings.SplitN(text, " ", 2)
	command := strings.TrimPrefix(parts[0], "/")
	// Nei gruppi Telegram il comando può arrivare come /ai@nomebot
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch command {
	case "start":
		return models.Reply{Text: "👋 Hello! I'm an all-in-one AI bot.\nJust ask anything or use the menu commands."}

	case "ai":
		if arg == "" {
			return models.Reply{Text: "Usage: /ai <your question>"}
		}
		return r.askAI(ctx, arg)

	case "wiki":
		if arg == "" {
			return models.Reply{Text: "Usage: /wiki <topic>"}
		}
		summary, err := r.Wiki.Summary(ctx, arg)
		if err != nil {
			if !errors.Is(err, clients.ErrNotFound) {
				fmt.Printf("Errore nella ricerca su Wikipedia: %v\n", err)
			}
			return models.Reply{Text: "❌ Couldn't find that on Wikipedia."}
		}
		return models.Reply{Text: summary}

	case "weather":
		if arg == "" {
			return models.Reply{Text: "Usage: /weather <city>"}
		}
		if !r.Weather.Configured() {
			return models.Reply{Text: "Weather API key not configured."}
		}
		report, err := r.Weather.Current(ctx, arg)
		if err != nil {
			if errors.Is(err, clients.ErrNotFound) {
				return models.Reply{Text: "City not found."}
			}
			fmt.Printf("Errore nella richiesta meteo: %v\n", err)
			return models.Reply{Text: "Weather fetch error."}
		}
		return models.Reply{Text: report}

	case "image":
		if arg == "" {
			return models.Reply{Text: "Usage: /image <prompt>"}
		}
		return models.Reply{
			PhotoURL: clients.GenerateImageURL(arg),
			Caption:  "Image for: " + arg,
		}

	case "meme":
		if arg == "" {
			return models.Reply{Text: "Usage: /meme <text>"}
		}
		return models.Reply{
			PhotoURL: clients.GenerateMemeURL(arg),
			Caption:  "Here is your meme",
		}

	case "speak", "tts":
		if arg == "" {
			return models.Reply{Text: "Usage: /speak <text>"}
		}
		path, err := r.Speech.Synthesize(ctx, arg)
		if err != nil {
			fmt.Printf("Errore nella sintesi vocale: %v\n", err)
			return models.Reply{Text: "TTS failed."}
		}
		return models.Reply{AudioPath: path, Transient: true}

	case "pdf":
		if arg == "" {
			return models.Reply{Text: "Usage: /pdf <text to convert to pdf>"}
		}
		path, err := r.PDF.Render(arg)
		if err != nil {
			fmt.Printf("Errore nella creazione del PDF: %v\n", err)
			return models.Reply{Text: "PDF creation failed."}
		}
		return models.Reply{DocumentPath: path, Transient: true}

	case "note", "notes":
		return r.handleNote(msg.UserID, arg)

	case "joke":
		return models.Reply{Text: jokes[rand.Intn(len(jokes))]}
	}

	// Comando non riconosciuto: nessuna azione
	return models.Reply{}
}

const noteUsage = "Usage: /note <key> <text> | /note | /note del <key> | /note clear"

// Sottocomandi delle note: salvataggio chiave-valore con sovrascrittura,
// elenco, eliminazione puntuale e azzeramento
func (r *Router) handleNote(user, arg string) models.Reply {
	if arg == "" {
		return r.listNotes(user)
	}

	parts := strings.SplitN(arg, " ", 2)
	switch parts[0] {
	case "clear":
		if err := r.Notes.Clear(user); err != nil {
			fmt.Printf("Errore nell'azzeramento delle note: %v\n", err)
			return models.Reply{Text: "Could not clear notes."}
		}
		return models.Reply{Text: "Notes cleared."}

	case "del", "delete":
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			return models.Reply{Text: noteUsage}
		}
		key := strings.TrimSpace(parts[1])
		found, err := r.Notes.Delete(user, key)
		if err != nil {
			fmt.Printf("Errore nell'eliminazione della nota: %v\n", err)
			return models.Reply{Text: "Could not delete the note."}
		}
		if !found {
			return models.Reply{Text: "Note not found."}
		}
		return models.Reply{Text: "Note deleted."}

	default:
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			return models.Reply{Text: noteUsage}
		}
		if err := r.Notes.Put(user, parts[0], strings.TrimSpace(parts[1])); err != nil {
			fmt.Printf("Errore nel salvataggio della nota: %v\n", err)
			return models.Reply{Text: "Could not save the note."}
		}
		return models.Reply{Text: "✅ Note saved."}
	}
}

func (r *Router) listNotes(user string) models.Reply {
	items, err := r.Notes.Get(user)
	if err != nil {
		fmt.Printf("Errore nella lettura delle note: %v\n", err)
		return models.Reply{Text: "Could not read your notes."}
	}
	if len(items) == 0 {
		return models.Reply{Text: "No notes saved."}
	}

	var b strings.Builder
	b.WriteString("Your notes:\n")
	for _, note := range items {
		b.WriteString(fmt.Sprintf("%s: %s\n", note.Key, note.Text))
	}
	return models.Reply{Text: strings.TrimRight(b.String(), "\n")}
}
