package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"telegram-ai-bot/models"
	"telegram-ai-bot/router"
	"telegram-ai-bot/telegram"
)

const (
	pollTimeout     = 30 * time.Second
	dispatchTimeout = 90 * time.Second
	maxConcurrency  = 4
	maxPhotoBytes   = 20 * 1024 * 1024
)

// runTelegramLoop esegue il long polling e smista ogni aggiornamento a un
// worker: il loop non resta mai bloccato su una chiamata esterna lenta
func runTelegramLoop(ctx context.Context, api *telegram.Client, bot *router.Router) {
	// Limita il numero di dispatch concorrenti
	sem := make(chan struct{}, maxConcurrency)
	var offset int64

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, next, err := api.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Printf("Errore nel polling di Telegram: %v\n", err)
			time.Sleep(3 * time.Second)
			continue
		}
		offset = next

		for _, update := range updates {
			msg := update.Message
			if msg == nil || msg.Chat == nil {
				continue
			}
			if msg.From != nil && msg.From.IsBot {
				continue
			}

			sem <- struct{}{}
			go func(msg *telegram.Message) {
				defer func() { <-sem }()
				handleTelegramMessage(ctx, api, bot, msg)
			}(msg)
		}
	}
}

// Converte un messaggio Telegram, lo passa al router e invia la risposta
// con la primitiva adatta
func handleTelegramMessage(ctx context.Context, api *telegram.Client, bot *router.Router, msg *telegram.Message) {
	dispatchCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	chatID := msg.Chat.ID
	inbound := models.InboundMessage{
		Channel: "telegram",
		ChatID:  strconv.FormatInt(chatID, 10),
		Text:    msg.Text,
	}
	if msg.From != nil {
		inbound.UserID = strconv.FormatInt(msg.From.ID, 10)
	}

	// Scarica la foto allegata (versione a risoluzione più alta)
	if photo := telegram.LargestPhoto(msg.Photo); photo != nil {
		if inbound.Text == "" {
			inbound.Text = msg.Caption
		}
		data, err := downloadPhoto(dispatchCtx, api, photo.FileID)
		if err != nil {
			fmt.Printf("Errore nel download della foto: %v\n", err)
			sendReply(dispatchCtx, api, chatID, models.Reply{Text: "Failed to save image."})
			return
		}
		inbound.Photo = data
		inbound.PhotoName = "tg.jpg"
	}

	// Segnala che il bot sta elaborando
	if err := api.SendChatAction(dispatchCtx, chatID, "typing"); err != nil {
		fmt.Printf("Errore nell'invio della chat action: %v\n", err)
	}

	reply := bot.Handle(dispatchCtx, inbound)
	sendReply(dispatchCtx, api, chatID, reply)
}

func downloadPhoto(ctx context.Context, api *telegram.Client, fileID string) ([]byte, error) {
	file, err := api.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return api.DownloadFile(ctx, file.FilePath, maxPhotoBytes)
}

// Invia la risposta del router usando la primitiva corretta; i file
// transitori vengono eliminati dopo l'invio
func sendReply(ctx context.Context, api *telegram.Client, chatID int64, reply models.Reply) {
	var err error
	switch {
	case reply.PhotoURL != "":
		err = api.SendPhoto(ctx, chatID, reply.PhotoURL, reply.Caption)

	case reply.AudioPath != "":
		err = api.SendAudio(ctx, chatID, reply.AudioPath)
		if reply.Transient {
			os.Remove(reply.AudioPath)
		}

	case reply.DocumentPath != "":
		err = api.SendDocument(ctx, chatID, reply.DocumentPath)
		if reply.Transient {
			os.Remove(reply.DocumentPath)
		}

	case reply.Text != "":
		err = api.SendMessage(ctx, chatID, reply.Text)

	default:
		// Nessuna azione (comando sconosciuto)
		return
	}

	if err != nil {
		fmt.Printf("Errore nell'invio della risposta: %v\n", err)
	}
}
