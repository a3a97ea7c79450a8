package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/gin-gonic/gin"

	"telegram-ai-bot/assets"
	"telegram-ai-bot/db"
	"telegram-ai-bot/models"
	"telegram-ai-bot/router"
)

// SetupAPIRoutes configura tutte le rotte del front end web
func SetupAPIRoutes(engine *gin.Engine, bot *router.Router, registry *assets.Registry, archive db.Archive) {
	engine.Use(CORSMiddleware())

	engine.GET("/", ServeIndex)

	// Chat web: stesso router del bot Telegram, in modo sincrono
	engine.POST("/webchat", func(c *gin.Context) {
		var req models.WebChatRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
			c.JSON(http.StatusOK, models.WebChatResponse{Reply: "Send some text."})
			return
		}

		msg := models.InboundMessage{
			Channel: "web",
			ChatID:  "web:" + c.ClientIP(),
			UserID:  "web:" + c.ClientIP(),
			Text:    req.Text,
		}
		reply := bot.Handle(c.Request.Context(), msg)
		text := renderReplyForWeb(reply, registry)

		BroadcastToClients("webchat", models.WebChatExchange{
			ChatID: msg.ChatID,
			Text:   req.Text,
			Reply:  text,
		})
		c.JSON(http.StatusOK, models.WebChatResponse{Reply: text})
	})

	// Upload di un file dall'interfaccia web
	engine.POST("/upload", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusOK, models.UploadResponse{OK: false, Error: "No file"})
			return
		}
		defer file.Close()

		ref, err := registry.Save(header.Filename, file)
		if err != nil {
			fmt.Printf("Errore nel salvataggio dell'upload: %v\n", err)
			c.JSON(http.StatusOK, models.UploadResponse{OK: false, Error: "Save failed"})
			return
		}

		c.JSON(http.StatusOK, models.UploadResponse{
			OK:       true,
			Filename: ref,
			URL:      registry.PublicURL(ref),
		})
	})

	// Streaming degli asset registrati, solo tramite riferimento opaco
	engine.GET("/files/:ref", func(c *gin.Context) {
		path, err := registry.Resolve(c.Param("ref"))
		if err != nil {
			c.String(http.StatusNotFound, "File non trovato")
			return
		}
		c.File(path)
	})

	// API per ottenere le chat archiviate
	engine.GET("/api/history", func(c *gin.Context) {
		chatList, err := archive.LoadChats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Errore nel caricamento delle chat: %v", err)})
			return
		}

		// Per ogni chat, carica l'ultimo messaggio
		for _, chat := range chatList {
			dbMessages, err := archive.LoadChatMessages(chat.ID)
			if err != nil || len(dbMessages) == 0 {
				continue
			}
			chat.LastMessage = dbMessages[len(dbMessages)-1]
		}

		// Ordina le chat per timestamp dell'ultimo messaggio (più recente prima)
		sort.Slice(chatList, func(i, j int) bool {
			return chatList[i].LastMessage.Timestamp.After(chatList[j].LastMessage.Timestamp)
		})
		c.JSON(http.StatusOK, chatList)
	})

	// API per ottenere i messaggi di una chat specifica
	engine.GET("/api/history/:chat", func(c *gin.Context) {
		dbMessages, err := archive.LoadChatMessages(c.Param("chat"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Errore nel caricamento dei messaggi: %v", err)})
			return
		}
		if len(dbMessages) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat non trovata o nessun messaggio"})
			return
		}
		c.JSON(http.StatusOK, dbMessages)
	})

	// WebSocket per gli aggiornamenti in tempo reale
	engine.GET("/ws", func(c *gin.Context) {
		HandleWebSocket(c.Writer, c.Request)
	})
}

// La chat web può restituire solo testo: i media generati vengono
// registrati come asset e rimpiazzati dal loro URL pubblico
func renderReplyForWeb(reply models.Reply, registry *assets.Registry) string {
	switch {
	case reply.PhotoURL != "":
		if reply.Caption != "" {
			return reply.Caption + "\n" + reply.PhotoURL
		}
		return reply.PhotoURL

	case reply.AudioPath != "":
		return "🔊 " + publishLocalFile(reply, reply.AudioPath, registry)

	case reply.DocumentPath != "":
		return "📄 " + publishLocalFile(reply, reply.DocumentPath, registry)
	}

	if reply.Text == "" {
		return "…"
	}
	return reply.Text
}

func publishLocalFile(reply models.Reply, path string, registry *assets.Registry) string {
	file, err := os.Open(path)
	if err != nil {
		return "(file non disponibile)"
	}
	defer file.Close()

	ref, err := registry.Save(filepath.Base(path), file)
	if err != nil {
		return "(file non disponibile)"
	}
	if reply.Transient {
		os.Remove(path)
	}
	return registry.PublicURL(ref)
}
