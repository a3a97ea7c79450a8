package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"telegram-ai-bot/assets"
	"telegram-ai-bot/clients"
	"telegram-ai-bot/db"
	"telegram-ai-bot/handlers"
	"telegram-ai-bot/notes"
	"telegram-ai-bot/router"
	"telegram-ai-bot/telegram"
	"telegram-ai-bot/utils"
)

func main() {
	// Le variabili in .env integrano l'ambiente, se il file esiste
	_ = godotenv.Load()

	// Carica la configurazione
	config, err := utils.LoadConfig("config.json")
	if err != nil {
		fmt.Println("Errore nel caricamento della configurazione:", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Println("Configurazione non valida:", err)
		os.Exit(1)
	}

	uploadsDir := filepath.Join(config.DataDir, "uploads")
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		fmt.Println("Errore nella creazione della directory dati:", err)
		os.Exit(1)
	}

	// Inizializza l'archivio delle conversazioni
	var archive db.Archive
	switch config.Archive.Driver {
	case "mysql":
		archive, err = db.NewMySQLManager(config.Archive.GetDSN())
	default:
		archive, err = db.NewSQLiteManager(config.Archive.Path)
	}
	if err != nil {
		fmt.Println("Errore nell'inizializzazione dell'archivio:", err)
		os.Exit(1)
	}
	defer archive.Close()

	// Inizializza il deposito delle note
	var noteStore notes.Store
	if config.NotesBackend == "file" {
		noteStore, err = notes.NewFileStore(filepath.Join(config.DataDir, "notes.json"))
	} else {
		noteStore, err = notes.NewBoltStore(filepath.Join(config.DataDir, "notes.db"))
	}
	if err != nil {
		fmt.Println("Errore nell'inizializzazione delle note:", err)
		os.Exit(1)
	}
	defer noteStore.Close()

	// Inizializza il registro degli asset caricati
	registry, err := assets.NewRegistry(filepath.Join(config.DataDir, "assets.db"), uploadsDir, config.Server.PublicBaseURL)
	if err != nil {
		fmt.Println("Errore nell'inizializzazione del registro asset:", err)
		os.Exit(1)
	}
	defer registry.Close()

	// Costruisci il router con i capability client
	bot := &router.Router{
		AI:      clients.NewAIClient(config.OpenRouter.APIKey, config.OpenRouter.Model, config.OpenRouter.MaxTokens),
		Wiki:    clients.NewWikiClient(),
		Weather: clients.NewWeatherClient(config.Weather.APIKey),
		Speech:  clients.NewTTSClient(uploadsDir, "en"),
		PDF:     clients.NewPDFClient(config.DataDir),
		Notes:   noteStore,
		Assets:  registry,
		Archive: archive,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Client Telegram e menu dei comandi
	api := telegram.NewClient(nil, config.Telegram.Token)
	if me, err := api.GetMe(ctx); err != nil {
		fmt.Println("Errore nella verifica del token Telegram:", err)
		os.Exit(1)
	} else {
		fmt.Printf("Bot Telegram connesso come @%s\n", me.Username)
	}
	registerBotCommands(ctx, api)

	// Avvia il server HTTP in una goroutine
	engine := gin.Default()
	handlers.SetupAPIRoutes(engine, bot, registry, archive)
	go func() {
		addr := fmt.Sprintf(":%d", config.Server.Port)
		if err := engine.Run(addr); err != nil {
			fmt.Printf("Errore nell'avvio del server: %v\n", err)
		}
	}()
	fmt.Printf("Server web avviato su http://localhost:%d\n", config.Server.Port)

	// Avvia il long polling di Telegram
	go runTelegramLoop(ctx, api, bot)

	// Gestisci chiusura corretta
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	fmt.Println("Arresto in corso...")
	cancel()
}

// Imposta il menu dei comandi del bot (tre puntini)
func registerBotCommands(ctx context.Context, api *telegram.Client) {
	commands := make([]telegram.BotCommand, 0, len(router.Commands))
	for _, cmd := range router.Commands {
		commands = append(commands, telegram.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}
	if err := api.SetMyCommands(ctx, commands); err != nil {
		fmt.Printf("Errore nell'impostazione dei comandi: %v\n", err)
	}
}
