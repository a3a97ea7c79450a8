package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"telegram-ai-bot/models"
)

// SQLiteManager è l'archivio predefinito, su file embedded
type SQLiteManager struct {
	db *sql.DB
}

// Crea una nuova istanza del gestore SQLite
func NewSQLiteManager(path string) (*SQLiteManager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("errore nella creazione della directory del database: %v", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, err
	}

	// Verifica la connessione
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// SQLite non gradisce scritture concorrenti sulla stessa connessione
	db.SetMaxOpenConns(1)

	m := &SQLiteManager{db: db}
	if err := m.InitTables(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// Inizializza le tabelle necessarie
func (m *SQLiteManager) InitTables() error {
	// Tabella per le chat
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS chats (
			id TEXT PRIMARY KEY,
			channel TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("errore nella creazione della tabella chats: %v", err)
	}

	// Tabella per i messaggi
	_, err = m.db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			channel TEXT NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			reply TEXT,
			timestamp TIMESTAMP NOT NULL,
			is_media BOOLEAN DEFAULT FALSE,
			media_path TEXT,
			FOREIGN KEY (chat_id) REFERENCES chats(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("errore nella creazione della tabella messages: %v", err)
	}

	_, err = m.db.Exec(`CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, timestamp)`)
	if err != nil {
		return fmt.Errorf("errore nella creazione degli indici: %v", err)
	}
	return nil
}

// Salva una chat (inserimento idempotente)
func (m *SQLiteManager) SaveChat(chat *models.Chat) error {
	_, err := m.db.Exec(`
		INSERT INTO chats (id, channel) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET channel = excluded.channel
	`, chat.ID, chat.Channel)
	return err
}

// Carica tutte le chat
func (m *SQLiteManager) LoadChats() ([]*models.Chat, error) {
	rows, err := m.db.Query(`SELECT id, channel FROM chats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		chat := &models.Chat{}
		if err := rows.Scan(&chat.ID, &chat.Channel); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// Salva un messaggio con la relativa risposta
func (m *SQLiteManager) SaveMessage(message *models.Message) error {
	_, err := m.db.Exec(`
		INSERT OR REPLACE INTO messages
		(id, chat_id, channel, sender, content, reply, timestamp, is_media, media_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, message.ID, message.Chat, message.Channel, message.Sender, message.Content,
		message.Reply, message.Timestamp, message.IsMedia, message.MediaPath)
	return err
}

// Carica tutti i messaggi di una chat in ordine cronologico
func (m *SQLiteManager) LoadChatMessages(chatID string) ([]models.Message, error) {
	rows, err := m.db.Query(`
		SELECT id, chat_id, channel, sender, content, reply, timestamp, is_media, media_path
		FROM messages WHERE chat_id = ? ORDER BY timestamp
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (m *SQLiteManager) Close() error {
	return m.db.Close()
}

// Condiviso con il gestore MySQL
func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var reply, mediaPath sql.NullString
		var timestamp time.Time
		if err := rows.Scan(&msg.ID, &msg.Chat, &msg.Channel, &msg.Sender,
			&msg.Content, &reply, &timestamp, &msg.IsMedia, &mediaPath); err != nil {
			return nil, err
		}
		msg.Reply = reply.String
		msg.MediaPath = mediaPath.String
		msg.Timestamp = timestamp
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
