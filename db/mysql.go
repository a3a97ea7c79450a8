package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"telegram-ai-bot/models"
)

// MySQLManager è l'archivio alternativo per installazioni con database esterno
type MySQLManager struct {
	db *sql.DB
}

// Crea una nuova istanza del gestore MySQL
func NewMySQLManager(dsn string) (*MySQLManager, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Verifica la connessione
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Imposta i parametri di connessione
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	m := &MySQLManager{db: db}
	if err := m.InitTables(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// Inizializza le tabelle necessarie
func (m *MySQLManager) InitTables() error {
	// Tabella per le chat
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS chats (
			id VARCHAR(255) PRIMARY KEY,
			channel VARCHAR(32) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("errore nella creazione della tabella chats: %v", err)
	}

	// Tabella per i messaggi
	_, err = m.db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id VARCHAR(255) PRIMARY KEY,
			chat_id VARCHAR(255) NOT NULL,
			channel VARCHAR(32) NOT NULL,
			sender VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			reply TEXT,
			timestamp TIMESTAMP NOT NULL,
			is_media BOOLEAN DEFAULT FALSE,
			media_path VARCHAR(255),
			FOREIGN KEY (chat_id) REFERENCES chats(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("errore nella creazione della tabella messages: %v", err)
	}
	return nil
}

// Salva una chat (inserimento idempotente)
func (m *MySQLManager) SaveChat(chat *models.Chat) error {
	_, err := m.db.Exec(`
		INSERT INTO chats (id, channel) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE channel = VALUES(channel)
	`, chat.ID, chat.Channel)
	return err
}

// Carica tutte le chat
func (m *MySQLManager) LoadChats() ([]*models.Chat, error) {
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
func (m *MySQLManager) SaveMessage(message *models.Message) error {
	_, err := m.db.Exec(`
		REPLACE INTO messages
		(id, chat_id, channel, sender, content, reply, timestamp, is_media, media_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, message.ID, message.Chat, message.Channel, message.Sender, message.Content,
		message.Reply, message.Timestamp, message.IsMedia, message.MediaPath)
	return err
}

// Carica tutti i messaggi di una chat in ordine cronologico
func (m *MySQLManager) LoadChatMessages(chatID string) ([]models.Message, error) {
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

func (m *MySQLManager) Close() error {
	return m.db.Close()
}
