package notes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"telegram-ai-bot/models"
)

// FileStore è il deposito note alternativo su singolo file JSON
// (mappa utente -> chiave -> nota). Ogni mutazione rilegge e riscrive
// l'intero file; il mutex evita che due scritture si perdano a vicenda
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore crea il deposito; il file viene creato al primo salvataggio
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("errore nella creazione della directory delle note: %v", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) load() (map[string]map[string]models.Note, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]models.Note{}, nil
		}
		return nil, err
	}

	all := map[string]map[string]models.Note{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("errore nella lettura del file delle note: %v", err)
	}
	return all, nil
}

// Scrittura atomica: file temporaneo più rename
func (s *FileStore) save(all map[string]map[string]models.Note) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("errore nella scrittura del file delle note: %v", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Get(user string) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}

	var result []models.Note
	for _, note := range all[user] {
		result = append(result, note)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

func (s *FileStore) Put(user, key, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	if all[user] == nil {
		all[user] = map[string]models.Note{}
	}
	all[user][key] = models.Note{
		Key:     key,
		Text:    text,
		AddedAt: time.Now(),
	}
	return s.save(all)
}

func (s *FileStore) Delete(user, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := all[user][key]; !ok {
		return false, nil
	}
	delete(all[user], key)
	return true, s.save(all)
}

func (s *FileStore) Clear(user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := all[user]; !ok {
		return nil
	}
	delete(all, user)
	return s.save(all)
}

func (s *FileStore) Close() error {
	return nil
}
