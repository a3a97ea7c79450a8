package notes

import (
	"bytes"
	"encoding/gob"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"telegram-ai-bot/models"
)

var notesBucket = []byte("notes")

// BoltStore è il deposito note predefinito, basato su bbolt: ogni utente ha
// un bucket annidato e ogni mutazione è una transazione, quindi due salvataggi
// concorrenti non possono perdersi a vicenda
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore apre (o crea) il database delle note
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(notesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Restituisce le note dell'utente ordinate per chiave
func (s *BoltStore) Get(user string) ([]models.Note, error) {
	var result []models.Note

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(notesBucket).Bucket([]byte(user))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var note models.Note
			if err := decodeBinary(v, &note); err != nil {
				return nil // nota corrotta, la saltiamo
			}
			result = append(result, note)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

// Salva o sovrascrive una nota
func (s *BoltStore) Put(user, key, text string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.Bucket(notesBucket).CreateBucketIfNotExists([]byte(user))
		if err != nil {
			return err
		}
		data, err := encodeToBinary(models.Note{
			Key:     key,
			Text:    text,
			AddedAt: time.Now(),
		})
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
}

// Elimina una nota
func (s *BoltStore) Delete(user, key string) (bool, error) {
	found := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(notesBucket).Bucket([]byte(user))
		if bucket == nil {
			return nil
		}
		if bucket.Get([]byte(key)) == nil {
			return nil
		}
		found = true
		return bucket.Delete([]byte(key))
	})
	return found, err
}

// Elimina tutte le note dell'utente
func (s *BoltStore) Clear(user string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(notesBucket)
		if root.Bucket([]byte(user)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(user))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func encodeToBinary(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(data)
	return buf.Bytes(), err
}

func decodeBinary(data []byte, target interface{}) error {
	buf := bytes.NewBuffer(data)
	return gob.NewDecoder(buf).Decode(target)
}
