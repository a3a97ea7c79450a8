package assets

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"telegram-ai-bot/utils"
)

var assetsBucket = []byte("assets")

// Record descrive un file registrato nella directory degli upload
type Record struct {
	Ref      string    `json:"ref"`
	FileName string    `json:"filename"`
	SavedAt  time.Time `json:"savedAt"`
}

// Registry gestisce gli upload: ogni file salvato riceve un riferimento
// opaco (uuid) che è l'unico modo per recuperarlo. I nomi dei file su disco
// non sono mai esposti, così non si può indovinare l'upload di un altro utente
type Registry struct {
	db         *bbolt.DB
	uploadsDir string
	publicBase string
}

// NewRegistry apre l'indice dei riferimenti e prepara la directory
func NewRegistry(indexPath, uploadsDir, publicBase string) (*Registry, error) {
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("errore nella creazione della directory degli upload: %v", err)
	}

	db, err := bbolt.Open(indexPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(assetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Registry{
		db:         db,
		uploadsDir: uploadsDir,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Save scrive il contenuto su disco e registra il riferimento.
// Il nome su disco include un frammento del riferimento: due upload nello
// stesso secondo non possono sovrascriversi
func (r *Registry) Save(name string, reader io.Reader) (string, error) {
	ref := uuid.NewString()
	fileName := fmt.Sprintf("%d_%s_%s", time.Now().Unix(), ref[:8], utils.SanitizePathComponent(name))
	path := filepath.Join(r.uploadsDir, fileName)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("errore nella creazione del file: %v", err)
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("errore nella scrittura del file: %v", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	record := Record{
		Ref:      ref,
		FileName: fileName,
		SavedAt:  time.Now(),
	}
	err = r.db.Update(func(tx *bbolt.Tx) error {
		data, err := encodeToBinary(&record)
		if err != nil {
			return err
		}
		return tx.Bucket(assetsBucket).Put([]byte(ref), data)
	})
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return ref, nil
}

// SaveBytes registra un contenuto già in memoria
func (r *Registry) SaveBytes(name string, data []byte) (string, error) {
	return r.Save(name, bytes.NewReader(data))
}

// Lookup restituisce il record associato a un riferimento
func (r *Registry) Lookup(ref string) (*Record, error) {
	var record Record
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(assetsBucket).Get([]byte(ref))
		if data == nil {
			return fmt.Errorf("riferimento non trovato")
		}
		return decodeBinary(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Resolve restituisce il percorso su disco di un riferimento
func (r *Registry) Resolve(ref string) (string, error) {
	record, err := r.Lookup(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.uploadsDir, record.FileName), nil
}

// PublicURL costruisce l'URL pubblico di un riferimento. Senza base
// configurata restituisce un percorso relativo, raggiungibile solo dal web
func (r *Registry) PublicURL(ref string) string {
	if r.publicBase == "" {
		return "/files/" + url.PathEscape(ref)
	}
	return r.publicBase + "/files/" + url.PathEscape(ref)
}

func (r *Registry) Close() error {
	return r.db.Close()
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
