package clients

import (
	"errors"
)

// ErrNotFound indica che la risorsa cercata non esiste (voce o città)
var ErrNotFound = errors.New("non trovato")

// ErrNotConfigured indica che manca la credenziale per il servizio
var ErrNotConfigured = errors.New("servizio non configurato")
