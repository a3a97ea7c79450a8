package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetUpdatesAdvancesOffset(t *testing.T) {
	var gotOffset string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/botTOKEN/getUpdates") {
			t.Errorf("percorso inatteso: %s", r.URL.Path)
		}
		gotOffset = r.URL.Query().Get("offset")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "result": [
			{"update_id": 10, "message": {"message_id": 1, "chat": {"id": 5}, "text": "ciao"}},
			{"update_id": 12, "message": {"message_id": 2, "chat": {"id": 5}, "text": "mondo"}}
		]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(nil, server.URL, "TOKEN")
	updates, next, err := client.GetUpdates(context.Background(), 7, time.Second)
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if gotOffset != "7" {
		t.Fatalf("offset inviato = %q, want 7", gotOffset)
	}
	if len(updates) != 2 || updates[0].Message.Text != "ciao" {
		t.Fatalf("updates = %+v", updates)
	}
	if next != 13 {
		t.Fatalf("next offset = %d, want 13", next)
	}
}

func TestGetUpdatesKeepsOffsetOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "description": "Unauthorized"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(nil, server.URL, "TOKEN")
	_, next, err := client.GetUpdates(context.Background(), 42, time.Second)
	if err == nil || !strings.Contains(err.Error(), "Unauthorized") {
		t.Fatalf("err = %v", err)
	}
	if next != 42 {
		t.Fatalf("l'offset non deve avanzare in caso di errore, got %d", next)
	}
}

func TestSendMessagePayload(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("richiesta inattesa: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"ok": true, "result": {}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(nil, server.URL, "TOKEN")
	if err := client.SendMessage(context.Background(), 99, "ciao"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if payload["chat_id"].(float64) != 99 || payload["text"] != "ciao" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestGetFileWithoutPathFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true, "result": {"file_id": "abc"}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(nil, server.URL, "TOKEN")
	if _, err := client.GetFile(context.Background(), "abc"); err == nil {
		t.Fatalf("GetFile senza file_path deve fallire")
	}
}

func TestDownloadFileRespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/file/botTOKEN/photos/p.jpg") {
			t.Errorf("percorso inatteso: %s", r.URL.Path)
		}
		w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(nil, server.URL, "TOKEN")

	data, err := client.DownloadFile(context.Background(), "photos/p.jpg", 100)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if string(data) != "0123456789" {
		t.Fatalf("data = %q", data)
	}

	if _, err := client.DownloadFile(context.Background(), "photos/p.jpg", 5); err == nil {
		t.Fatalf("il download oltre il limite deve fallire")
	}
}

func TestLargestPhoto(t *testing.T) {
	sizes := []PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "big", Width: 800, Height: 600},
		{FileID: "medium", Width: 320, Height: 240},
	}
	best := LargestPhoto(sizes)
	if best == nil || best.FileID != "big" {
		t.Fatalf("LargestPhoto = %+v", best)
	}

	if LargestPhoto(nil) != nil {
		t.Fatalf("LargestPhoto(nil) deve restituire nil")
	}
}
