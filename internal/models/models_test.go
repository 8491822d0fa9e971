package models

import (
	"encoding/json"
	"testing"
)

func TestChatRequestWireFormat(t *testing.T) {
	data, err := json.Marshal(ChatRequest{Message: "Hi", Persona: "movie_expert"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"message":"Hi","persona":"movie_expert"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestMessageIsUser(t *testing.T) {
	tests := []struct {
		sender Sender
		want   bool
	}{
		{SenderUser, true},
		{SenderBot, false},
	}

	for _, tt := range tests {
		t.Run(tt.sender.String(), func(t *testing.T) {
			if got := (Message{Sender: tt.sender}).IsUser(); got != tt.want {
				t.Errorf("IsUser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultHeaders(t *testing.T) {
	headers := DefaultHeaders()
	if headers[HeaderContentType] != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", headers[HeaderContentType])
	}

	// callers may mutate the map
	headers["X-Test"] = "1"
	if _, ok := DefaultHeaders()["X-Test"]; ok {
		t.Error("DefaultHeaders() should return a fresh map")
	}
}
