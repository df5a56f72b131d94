package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestChatFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Chat
		wantErr bool
	}{
		{"full record", `{"id":"c1","userId":"u1","name":"Hello"}`, Chat{ID: "c1", UserID: "u1", Name: "Hello"}, false},
		{"no id", `{"userId":"u1","name":"Hello"}`, Chat{UserID: "u1", Name: "Hello"}, false},
		{"leading whitespace", `  {"id":"c2","userId":"u1","name":"x"}`, Chat{ID: "c2", UserID: "u1", Name: "x"}, false},
		{
			"embedded messages",
			`{"id":"c3","userId":"u1","name":"x","messages":[{"id":"m1","content":"hi","role":"user","chat":"c3"}]}`,
			Chat{ID: "c3", UserID: "u1", Name: "x", Messages: []Message{{ID: "m1", Content: "hi", Role: RoleUser, Chat: "c3"}}},
			false,
		},
		{"array payload", `[{"id":"c1"}]`, Chat{}, true},
		{"string payload", `"nope"`, Chat{}, true},
		{"empty payload", ``, Chat{}, true},
		{"truncated object", `{"id":"c1"`, Chat{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChatFromJSON([]byte(tt.in))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRecord) {
					t.Fatalf("ChatFromJSON(%q) err = %v, want ErrMalformedRecord", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ChatFromJSON(%q) unexpected error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChatFromJSON(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMessageFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Message
		wantErr bool
	}{
		{"user message", `{"id":"m1","content":"hi","role":"user","chat":"c1"}`, Message{ID: "m1", Content: "hi", Role: RoleUser, Chat: "c1"}, false},
		{"model message", `{"content":"hello","role":"model","chat":"c1"}`, Message{Content: "hello", Role: RoleModel, Chat: "c1"}, false},
		{"number payload", `42`, Message{}, true},
		{"null payload", `null`, Message{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MessageFromJSON([]byte(tt.in))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRecord) {
					t.Fatalf("MessageFromJSON(%q) err = %v, want ErrMalformedRecord", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MessageFromJSON(%q) unexpected error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MessageFromJSON(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMessagesFromJSON(t *testing.T) {
	data := `[{"id":"m1","content":"a","role":"user","chat":"c1"},{"id":"m2","content":"b","role":"model","chat":"c1"}]`
	msgs, err := MessagesFromJSON([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Errorf("order not preserved: %+v", msgs)
	}
}

func TestMessagesFromJSONRejectsNonArray(t *testing.T) {
	if _, err := MessagesFromJSON([]byte(`{"id":"m1"}`)); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
	// An element that is not an object fails the whole decode.
	if _, err := MessagesFromJSON([]byte(`[1,2]`)); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord for scalar elements, got %v", err)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleModel, RoleSystem} {
		if !r.Valid() {
			t.Errorf("Role(%q).Valid() = false, want true", r)
		}
	}
	if Role("assistant").Valid() {
		t.Error(`Role("assistant").Valid() = true, want false`)
	}
}
