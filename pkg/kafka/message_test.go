package kafka

import (
	"encoding/json"
	"testing"
)

func TestMessageBuilder(t *testing.T) {
	payload := map[string]string{"reservation_id": "res-1"}

	msg, err := NewMessage().
		WithKey("res-1").
		WithEventType("reservation.created").
		WithCorrelationID("corr-1").
		WithJSONValue(payload).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(msg.Key) != "res-1" {
		t.Errorf("expected key res-1, got %s", msg.Key)
	}

	var decoded map[string]string
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("value is not valid JSON: %v", err)
	}
	if decoded["reservation_id"] != "res-1" {
		t.Errorf("payload mismatch: %v", decoded)
	}

	if HeaderValue(msg, HeaderEventType) != "reservation.created" {
		t.Errorf("expected event-type header, got %q", HeaderValue(msg, HeaderEventType))
	}
	if HeaderValue(msg, HeaderCorrelationID) != "corr-1" {
		t.Errorf("expected correlation-id header, got %q", HeaderValue(msg, HeaderCorrelationID))
	}
	if HeaderValue(msg, HeaderEventID) == "" {
		t.Error("expected a generated event-id header")
	}
	if HeaderValue(msg, HeaderContentType) != "application/json" {
		t.Errorf("expected JSON content type, got %q", HeaderValue(msg, HeaderContentType))
	}
}

func TestMessageBuilder_Validation(t *testing.T) {
	if _, err := NewMessage().WithEventType("x").Build(); err == nil {
		t.Error("expected error for missing value")
	}
	if _, err := NewMessage().WithJSONValue(map[string]string{}).Build(); err == nil {
		t.Error("expected error for missing event type")
	}
	if _, err := NewMessage().WithEventType("x").WithJSONValue(make(chan int)).Build(); err == nil {
		t.Error("expected error for unmarshalable payload")
	}
}

func TestMessageBuilder_GeneratedEventIDsDiffer(t *testing.T) {
	first, err := NewMessage().WithEventType("x").WithJSONValue(map[string]string{}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewMessage().WithEventType("x").WithJSONValue(map[string]string{}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if HeaderValue(first, HeaderEventID) == HeaderValue(second, HeaderEventID) {
		t.Error("event ids must be unique per message")
	}
}
