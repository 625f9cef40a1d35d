package rpc

import (
	"context"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestClientID_FromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("client-id", "client-42"))

	if got := clientID(ctx); got != "client-42" {
		t.Errorf("Expected client-42 from metadata, got %s", got)
	}
}

func TestClientID_GeneratedFallback(t *testing.T) {
	first := clientID(context.Background())
	second := clientID(context.Background())

	if first == "" {
		t.Fatal("Fallback client ID should not be empty")
	}
	if first == second {
		t.Error("Fallback client IDs should be unique per call")
	}
}

func TestToStruct(t *testing.T) {
	out, err := toStruct(map[string]interface{}{
		"rounds": []map[string]interface{}{{"word": "apple", "room_id": "r1"}},
	})
	if err != nil {
		t.Fatalf("toStruct failed: %v", err)
	}

	fields := out.AsMap()
	rounds, ok := fields["rounds"].([]interface{})
	if !ok || len(rounds) != 1 {
		t.Fatalf("Expected one round in the payload, got %v", fields["rounds"])
	}
	round := rounds[0].(map[string]interface{})
	if round["word"] != "apple" {
		t.Errorf("Expected word apple, got %v", round["word"])
	}
}
