package model

import "testing"

func TestDecodeLine(t *testing.T) {
	raw := `{"timestamp":"t1","event":"SessionStart","session_id":"s1","data":{"cwd":"/work"}}`
	e, ok := DecodeLine([]byte(raw))
	if !ok {
		t.Fatal("expected line to decode")
	}
	if e.Timestamp != "t1" || e.Event != EventSessionStart || e.SessionID != "s1" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Data["cwd"] != "/work" {
		t.Fatalf("data payload lost: %+v", e.Data)
	}
}

func TestDecodeLineUnknownEventPassesThrough(t *testing.T) {
	e, ok := DecodeLine([]byte(`{"timestamp":"t1","event":"FutureKind","session_id":"s1"}`))
	if !ok || e.Event != "FutureKind" {
		t.Fatalf("unknown event kinds must pass through opaquely: ok=%v entry=%+v", ok, e)
	}
}

func TestDecodeLineRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "{truncated", "plain text"} {
		if _, ok := DecodeLine([]byte(raw)); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}
