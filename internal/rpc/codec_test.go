package rpc

import (
	"strings"
	"testing"
)

type codecPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

func TestCodecName(t *testing.T) {
	if got := (jsonCodec{}).Name(); got != CodecName {
		t.Errorf("Name() = %q, want %q", got, CodecName)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	in := codecPayload{Name: "support-classifier", Count: 3}
	data, err := jsonCodec{}.Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"name":"support-classifier"`) {
		t.Errorf("encoded %s missing name field", data)
	}

	var out codecPayload
	if err := (jsonCodec{}).Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestCodecMarshalError(t *testing.T) {
	_, err := jsonCodec{}.Marshal(make(chan int))
	if err == nil {
		t.Fatal("expected error for unencodable value")
	}
	if !strings.Contains(err.Error(), "rpc: marshal") {
		t.Errorf("error %q missing marshal context", err)
	}
}

func TestCodecUnmarshalError(t *testing.T) {
	var out codecPayload
	err := (jsonCodec{}).Unmarshal([]byte("{"), &out)
	if err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if !strings.Contains(err.Error(), "rpc: unmarshal into") {
		t.Errorf("error %q missing unmarshal context", err)
	}
}

func BenchmarkCodecMarshal(b *testing.B) {
	payload := &codecPayload{Name: "support-classifier", Count: 12}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := (jsonCodec{}).Marshal(payload); err != nil {
			b.Fatal(err)
		}
	}
}
