package request

import (
	"encoding/json"
	"testing"
)

type patchBody struct {
	Name        Field[string]          `json:"name"`
	Description Field[string]          `json:"description"`
	Config      Field[json.RawMessage] `json:"config"`
}

func TestFieldTracksPresence(t *testing.T) {
	var p patchBody
	if err := json.Unmarshal([]byte(`{"name":"x","description":null,"config":{"a":1}}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.Name.Set || p.Name.Value == nil || *p.Name.Value != "x" {
		t.Fatalf("name = %+v", p.Name)
	}
	if !p.Description.Set || p.Description.Value != nil {
		t.Fatalf("description = %+v", p.Description)
	}
	if !p.Config.Set || string(*p.Config.Value) != `{"a":1}` {
		t.Fatalf("config = %+v", p.Config)
	}

	var empty patchBody
	if err := json.Unmarshal([]byte(`{}`), &empty); err != nil {
		t.Fatal(err)
	}
	if empty.Name.Set || empty.Description.Set || empty.Config.Set {
		t.Fatalf("absent keys marked set: %+v", empty)
	}

	if err := json.Unmarshal([]byte(`{"name":5}`), &empty); err == nil {
		t.Fatal("type mismatch should fail")
	}
}
