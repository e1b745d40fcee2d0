package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDoc_CoversEveryAPIRoute(t *testing.T) {
	h := newHarness(t)

	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read swagger doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("swagger doc is not valid JSON: %v", err)
	}

	methods := map[string]bool{http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true}
	checked := 0
	for _, r := range h.e.Routes() {
		if !methods[r.Method] || !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		path := strings.ReplaceAll(strings.TrimPrefix(r.Path, "/api"), ":id", "{id}")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s is not documented", r.Method, path)
		}
		checked++
	}
	if checked < 13 {
		t.Fatalf("expected every API route to be checked, saw %d", checked)
	}
}
