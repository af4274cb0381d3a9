package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newItemTarget(t *testing.T, handler http.HandlerFunc) *Target {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	h := newTestTargets(t, Config{
		Targets: map[string]TargetConfig{"items": {URL: srv.URL + "/items"}},
	})
	return mustTarget(t, h, "items")
}

func TestGet_Success(t *testing.T) {
	target := newItemTarget(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/items/1" {
			t.Errorf("expected /items/1, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(testItem{ID: 1, Name: "Widget"})
	})

	resp, err := Get[testItem](context.Background(), target, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Data.Name != "Widget" {
		t.Errorf("expected Widget, got %s", resp.Data.Name)
	}
}

func TestPost_Success(t *testing.T) {
	target := newItemTarget(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		var item testItem
		json.NewDecoder(r.Body).Decode(&item)
		item.ID = 42
		w.WriteHeader(201)
		json.NewEncoder(w).Encode(item)
	})

	resp, err := Post[testItem](context.Background(), target, "", testItem{Name: "Gadget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if resp.Data.ID != 42 || resp.Data.Name != "Gadget" {
		t.Errorf("unexpected item %+v", resp.Data)
	}
}

func TestPut_Patch_Delete(t *testing.T) {
	target := newItemTarget(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items/7" {
			t.Errorf("expected /items/7, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(testItem{ID: 7, Name: r.Method})
	})
	ctx := context.Background()

	put, err := Put[testItem](ctx, target, "7", testItem{Name: "x"})
	if err != nil || put.Data.Name != http.MethodPut {
		t.Errorf("Put: %+v, %v", put, err)
	}
	patch, err := Patch[testItem](ctx, target, "7", map[string]string{"name": "y"})
	if err != nil || patch.Data.Name != http.MethodPatch {
		t.Errorf("Patch: %+v, %v", patch, err)
	}
	del, err := Delete[testItem](ctx, target, "7")
	if err != nil || del.Data.Name != http.MethodDelete {
		t.Errorf("Delete: %+v, %v", del, err)
	}
}

func TestGet_ErrorWithBody(t *testing.T) {
	target := newItemTarget(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(testItem{Name: "missing"})
	})

	resp, err := Get[testItem](context.Background(), target, "9")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if resp == nil || resp.Data.Name != "missing" {
		t.Errorf("expected decoded error body, got %+v", resp)
	}
}

func TestGet_DecodeError(t *testing.T) {
	target := newItemTarget(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	if _, err := Get[testItem](context.Background(), target, "1"); !HasCode(err, ErrCodeDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestGet_RequestOptions(t *testing.T) {
	target := newItemTarget(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Trace") != "abc" {
			t.Errorf("expected X-Trace header, got %q", r.Header.Get("X-Trace"))
		}
		if r.URL.Query().Get("expand") != "all" {
			t.Errorf("expected expand=all, got %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]testItem{{ID: 1}, {ID: 2}})
	})

	resp, err := Get[[]testItem](context.Background(), target, "",
		WithHeader("X-Trace", "abc"), WithQueryParam("expand", "all"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 items, got %d", len(resp.Data))
	}
}
