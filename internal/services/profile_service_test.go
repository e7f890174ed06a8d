package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinepoll/internal/api"
	"cinepoll/internal/session"
	"cinepoll/internal/storage"
	cinepoll_errors "cinepoll/pkg/errors"
)

func TestProfileUpdateSyncsSession(t *testing.T) {
	ctx := context.Background()

	var sent map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/profile/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewDecoder(r.Body).Decode(&sent)
		// A sparse echo: no id, no email.
		fmt.Fprint(w, `{"name":"Ada L.","phone":"555-0100","preferredCinemas":["Odeon"]}`)
	}))
	t.Cleanup(server.Close)

	sessions := newVoterSession(t)
	profiles := NewProfileService(api.NewClient(server.URL, server.Client(), sessions, nil), sessions)

	updated, err := profiles.Update(ctx, api.ProfileInput{
		Name:    "Ada L.",
		Phone:   "555-0100",
		Cinemas: []string{"Odeon"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if sent["name"] != "Ada L." || sent["phone"] != "555-0100" {
		t.Errorf("request body = %v", sent)
	}
	if _, present := sent["email"]; present {
		t.Error("untouched field sent to the server")
	}

	// Identity backfilled from the prior record.
	if updated.ID != "42" {
		t.Errorf("ID = %q, want backfilled %q", updated.ID, "42")
	}
	if updated.Email != "voter@example.com" {
		t.Errorf("Email = %q, want backfilled", updated.Email)
	}

	current, ok := sessions.Current()
	if !ok {
		t.Fatal("session lost after update")
	}
	if current.Name != "Ada L." || current.Phone != "555-0100" {
		t.Errorf("session record not synced: %+v", current)
	}
	// Tokens survive a profile edit.
	if sessions.AccessToken() != "tok" {
		t.Error("access token lost after profile update")
	}
}

func TestProfileUpdateRequiresSession(t *testing.T) {
	anonymous := session.NewStore(storage.NewMemStore())
	if err := anonymous.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	served := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	}))
	t.Cleanup(server.Close)

	profiles := NewProfileService(api.NewClient(server.URL, server.Client(), anonymous, nil), anonymous)
	_, err := profiles.Update(context.Background(), api.ProfileInput{Name: "x"})
	if !errors.Is(err, cinepoll_errors.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if served {
		t.Error("anonymous update reached the network")
	}
}
