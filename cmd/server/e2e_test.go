package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/app"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/config"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/testutil"
)

func TestIntegration(t *testing.T) {
	// 1. Setup app over an in-memory database
	cfg := &config.Config{
		DatabaseURL:          ":memory:",
		AppEnv:               "test",
		JWTSecret:            "e2e-secret",
		AllowedOrigins:       []string{"*"},
		SiteURL:              "http://localhost:3000",
		CardImageBaseURL:     "https://imgs.example.com/cards",
		BinderImageBaseURL:   "https://imgs.example.com/binders",
		CacheTTL:             time.Minute,
		CacheCapacity:        1000,
		CacheShards:          4,
		CacheEvictionPercent: 10,
		DBPoolSize:           1,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Failed to init app: %v", err)
	}
	defer application.Close()
	testutil.Seed(t, application.Store)

	server := httptest.NewServer(application.Handler)
	defer server.Close()
	client := server.Client()

	authed := func(method, path string, body []byte) *http.Response {
		req, err := http.NewRequest(method, server.URL+path, bytes.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: testutil.SignToken(t, cfg.JWTSecret, testutil.Alice)})
		resp, err := client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	// TEST 1: Create Binder
	payload := map[string]interface{}{
		"name":      "Spellcasters",
		"thumbnail": testutil.DragonCover,
		"tags":      []string{"t1", "t5"},
	}
	body, _ := json.Marshal(payload)
	resp := authed(http.MethodPost, "/binders", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		ID      int64    `json:"id"`
		OwnerID string   `json:"owner_id"`
		Tags    []string `json:"tags"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.ID == 0 {
		t.Fatal("Binder id is empty")
	}
	if created.OwnerID != testutil.Alice {
		t.Errorf("Expected owner %s, got %s", testutil.Alice, created.OwnerID)
	}
	if len(created.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", created.Tags)
	}
	binderPath := "/binders/" + strconv.FormatInt(created.ID, 10)

	// TEST 2: Move cards into it
	move := map[string]interface{}{
		"cards": []map[string]interface{}{
			{"cardId": testutil.DarkMagician, "binderId": created.ID, "position": 1, "rarity": "Ultra Rare"},
			{"cardId": testutil.DarkMagicianGirl, "binderId": created.ID, "position": 2},
		},
	}
	body, _ = json.Marshal(move)
	resp = authed(http.MethodPost, "/cards/move", body)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("Move expected 200, got %d: %s", resp.StatusCode, string(b))
	}
	resp.Body.Close()

	// TEST 3: List binder cards in position order
	resp, err = client.Get(server.URL + binderPath + "/cards")
	if err != nil {
		t.Fatal(err)
	}
	var cards []struct {
		ID       int64 `json:"id"`
		Position int   `json:"position"`
	}
	json.NewDecoder(resp.Body).Decode(&cards)
	resp.Body.Close()
	if len(cards) != 2 || cards[0].ID != testutil.DarkMagician || cards[1].ID != testutil.DarkMagicianGirl {
		t.Errorf("Unexpected binder cards: %+v", cards)
	}

	// TEST 4: Views counted once per cache window
	var views [2]int64
	for i := range views {
		resp, err = client.Get(server.URL + binderPath)
		if err != nil {
			t.Fatal(err)
		}
		var b struct {
			Views int64 `json:"views"`
		}
		json.NewDecoder(resp.Body).Decode(&b)
		resp.Body.Close()
		views[i] = b.Views
	}
	if views[0] != 1 || views[1] != 1 {
		t.Errorf("Expected cached view count 1, got %v", views)
	}

	// TEST 5: Delete cascades
	resp = authed(http.MethodDelete, binderPath, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Delete expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = client.Get(server.URL + binderPath)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Deleted binder expected 404, got %d", resp.StatusCode)
	}

	if _, err := application.Store.CardPlacement(context.Background(), testutil.DarkMagician, created.ID); err == nil {
		t.Error("Expected placements to be removed with the binder")
	}

	// TEST 6: Export (Dump)
	dump, err := application.Store.DumpCards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(dump) != 5 {
		t.Errorf("Expected 5 cards in dump, got %d", len(dump))
	}
}
