package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerateRecipes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate-recipes" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req RecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.NumRecipes != 2 || req.TargetCaloriesPerMeal != 667 || req.CuisinePreference != "thai" {
			t.Errorf("request = %+v", req)
		}
		_, _ = io.WriteString(w, `{"recipes":[{"name":"Banana Oat Bowl","servings":2,
			"inventory_items_used":["2 items of banana (182 cal)"],
			"nutrition_per_serving":{"calories":276,"protein":27,"carbs":33,"fats":3},
			"urgency":"high"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", Options{})
	recipes, err := c.GenerateRecipes(context.Background(), RecipeRequest{NumRecipes: 2, CuisinePreference: "thai", TargetCaloriesPerMeal: 667})
	if err != nil {
		t.Fatalf("GenerateRecipes: %v", err)
	}
	if len(recipes) != 1 {
		t.Fatalf("len = %d, want 1", len(recipes))
	}
	if recipes[0].Name != "Banana Oat Bowl" || recipes[0].TotalCalories() != 552 {
		t.Errorf("recipe = %+v", recipes[0])
	}
}

func TestGenerateRecipesEmptyInventory(t *testing.T) {
	for _, msg := range []string{"No inventory found", "Inventory is empty"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
		}))

		_, err := NewClient(srv.URL, Options{}).GenerateRecipes(context.Background(), RecipeRequest{})
		if !errors.Is(err, ErrNoInventory) {
			t.Errorf("%q: err = %v, want ErrNoInventory", msg, err)
		}
		srv.Close()
	}
}

func TestGenerateRecipesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"model overloaded"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, Options{}).GenerateRecipes(context.Background(), RecipeRequest{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != 500 || se.Message != "model overloaded" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestConsume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/consume/bin-42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "op-1" {
			t.Errorf("Idempotency-Key = %q", got)
		}
		var req struct {
			Consumed map[string]float64 `json:"consumed"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Consumed["egg"] != 5 {
			t.Errorf("consumed = %v", req.Consumed)
		}
		_, _ = io.WriteString(w, `{"success":true,"message":"Items consumed successfully","inventory":{"inventory":[{"name":"egg","quantity":7,"unit":"eggs"}]}}`)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, Options{}).Consume(context.Background(), "bin-42", map[string]float64{"egg": 5}, "op-1")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !res.Success || res.Inventory == nil || len(res.Inventory.Items) != 1 || res.Inventory.Items[0].Quantity != 7 {
		t.Errorf("result = %+v", res)
	}
}

func TestConsumeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Empty consumption map"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, Options{}).Consume(context.Background(), "b", map[string]float64{}, "")
	if err == nil || !strings.Contains(err.Error(), "failed to update fridge") || !strings.Contains(err.Error(), "Empty consumption map") {
		t.Errorf("err = %v", err)
	}

	if _, err := NewClient(srv.URL, Options{}).Consume(context.Background(), "", nil, ""); err == nil {
		t.Error("expected error for missing bin ID")
	}
}

func TestSyncCaloriesUsesOverride(t *testing.T) {
	var got syncRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hook" {
			t.Errorf("path = %s, want /hook", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"status":"success"}`)
	}))
	defer srv.Close()

	c := NewClient("http://unused.invalid", Options{SyncURL: srv.URL + "/hook"})
	if err := c.SyncCalories(context.Background(), 552, "Banana Oat Bowl"); err != nil {
		t.Fatalf("SyncCalories: %v", err)
	}
	if got.Calories != 552 || got.RecipeName != "Banana Oat Bowl" {
		t.Errorf("sync body = %+v", got)
	}
}

func TestAnalyzeMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if u := r.FormValue("image_url"); u != "" {
			_, _ = io.WriteString(w, `{"response":"url:`+u+`"}`)
			return
		}
		f, hdr, err := r.FormFile("image_file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": hdr.Filename + ":" + string(data)})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	ctx := context.Background()

	got, err := c.Analyze(ctx, AnalyzeInput{Image: []byte("jpegdata"), Filename: "apple.jpg", URL: "http://ignored"})
	if err != nil || got != "apple.jpg:jpegdata" {
		t.Errorf("Analyze(file) = %q, %v", got, err)
	}

	got, err = c.Analyze(ctx, AnalyzeInput{URL: "http://img/x.png"})
	if err != nil || got != "url:http://img/x.png" {
		t.Errorf("Analyze(url) = %q, %v", got, err)
	}

	if _, err := c.Analyze(ctx, AnalyzeInput{}); !errors.Is(err, ErrNoImage) {
		t.Errorf("Analyze(empty) err = %v, want ErrNoImage", err)
	}
}

func TestAnalyzeErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"error":"No image provided"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, Options{}).Analyze(context.Background(), AnalyzeInput{URL: "x"})
	if err == nil || !strings.Contains(err.Error(), "No image provided") {
		t.Errorf("err = %v", err)
	}
}

func TestRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{Timeout: 50 * time.Millisecond})
	start := time.Now()
	err := c.SyncCalories(context.Background(), 1, "x")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout not applied, took %v", time.Since(start))
	}
}

func TestFridge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/fridge/b1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"inventory":[{"name":"milk","type":"dairy","quantity":1,"unit":"containers","expected_expiry_date":"20/10/2026"}]}`)
	}))
	defer srv.Close()

	inv, err := NewClient(srv.URL, Options{}).Fridge(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Fridge: %v", err)
	}
	if len(inv.Items) != 1 || inv.Items[0].Name != "milk" || inv.Items[0].ExpectedExpiryDate != "20/10/2026" {
		t.Errorf("inventory = %+v", inv)
	}
}
