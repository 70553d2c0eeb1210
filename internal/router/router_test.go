package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kaniu/internal/router"

	"github.com/go-chi/chi/v5"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_AdoptionFlow(t *testing.T) {
	ts := newServer(t)

	ownerID := "owner-1"
	adopterID := "adopter-1"

	// 1) Dueño crea refugio
	shelterID := createShelter(t, ts.URL, ownerID, "Patitas")

	// 2) Dueño da de alta el animal con apariencia
	var animal struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		ShelterID  string `json:"shelter_id"`
		Appearance *struct {
			Colors []struct {
				ColorID int64 `json:"color_id"`
			} `json:"colors"`
		} `json:"appearance"`
		Shelter struct {
			ID string `json:"id"`
		} `json:"shelter"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/animals", ownerID, map[string]any{
			"name":       "Luna",
			"gender":     "Fêmea",
			"shelter_id": shelterID,
			"birth_date": "2024-03-01",
			"appearance": map[string]any{
				"fur_type_id": 1,
				"pattern_id":  2,
				"colors":      []int64{1, 3},
			},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 create animal, got %d body=%s", st, string(body))
		}
		mustDecode(t, body, &animal)
		if animal.ID == "" || animal.Status != "available" || animal.Shelter.ID != shelterID {
			t.Fatalf("unexpected animal: %s", string(body))
		}
		if animal.Appearance == nil || len(animal.Appearance.Colors) != 2 {
			t.Fatalf("expected 2 colors, got %s", string(body))
		}
	}

	// 3) PUT reemplaza los colores
	{
		st, body := doReq(t, ts.URL, "PUT", "/animals", ownerID, map[string]any{
			"id":         animal.ID,
			"appearance": map[string]any{"colors": []int64{5}},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update animal, got %d body=%s", st, string(body))
		}
		mustDecode(t, body, &animal)
		if animal.Appearance == nil || len(animal.Appearance.Colors) != 1 || animal.Appearance.Colors[0].ColorID != 5 {
			t.Fatalf("expected colors replaced by [5], got %s", string(body))
		}
	}

	// 4) Aparece en el listado de disponibles
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/available", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list available, got %d", st)
		}
		var items []struct {
			ID string `json:"id"`
		}
		mustDecode(t, body, &items)
		if len(items) != 1 || items[0].ID != animal.ID {
			t.Fatalf("expected only %s available, got %s", animal.ID, string(body))
		}
	}

	// 5) Adoptante pide la adopción
	var adoption struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Animal struct {
			Status string `json:"status"`
		} `json:"animal"`
		Shelter struct {
			ID string `json:"id"`
		} `json:"shelter"`
		Adopter *struct {
			ID string `json:"id"`
		} `json:"adopter"`
	}
	{
		st, body := doReq(t, ts.URL, "PUT", "/me/profile", adopterID, map[string]any{
			"name":  "Vera",
			"email": "vera@example.com",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 upsert profile, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "POST", "/adoptions", adopterID, map[string]any{
			"animal_id": animal.ID,
			"message":   "tengo patio",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 create adoption, got %d body=%s", st, string(body))
		}
		mustDecode(t, body, &adoption)
		if adoption.Status != "pending" || adoption.Shelter.ID != shelterID {
			t.Fatalf("unexpected adoption: %s", string(body))
		}
		if adoption.Adopter == nil || adoption.Adopter.ID != adopterID {
			t.Fatalf("expected adopter profile embedded, got %s", string(body))
		}
	}

	// 6) El adoptante no puede aprobar su propio pedido
	{
		st, body := doReq(t, ts.URL, "PUT", "/adoptions", adopterID, map[string]any{
			"id":     adoption.ID,
			"status": "approved",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 approve by adopter, got %d body=%s", st, string(body))
		}
	}

	// 7) Dueño aprueba: el animal queda adoptado
	{
		st, body := doReq(t, ts.URL, "PUT", "/adoptions", ownerID, map[string]any{
			"id":     adoption.ID,
			"status": "approved",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 approve, got %d body=%s", st, string(body))
		}
		mustDecode(t, body, &adoption)
		if adoption.Status != "approved" || adoption.Animal.Status != "adopted" {
			t.Fatalf("expected approved/adopted, got %s", string(body))
		}
	}

	// 8) Ya no se puede pedir
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions", "adopter-2", map[string]any{
			"animal_id": animal.ID,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 adopting adopted animal, got %d body=%s", st, string(body))
		}
		if code := errCode(t, body); code != "INVALID_STATUS" {
			t.Fatalf("expected INVALID_STATUS, got %s", code)
		}
	}

	// 9) Y desaparece de disponibles
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/available", "", nil)
		if st != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
			t.Fatalf("expected empty available list, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_Dispatchers(t *testing.T) {
	ts := newServer(t)

	for _, path := range []string{"/animals", "/adoptions"} {
		st, body := doReq(t, ts.URL, "OPTIONS", path, "", nil)
		if st != http.StatusOK || string(body) != "ok" {
			t.Fatalf("OPTIONS %s: expected 200 ok, got %d body=%s", path, st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "PATCH", "/animals", "u1", map[string]any{})
		if st != http.StatusBadRequest || errCode(t, body) != "METHOD_NOT_ALLOWED" {
			t.Fatalf("PATCH /animals: expected METHOD_NOT_ALLOWED, got %d body=%s", st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "DELETE", "/adoptions", "u1", nil)
		if st != http.StatusBadRequest || errCode(t, body) != "METHOD_NOT_ALLOWED" {
			t.Fatalf("DELETE /adoptions: expected METHOD_NOT_ALLOWED, got %d body=%s", st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions", "", map[string]any{"animal_id": "x"})
		if st != http.StatusUnauthorized || errCode(t, body) != "UNAUTHORIZED" {
			t.Fatalf("POST /adoptions without token: expected 401, got %d body=%s", st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "POST", "/animals", "u1", map[string]any{
			"name":       "Sin refugio",
			"gender":     "Macho",
			"shelter_id": "ghost",
		})
		if st != http.StatusBadRequest || errCode(t, body) != "INSERT_ERROR" {
			t.Fatalf("POST /animals unknown shelter: expected INSERT_ERROR, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_HealthAndCORS(t *testing.T) {
	ts := newServer(t)

	req, err := http.NewRequest("GET", ts.URL+"/health", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	if res.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d body=%s", res.StatusCode, string(body))
	}
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS origin *, got %q", got)
	}
	if res.Header.Get("Access-Control-Allow-Headers") == "" {
		t.Fatalf("expected CORS allow headers")
	}
}

func TestHTTP_SwaggerCoversMountedRoutes(t *testing.T) {
	ts := newServer(t)

	res, err := http.Get(ts.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatalf("get doc: %v", err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", res.StatusCode, string(raw))
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	mustDecode(t, raw, &doc)

	routes, ok := router.NewRouter(router.Options{}).(chi.Routes)
	if !ok {
		t.Fatalf("router does not expose chi.Routes")
	}
	// Los dispatchers aceptan cualquier verbo; el documento lista los que atienden.
	dispatchers := map[string]bool{"/animals": true, "/adoptions": true}

	err = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if strings.HasSuffix(route, "/*") {
			return nil
		}
		ops, found := doc.Paths[route]
		if !found {
			t.Errorf("route %s missing from swagger doc", route)
			return nil
		}
		if dispatchers[route] {
			return nil
		}
		if _, found := ops[strings.ToLower(method)]; !found {
			t.Errorf("%s %s missing from swagger doc", method, route)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
}

func TestHTTP_AnimalPhotoIsServed(t *testing.T) {
	ts := newServer(t)

	ownerID := "owner-1"
	shelterID := createShelter(t, ts.URL, ownerID, "Huellitas")

	st, body := doReq(t, ts.URL, "POST", "/animals", ownerID, map[string]any{
		"name":       "Tom",
		"gender":     "Macho",
		"shelter_id": shelterID,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 create animal, got %d body=%s", st, string(body))
	}
	var animal struct {
		ID string `json:"id"`
	}
	mustDecode(t, body, &animal)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "tom.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte("PNGDATA"))
	_ = mw.Close()

	req, err := http.NewRequest("POST", ts.URL+"/animals/"+animal.ID+"/photo", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", ownerID)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	raw, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 upload photo, got %d body=%s", res.StatusCode, string(raw))
	}

	var out struct {
		ProfilePictureURL string `json:"profile_picture_url"`
	}
	mustDecode(t, raw, &out)
	if out.ProfilePictureURL == "" {
		t.Fatalf("expected profile_picture_url, got %s", string(raw))
	}

	st, data := doReq(t, ts.URL, "GET", out.ProfilePictureURL, "", nil)
	if st != http.StatusOK || string(data) != "PNGDATA" {
		t.Fatalf("expected stored photo, got %d body=%s", st, string(data))
	}

	// Otro usuario no puede cambiar la foto
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animal.ID+"/photo", "intruder", nil)
		if st == http.StatusOK {
			t.Fatalf("expected upload by non-owner to fail, got 200 body=%s", string(body))
		}
	}
}

func TestHTTP_LostAndFoundReports(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "POST", "/reports", "reporter-1", map[string]any{
		"report_type": "lost",
		"location":    map[string]any{"latitude": -23.55, "longitude": -46.63},
		"address":     "Av. Paulista",
		"description": "perro negro con collar rojo",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create report, got %d body=%s", st, string(body))
	}
	var rep struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Location struct {
			Type        string     `json:"type"`
			Coordinates [2]float64 `json:"coordinates"`
		} `json:"location"`
	}
	mustDecode(t, body, &rep)
	if rep.Status != "open" || rep.Location.Type != "Point" || rep.Location.Coordinates[0] != -46.63 {
		t.Fatalf("unexpected report: %s", string(body))
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/reports?type=found", "", nil)
		if st != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
			t.Fatalf("expected no found reports, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/reports?type=lost", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list lost reports, got %d", st)
		}
		var items []struct {
			ID string `json:"id"`
		}
		mustDecode(t, body, &items)
		if len(items) != 1 || items[0].ID != rep.ID {
			t.Fatalf("expected report %s listed, got %s", rep.ID, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/reports", "", map[string]any{"report_type": "lost"})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 creating report without token, got %d body=%s", st, string(body))
		}
	}
}

// ---------- helpers ----------

func createShelter(t *testing.T, baseURL, ownerID, name string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/shelters", ownerID, map[string]any{
		"name": name,
		"address": map[string]any{
			"street": "Rua das Flores 10",
			"city":   "São Paulo",
		},
		"contact_info": map[string]any{
			"email": "contato@example.com",
		},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create shelter, got %d body=%s", st, string(body))
	}
	var out struct {
		ID      string `json:"id"`
		OwnerID string `json:"owner_id"`
	}
	mustDecode(t, body, &out)
	if out.ID == "" || out.OwnerID != ownerID {
		t.Fatalf("unexpected shelter: %s", string(body))
	}
	return out.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	out, _ := io.ReadAll(res.Body)
	return res.StatusCode, out
}

func mustDecode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func errCode(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Code string `json:"code"`
	}
	mustDecode(t, body, &e)
	return e.Code
}
