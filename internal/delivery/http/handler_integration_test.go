package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cotizador/backend/config"
	"github.com/cotizador/backend/internal/domain"
	"github.com/cotizador/backend/internal/infrastructure/catalog"
	"github.com/cotizador/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var testCatalog = []domain.ProductRecord{
	{Description: "Taladro Bosch 500W", CashPrice: "15.000,00", CardPrice: "16.500,00", Segment: "Herramientas"},
	{Description: "Amoladora Makita 700W", CashPrice: "42.000,00", CardPrice: "46.200,00", Segment: "Herramientas"},
	{Description: "Pintura latex blanca 20L", CashPrice: "38.500,00", CardPrice: "42.350,00", Segment: "Pinturas"},
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "3000",
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
		Catalog:  config.CatalogConfig{Path: "listado.csv"},
		Matching: config.MatchingConfig{MinScore: 90},
	}
}

// setupTestRouter builds the full router over an in-memory catalog. Passing
// nil records simulates a failed catalog load.
func setupTestRouter(records []domain.ProductRecord) *gin.Engine {
	var store *catalog.Store
	if records != nil {
		store = catalog.NewStore(records)
	}
	matcher := usecase.NewMatchingService(usecase.MatchConfig{MinScore: 90}, zap.NewNop())
	quotes := usecase.NewQuoteService(store, matcher, zap.NewNop())
	handler := NewHandler(quotes, zap.NewNop())
	return SetupRouter(testConfig(), zap.NewNop(), handler)
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLivenessEndpoint(t *testing.T) {
	router := setupTestRouter(testCatalog)

	w := doJSON(router, "GET", "/", "")
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["message"] != "Webhook activo" {
		t.Errorf("message = %v, want Webhook activo", response["message"])
	}
}

func TestSegmentsEndpoint(t *testing.T) {
	t.Run("lists segments with counts", func(t *testing.T) {
		router := setupTestRouter(testCatalog)

		w := doJSON(router, "GET", "/segmentos", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Segments []struct {
				Segment string `json:"segmento"`
				Count   int    `json:"cantidad_productos"`
			} `json:"segmentos"`
			Total int `json:"total_segmentos"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Total != 2 {
			t.Errorf("total_segmentos = %d, want 2", response.Total)
		}
		if len(response.Segments) != 2 || response.Segments[0].Segment != "Herramientas" {
			t.Errorf("segmentos = %+v, want Herramientas first (sorted)", response.Segments)
		}
		if response.Segments[0].Count != 2 {
			t.Errorf("cantidad_productos = %d, want 2", response.Segments[0].Count)
		}
	})

	t.Run("fails with 500 when catalog unloaded", func(t *testing.T) {
		router := setupTestRouter(nil)

		w := doJSON(router, "GET", "/segmentos", "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

func TestQuoteSingleMode(t *testing.T) {
	router := setupTestRouter(testCatalog)

	t.Run("returns flat shape for consulta field", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consulta": "taladro bosch"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
		}

		var response struct {
			Query   string `json:"consulta"`
			Results []struct {
				Description string `json:"descripcion"`
				Score       int    `json:"score"`
			} `json:"resultados"`
			Total int `json:"total_encontrados"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Query != "taladro bosch" {
			t.Errorf("consulta = %q, want echo of query", response.Query)
		}
		if response.Total != 1 || len(response.Results) != 1 {
			t.Fatalf("total_encontrados = %d, len = %d, want 1/1", response.Total, len(response.Results))
		}
		if response.Results[0].Description != "Taladro Bosch 500W" {
			t.Errorf("descripcion = %q, want Taladro Bosch 500W", response.Results[0].Description)
		}
		if response.Results[0].Score < 90 {
			t.Errorf("score = %d, want >= 90", response.Results[0].Score)
		}

		// flat shape: no combined wrapper
		if strings.Contains(w.Body.String(), "resultados_combinados") {
			t.Error("single mode must not include resultados_combinados")
		}
	})

	t.Run("segment miss yields empty array not null", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consulta": "taladro", "segmento": "Ferreteria"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
		}
		body := w.Body.String()
		if !strings.Contains(body, `"resultados":[]`) {
			t.Errorf("body = %s, want empty resultados array", body)
		}
		if !strings.Contains(body, `"total_encontrados":0`) {
			t.Errorf("body = %s, want total_encontrados 0", body)
		}
		if !strings.Contains(body, `"segmento_filtrado":"Ferreteria"`) {
			t.Errorf("body = %s, want segment filter echoed", body)
		}
	})

	t.Run("rejects segmento sent as empty string", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consulta": "taladro bosch", "segmento": ""}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "segmento") {
			t.Errorf("body = %s, want error naming segmento", w.Body.String())
		}
	})

	t.Run("rejects empty consulta", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consulta": "   "}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("fails with 500 when catalog unloaded", func(t *testing.T) {
		router := setupTestRouter(nil)
		w := doJSON(router, "POST", "/cotizar", `{"consulta": "taladro"}`)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if strings.Contains(w.Body.String(), "catalog") {
			// generic message only, no internals
			t.Errorf("body = %s, want generic error", w.Body.String())
		}
	})
}

func TestQuoteBatchMode(t *testing.T) {
	router := setupTestRouter(testCatalog)

	t.Run("returns nested shape for consultas list", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar",
			`{"consultas": [{"consulta": "taladro bosch"}, {"consulta": "amoladora makita"}]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
		}

		var response struct {
			Processed []struct {
				Query string `json:"consulta"`
				Total int    `json:"total_encontrados"`
			} `json:"consultas_procesadas"`
			Combined      []map[string]interface{} `json:"resultados_combinados"`
			TotalQueries  int                      `json:"total_consultas"`
			TotalCombined int                      `json:"total_encontrados_combinados"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.TotalQueries != 2 || len(response.Processed) != 2 {
			t.Errorf("total_consultas = %d, len = %d, want 2/2", response.TotalQueries, len(response.Processed))
		}
		if response.TotalCombined != 2 || len(response.Combined) != 2 {
			t.Errorf("total_encontrados_combinados = %d, len = %d, want 2/2", response.TotalCombined, len(response.Combined))
		}
	})

	t.Run("one-element list keeps nested shape", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consultas": [{"consulta": "taladro bosch"}]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "resultados_combinados") {
			t.Error("list mode must include resultados_combinados even for one item")
		}
	})

	t.Run("item missing consulta rejects whole batch naming item 2", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar",
			`{"consultas": [{"consulta": "taladro"}, {"segmento": "Herramientas"}]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		var response map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if !strings.Contains(response["error"], "item 2") {
			t.Errorf("error = %q, want it to identify item 2", response["error"])
		}
	})

	t.Run("empty list rejected", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consultas": []}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestQuoteRequestShape(t *testing.T) {
	router := setupTestRouter(testCatalog)

	t.Run("neither consulta nor consultas", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"otra_cosa": 1}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if !strings.Contains(w.Body.String(), "consulta") {
			t.Errorf("body = %s, want hint naming the fields", w.Body.String())
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consulta": `)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("non-object list item identifies its position", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consultas": ["taladro"]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		var response map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if !strings.Contains(response["error"], "Item 1 in 'consultas'") {
			t.Errorf("error = %q, want it to identify item 1", response["error"])
		}
	})

	t.Run("non-object item after valid objects names its position", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consultas": [{"consulta": "taladro"}, 42]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if !strings.Contains(w.Body.String(), "Item 2 in 'consultas'") {
			t.Errorf("body = %s, want it to identify item 2", w.Body.String())
		}
	})

	t.Run("null list item rejected with its position", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar", `{"consultas": [null]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if !strings.Contains(w.Body.String(), "Item 1 in 'consultas'") {
			t.Errorf("body = %s, want it to identify item 1", w.Body.String())
		}
	})
}

func TestQuoteNarrativeMode(t *testing.T) {
	router := setupTestRouter(testCatalog)

	t.Run("formato=texto renders narrative", func(t *testing.T) {
		w := doJSON(router, "POST", "/cotizar?formato=texto", `{"consulta": "taladro bosch"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q, want text/plain", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, "Taladro Bosch 500W") {
			t.Errorf("body = %s, want match description", body)
		}
		if !strings.Contains(body, "$15,000.00") {
			t.Errorf("body = %s, want formatted cash total", body)
		}
	})

	t.Run("narrative errors stay generic JSON", func(t *testing.T) {
		router := setupTestRouter(nil)
		w := doJSON(router, "POST", "/cotizar?formato=texto", `{"consulta": "taladro"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(w.Body.String(), `"error"`) {
			t.Errorf("body = %s, want JSON error body", w.Body.String())
		}
	})
}

func TestRouteFallbacks(t *testing.T) {
	router := setupTestRouter(testCatalog)

	t.Run("unknown route returns 404", func(t *testing.T) {
		w := doJSON(router, "GET", "/nope", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if !strings.Contains(w.Body.String(), "Endpoint not found") {
			t.Errorf("body = %s, want Endpoint not found", w.Body.String())
		}
	})

	t.Run("wrong method returns 405", func(t *testing.T) {
		w := doJSON(router, "POST", "/segmentos", `{}`)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})
}
