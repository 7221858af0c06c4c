package product

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func allowAll(c *fiber.Ctx) error { return c.Next() }

func makeApp(repo Repository, allowReset bool) *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(repo), allowReset)
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app, allowAll)
	return app
}

func seedCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Bamboo Toothbrush", Category: "Personal Care", SustainabilityScore: 8, Price: 99, Currency: "INR"},
		{ID: 2, Name: "Steel Bottle", Category: "Kitchen", SustainabilityScore: 7, Price: 899, Currency: "INR"},
		{ID: 3, Name: "Beeswax Wraps", Category: "Kitchen", SustainabilityScore: 9, Price: 549, Currency: "INR"},
	}
}

func decodeProducts(t *testing.T, body io.Reader) []Product {
	t.Helper()
	var out []Product
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestGetProducts_FilterByCategory(t *testing.T) {
	app := makeApp(NewInMemoryRepository(seedCatalog()), false)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if err != nil || res.StatusCode != fiber.StatusOK {
		t.Fatalf("list failed: %v %v", err, res)
	}
	if got := decodeProducts(t, res.Body); len(got) != 3 || got[0].ID != 1 {
		t.Fatalf("unexpected catalog %+v", got)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products?category=Kitchen", nil))
	got := decodeProducts(t, res.Body)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("unexpected kitchen products %+v", got)
	}
}

func TestGetProduct(t *testing.T) {
	app := makeApp(NewInMemoryRepository(seedCatalog()), false)

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/products/3", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Beeswax Wraps") || !strings.Contains(string(b), `"sustainabilityScore":9`) {
		t.Fatalf("unexpected body %s", b)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/99", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/abc", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected non-numeric id not to match a route, got %d", res.StatusCode)
	}
}

func TestAdminCRUD(t *testing.T) {
	repo := NewInMemoryRepository(seedCatalog())
	app := makeApp(repo, false)

	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"productName":"Jute Bag","category":"Bags","sustainabilityScore":6.5,"productPrice":199,"currency":"usd"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d %s", res.StatusCode, b)
	}
	var created Product
	_ = json.NewDecoder(res.Body).Decode(&created)
	if created.ID != 4 || created.Currency != "USD" || created.CreatedAt == "" {
		t.Fatalf("unexpected created product %+v", created)
	}

	req = httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"productName":"","sustainabilityScore":-1}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	for _, field := range []string{"productName", "category", "sustainabilityScore"} {
		if !strings.Contains(string(b), field) {
			t.Errorf("expected error for %s in %s", field, b)
		}
	}

	req = httptest.NewRequest("PUT", "/api/v1/products/2", strings.NewReader(`{"productName":"Steel Bottle XL","category":"Kitchen","sustainabilityScore":7.5,"productPrice":999}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on update, got %d", res.StatusCode)
	}
	p, _ := repo.GetByID(req.Context(), 2)
	if p.Name != "Steel Bottle XL" || p.Currency != DefaultCurrency {
		t.Fatalf("unexpected updated product %+v", p)
	}

	req = httptest.NewRequest("PUT", "/api/v1/products/42", strings.NewReader(`{"productName":"X","category":"Y"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 on update of unknown product, got %d", res.StatusCode)
	}

	res, _ = app.Test(httptest.NewRequest("DELETE", "/api/v1/products/1", nil))
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", res.StatusCode)
	}
	res, _ = app.Test(httptest.NewRequest("DELETE", "/api/v1/products/1", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", res.StatusCode)
	}
}

func TestResetProducts(t *testing.T) {
	app := makeApp(NewInMemoryRepository(seedCatalog()), false)
	res, _ := app.Test(httptest.NewRequest("POST", "/dev/reset-products", nil))
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 when reset disabled, got %d", res.StatusCode)
	}

	app = makeApp(NewInMemoryRepository(seedCatalog()), true)
	res, _ = app.Test(httptest.NewRequest("POST", "/dev/reset-products", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	got := decodeProducts(t, res.Body)
	if len(got) != len(SampleProducts()) || got[0].ID != 1 || got[0].Currency != DefaultCurrency {
		t.Fatalf("unexpected sample catalog %+v", got)
	}

	req := httptest.NewRequest("POST", "/dev/reset-products", strings.NewReader(`[]`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if got := decodeProducts(t, res.Body); len(got) != 0 {
		t.Fatalf("expected empty catalog, got %+v", got)
	}
}
