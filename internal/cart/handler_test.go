package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newTestApp() (*fiber.App, *InMemoryRepository, *product.InMemoryRepository) {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Toothbrush", Category: "Personal Care", Price: 100, Currency: "INR"},
		{ID: 2, Name: "Bottle", Category: "Kitchen", Price: 250.5, Currency: "INR"},
	})
	repo := NewInMemoryRepository()
	svc := NewService(repo, product.NewService(products))
	return makeApp(NewHandler(svc)), repo, products
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, View) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "5")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	var v View
	_ = json.NewDecoder(res.Body).Decode(&v)
	return res.StatusCode, v
}

func TestCart_AddIncrementsAndTotals(t *testing.T) {
	app, _, _ := newTestApp()

	status, v := send(t, app, "POST", "/api/v1/cart", `{"productId":2,"quantity":1}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	status, v = send(t, app, "POST", "/api/v1/cart", `{"productId":2,"quantity":2}`)
	if status != fiber.StatusOK || len(v.Items) != 1 || v.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d %+v", status, v)
	}
	_, v = send(t, app, "POST", "/api/v1/cart", `{"productId":1,"quantity":1}`)
	if v.Total != 100+3*250.5 || v.ItemCount != 4 || v.Currency != "INR" {
		t.Fatalf("unexpected totals %+v", v)
	}
	if v.Items[0].Product.ID != 1 || v.Items[1].LineTotal != 751.5 {
		t.Fatalf("unexpected lines %+v", v.Items)
	}
}

func TestCart_Validation(t *testing.T) {
	app, _, _ := newTestApp()

	status, _ := send(t, app, "POST", "/api/v1/cart", `{"productId":1,"quantity":0}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", status)
	}
	status, _ = send(t, app, "POST", "/api/v1/cart", `{"productId":42,"quantity":1}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", status)
	}

	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", res.StatusCode)
	}
}

func TestCart_SetRemoveClear(t *testing.T) {
	app, repo, products := newTestApp()
	send(t, app, "POST", "/api/v1/cart", `{"productId":1,"quantity":1}`)
	send(t, app, "POST", "/api/v1/cart", `{"productId":2,"quantity":1}`)

	status, v := send(t, app, "PUT", "/api/v1/cart/1", `{"quantity":4}`)
	if status != fiber.StatusOK || v.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d %+v", status, v)
	}

	_, v = send(t, app, "PUT", "/api/v1/cart/1", `{"quantity":0}`)
	if len(v.Items) != 1 || v.Items[0].Product.ID != 2 {
		t.Fatalf("expected product 1 removed, got %+v", v)
	}

	status, _ = send(t, app, "DELETE", "/api/v1/cart/1", "")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 removing missing item, got %d", status)
	}

	// a product deleted from the catalog drops out of the view
	_ = products.Delete(context.Background(), 2)
	_, v = send(t, app, "GET", "/api/v1/cart", "")
	if len(v.Items) != 0 || v.Total != 0 {
		t.Fatalf("expected empty view, got %+v", v)
	}

	status, _ = send(t, app, "DELETE", "/api/v1/cart", "")
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	items, _ := repo.Items(context.Background(), 5)
	if len(items) != 0 {
		t.Fatalf("expected cart cleared, got %v", items)
	}
}

func TestPostgresRepository_AddAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO cart_items (.+) ON CONFLICT").
		WithArgs(5, 2, 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT product_id, quantity, added_at FROM cart_items").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "added_at"}).AddRow(2, 3, "2026-01-01T00:00:00Z"))
	mock.ExpectExec("DELETE FROM cart_items WHERE user_id = \\$1 AND product_id").WithArgs(5, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	ctx := context.Background()
	if err := repo.Add(ctx, 5, 2, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, err := repo.Items(ctx, 5)
	if err != nil || len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected items %v %v", items, err)
	}
	if err := repo.Remove(ctx, 5, 9); err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
