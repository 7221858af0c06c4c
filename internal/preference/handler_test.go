package preference

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

func newTestApp() *fiber.App {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Bamboo Toothbrush", Category: "Personal Care", Price: 99, Currency: "INR"},
		{ID: 2, Name: "Steel Bottle", Category: "Kitchen", Price: 250, Currency: "INR"},
		{ID: 3, Name: "Soap Bar", Category: "Personal Care", Price: 60, Currency: "INR"},
	})
	h := NewHandler(NewService(NewInMemoryRepository(), product.NewService(products)))

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

func do(t *testing.T, app *fiber.App, method, body string) (int, View) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/v1/preferences", reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "5")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var v View
	_ = json.NewDecoder(res.Body).Decode(&v)
	return res.StatusCode, v
}

func TestPreferences_DeriveCategoriesFromLiked(t *testing.T) {
	app := newTestApp()

	do(t, app, "PUT", `{"productId":1,"preference":"liked"}`)
	do(t, app, "PUT", `{"productId":3,"preference":"liked"}`)
	status, v := do(t, app, "PUT", `{"productId":2,"preference":"disliked"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	want := View{Liked: []int{1, 3}, Disliked: []int{2}, PreferredCategories: []string{"Personal Care"}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected view %+v", v)
	}

	// Liking a disliked product moves it and adds its category.
	_, v = do(t, app, "PUT", `{"productId":2,"preference":"liked"}`)
	if !reflect.DeepEqual(v.Disliked, []int{}) || !reflect.DeepEqual(v.PreferredCategories, []string{"Kitchen", "Personal Care"}) {
		t.Fatalf("unexpected view %+v", v)
	}

	// Categories are recomputed, so going neutral drops Kitchen again.
	_, v = do(t, app, "PUT", `{"productId":2,"preference":"neutral"}`)
	if !reflect.DeepEqual(v.PreferredCategories, []string{"Personal Care"}) {
		t.Fatalf("expected Kitchen to be dropped, got %+v", v)
	}

	_, got := do(t, app, "GET", "")
	if !reflect.DeepEqual(got.Liked, []int{1, 3}) {
		t.Fatalf("unexpected stored state %+v", got)
	}
}

func TestPreferences_Rejections(t *testing.T) {
	app := newTestApp()

	if status, _ := do(t, app, "PUT", `{"productId":99,"preference":"liked"}`); status != fiber.StatusNotFound {
		t.Errorf("unknown product: expected 404, got %d", status)
	}
	if status, _ := do(t, app, "PUT", `{"productId":1,"preference":"love"}`); status != fiber.StatusBadRequest {
		t.Errorf("bad preference: expected 400, got %d", status)
	}
	if status, _ := do(t, app, "PUT", `{"preference":"liked"}`); status != fiber.StatusBadRequest {
		t.Errorf("missing product: expected 400, got %d", status)
	}
}
