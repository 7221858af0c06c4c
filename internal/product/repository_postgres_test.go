package product

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var productRowColumns = []string{"id", "name", "description", "category", "sustainability_score", "price", "currency", "image", "created_at", "updated_at"}

func TestPostgresRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(productRowColumns).
		AddRow(1, "Bamboo Toothbrush", "", "Personal Care", 8.0, 99.0, "INR", "/img/a.jpg", "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z").
		AddRow(2, "Steel Bottle", "", "Kitchen", 7.0, 899.0, "INR", nil, nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM products ORDER BY id").WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	products, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Image == nil || *products[0].Image != "/img/a.jpg" {
		t.Fatalf("expected image on first product, got %+v", products[0])
	}
	if products[1].Image != nil || products[1].SustainabilityScore != 7 {
		t.Fatalf("unexpected second product %+v", products[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ListByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	if got, err := repo.ListByIDs(context.Background(), nil); err != nil || len(got) != 0 {
		t.Fatalf("expected empty result without a query, got %v %v", got, err)
	}

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(productRowColumns).AddRow(3, "Wraps", "", "Kitchen", 9.0, 549.0, "INR", nil, nil, nil))

	got, err := repo.ListByIDs(context.Background(), []int{3, 7})
	if err != nil || len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("unexpected result %v %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_DeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM products").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	if err := repo.Delete(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRepository_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM products").WillReturnError(errors.New("connection reset"))

	repo := NewPostgresRepository(db)
	if _, err := repo.GetByID(context.Background(), 1); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestPostgresRepository_Reset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE products").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO products").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewPostgresRepository(db)
	if err := repo.Reset(context.Background(), []Product{{Name: "Wraps", Category: "Kitchen", Currency: "INR"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
