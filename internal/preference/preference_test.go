package preference

import (
	"context"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestState_LikedAndDislikedAreExclusive(t *testing.T) {
	st := NewState()
	st.Set(3, Liked)
	st.Set(1, Liked)
	st.Set(2, Disliked)

	if !reflect.DeepEqual(st.Liked(), []int{1, 3}) || !reflect.DeepEqual(st.Disliked(), []int{2}) {
		t.Fatalf("unexpected state liked=%v disliked=%v", st.Liked(), st.Disliked())
	}

	st.Set(1, Disliked)
	if !reflect.DeepEqual(st.Liked(), []int{3}) || !reflect.DeepEqual(st.Disliked(), []int{1, 2}) {
		t.Fatalf("disliking should move the product, got liked=%v disliked=%v", st.Liked(), st.Disliked())
	}

	st.Set(2, Neutral)
	if st.Get(2) != Neutral || len(st.Disliked()) != 1 {
		t.Fatalf("neutral should forget the product, got %v", st.Disliked())
	}
}

func TestState_ZeroValueIsUsable(t *testing.T) {
	var st State
	if len(st.Liked()) != 0 || st.Get(1) != Neutral {
		t.Fatalf("zero state should be empty")
	}
	st.Set(1, Liked)
	if st.Get(1) != Liked {
		t.Fatalf("expected liked after Set")
	}
}

func TestParseValue(t *testing.T) {
	for in, want := range map[string]Value{"liked": Liked, " Disliked ": Disliked, "NEUTRAL": Neutral} {
		got, err := ParseValue(in)
		if err != nil || got != want {
			t.Errorf("ParseValue(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseValue("love"); err != ErrInvalidValue {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestPostgresRepository_SaveAndLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_preferences (.+) ON CONFLICT").
		WithArgs(5, 2, "liked", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_preferences WHERE user_id = \\$1 AND product_id = \\$2").
		WithArgs(5, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT product_id, preference FROM user_preferences").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "preference"}).
			AddRow(2, "liked").
			AddRow(4, "disliked"))

	repo := NewPostgresRepository(db)
	ctx := context.Background()
	if err := repo.Save(ctx, 5, 2, Liked); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, 5, 3, Neutral); err != nil {
		t.Fatalf("save neutral: %v", err)
	}
	st, err := repo.Load(ctx, 5)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(st.Liked(), []int{2}) || !reflect.DeepEqual(st.Disliked(), []int{4}) {
		t.Fatalf("unexpected state liked=%v disliked=%v", st.Liked(), st.Disliked())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
