package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/pkg/apperror"
)

type shopTestEnv struct {
	shops     *fakeShopRepo
	blobs     *memoryBlobStore
	snapshots *SnapshotService
	svc       *ShopService
}

func newShopTestEnv(existing ...*entity.Shop) *shopTestEnv {
	shops := newFakeShopRepo(existing...)
	blobs := newMemoryBlobStore()
	snapshots := NewSnapshotService(&fakeSerializer{data: []byte("store-bytes")}, blobs, "ledger", true)
	return &shopTestEnv{
		shops:     shops,
		blobs:     blobs,
		snapshots: snapshots,
		svc:       NewShopService(shops, snapshots),
	}
}

func TestCreateShop(t *testing.T) {
	env := newShopTestEnv()

	shop, err := env.svc.CreateShop(context.Background(), &CreateShopInput{
		Name:           "  Main Shop  ",
		Code:           " main ",
		DefaultTaxRate: d("16"),
	})
	if err != nil {
		t.Fatalf("CreateShop returned error: %v", err)
	}

	if shop.Name != "Main Shop" {
		t.Errorf("name = %q, want trimmed %q", shop.Name, "Main Shop")
	}
	if shop.Code != "MAIN" {
		t.Errorf("code = %q, want %q", shop.Code, "MAIN")
	}
	if shop.NextProductNo != 1 {
		t.Errorf("next_product_no = %d, want 1", shop.NextProductNo)
	}
	assertDecimal(t, "default_tax_rate", shop.DefaultTaxRate, d("16"))
	if _, ok := env.blobs.blobs["ledger"]; !ok {
		t.Error("expected a snapshot persist after create")
	}
}

func TestCreateShopDerivesCodeFromName(t *testing.T) {
	env := newShopTestEnv()

	shop, err := env.svc.CreateShop(context.Background(), &CreateShopInput{
		Name: "Corner Store #2",
	})
	if err != nil {
		t.Fatalf("CreateShop returned error: %v", err)
	}
	if shop.Code != "CORNER-STORE-2" {
		t.Errorf("code = %q, want %q", shop.Code, "CORNER-STORE-2")
	}
}

func TestCreateShopValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateShopInput
		wantField string
	}{
		{
			name:      "blank name",
			input:     CreateShopInput{Name: "   ", Code: "MAIN"},
			wantField: "name",
		},
		{
			name:      "name yields no usable code",
			input:     CreateShopInput{Name: "##!!"},
			wantField: "code",
		},
		{
			name:      "negative tax rate",
			input:     CreateShopInput{Name: "Main Shop", Code: "MAIN", DefaultTaxRate: d("-1")},
			wantField: "default_tax_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newShopTestEnv()

			_, err := env.svc.CreateShop(context.Background(), &tt.input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != 422 {
				t.Errorf("code = %d, want 422", appErr.Code)
			}
			found := false
			for _, fe := range appErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a field error on %q, got %+v", tt.wantField, appErr.Errors)
			}
			if len(env.shops.shops) != 0 {
				t.Errorf("created %d shops, want 0", len(env.shops.shops))
			}
		})
	}
}

func TestCreateShopRejectsDuplicateCode(t *testing.T) {
	env := newShopTestEnv(&entity.Shop{ID: uuid.New(), Name: "Main Shop", Code: "MAIN"})

	_, err := env.svc.CreateShop(context.Background(), &CreateShopInput{
		Name: "Second Branch",
		Code: "main",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 409 {
		t.Errorf("code = %d, want 409", appErr.Code)
	}
	if len(env.shops.shops) != 1 {
		t.Errorf("shop count = %d, want 1", len(env.shops.shops))
	}
}

func TestUpdateShop(t *testing.T) {
	existing := &entity.Shop{ID: uuid.New(), Name: "Main Shop", Code: "MAIN", DefaultTaxRate: d("10")}
	env := newShopTestEnv(existing)

	shop, err := env.svc.UpdateShop(context.Background(), existing.ID, &UpdateShopInput{
		Name:           strPtr("Main Shop (Westlands)"),
		DefaultTaxRate: decPtr("16"),
	})
	if err != nil {
		t.Fatalf("UpdateShop returned error: %v", err)
	}

	if shop.Name != "Main Shop (Westlands)" {
		t.Errorf("name = %q", shop.Name)
	}
	assertDecimal(t, "default_tax_rate", shop.DefaultTaxRate, d("16"))
	if shop.Code != "MAIN" {
		t.Errorf("code = %q, want unchanged MAIN", shop.Code)
	}
	if _, ok := env.blobs.blobs["ledger"]; !ok {
		t.Error("expected a snapshot persist after update")
	}
}

func TestUpdateShopValidation(t *testing.T) {
	existing := &entity.Shop{ID: uuid.New(), Name: "Main Shop", Code: "MAIN"}
	env := newShopTestEnv(existing)

	_, err := env.svc.UpdateShop(context.Background(), existing.ID, &UpdateShopInput{Name: strPtr("  ")})
	if err == nil {
		t.Fatal("expected error for blank name, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 400 {
		t.Errorf("blank name: code = %d, want 400", appErr.Code)
	}

	_, err = env.svc.UpdateShop(context.Background(), existing.ID, &UpdateShopInput{DefaultTaxRate: decPtr("-2")})
	if err == nil {
		t.Fatal("expected error for negative rate, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 400 {
		t.Errorf("negative rate: code = %d, want 400", appErr.Code)
	}
}

func TestUpdateShopNotFound(t *testing.T) {
	env := newShopTestEnv()

	_, err := env.svc.UpdateShop(context.Background(), uuid.New(), &UpdateShopInput{Name: strPtr("Ghost")})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 404 {
		t.Errorf("code = %d, want 404", appErr.Code)
	}
}

func TestGetShopNotFound(t *testing.T) {
	env := newShopTestEnv()

	_, err := env.svc.GetShop(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 404 {
		t.Errorf("code = %d, want 404", appErr.Code)
	}
}
