package memory

import (
	"context"
	"errors"
	"testing"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage"
)

func TestMintMetadataStore_UpsertAndGet(t *testing.T) {
	store := NewMintMetadataStore()
	ctx := context.Background()

	name := "Retardio"
	supply := 999000000.0
	m := &domain.MintMetadata{Mint: "mint1", Name: &name, Decimals: 6, Supply: &supply, FetchedAt: 1000}

	if err := store.Upsert(ctx, m); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	name = "changed"

	got, err := store.GetByMint(ctx, "mint1")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if *got.Name != "Retardio" || got.Decimals != 6 || *got.Supply != 999000000.0 {
		t.Errorf("unexpected metadata: %+v", got)
	}

	// Upsert replaces.
	if err := store.Upsert(ctx, &domain.MintMetadata{Mint: "mint1", Decimals: 9, FetchedAt: 2000}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	got, _ = store.GetByMint(ctx, "mint1")
	if got.Decimals != 9 || got.Name != nil {
		t.Errorf("expected replaced metadata, got %+v", got)
	}
}

func TestMintMetadataStore_Errors(t *testing.T) {
	store := NewMintMetadataStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, &domain.MintMetadata{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.GetByMint(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
