package core

import (
	"errors"
	"testing"
)

func TestValidateCatalogEntry(t *testing.T) {
	tests := []struct {
		name    string
		entry   *CatalogEntry
		wantErr error
	}{
		{
			name:    "valid entry",
			entry:   &CatalogEntry{Id: 1, Name: "Пеноплэкс Комфорт 50мм"},
			wantErr: nil,
		},
		{
			name:    "valid entry with ID 0",
			entry:   &CatalogEntry{Name: "Кран шаровой"},
			wantErr: nil,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantErr: ErrInvalidCatalogEntry,
		},
		{
			name:    "empty name",
			entry:   &CatalogEntry{Id: 1},
			wantErr: ErrEmptyName,
		},
		{
			name:    "whitespace name",
			entry:   &CatalogEntry{Id: 1, Name: " \t "},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalogEntry(tt.entry)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCatalogEntry() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCatalogEntry() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCatalogEntry) {
				t.Errorf("ValidateCatalogEntry() error should wrap ErrInvalidCatalogEntry, got %v", err)
			}
		})
	}
}

func TestValidateSynonymEntry(t *testing.T) {
	tests := []struct {
		name    string
		entry   *SynonymEntry
		wantErr error
	}{
		{
			name:    "valid unit entry",
			entry:   &SynonymEntry{Kind: SynonymKindUnit, Canonical: "м³", Aliases: []string{"куб.м", "м3"}},
			wantErr: nil,
		},
		{
			name:    "valid entry without aliases",
			entry:   &SynonymEntry{Kind: SynonymKindUnit, Canonical: "шт"},
			wantErr: nil,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantErr: ErrInvalidSynonymEntry,
		},
		{
			name:    "invalid kind",
			entry:   &SynonymEntry{Kind: SynonymKind(9), Canonical: "м"},
			wantErr: ErrInvalidSynonymKind,
		},
		{
			name:    "empty canonical",
			entry:   &SynonymEntry{Kind: SynonymKindMaterial, Canonical: "  "},
			wantErr: ErrEmptyCanonical,
		},
		{
			name:    "blank alias",
			entry:   &SynonymEntry{Kind: SynonymKindMaterial, Canonical: "xps", Aliases: []string{"пеноплэкс", ""}},
			wantErr: ErrEmptyAlias,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSynonymEntry(tt.entry)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSynonymEntry() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSynonymEntry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSynonymKind(t *testing.T) {
	if err := ValidateSynonymKind(SynonymKindMaterial); err != nil {
		t.Errorf("material kind rejected: %v", err)
	}
	if err := ValidateSynonymKind(SynonymKindUnit); err != nil {
		t.Errorf("unit kind rejected: %v", err)
	}
	if err := ValidateSynonymKind(0); !errors.Is(err, ErrInvalidSynonymKind) {
		t.Errorf("zero kind error = %v", err)
	}
}
