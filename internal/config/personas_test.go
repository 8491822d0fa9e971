package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPersonas(t *testing.T) {
	personas := DefaultPersonas()

	want := []string{"movie_expert", "travel_guide", "technical_assistant"}
	if len(personas) != len(want) {
		t.Fatalf("expected %d default personas, got %d", len(want), len(personas))
	}

	for i, p := range personas {
		if p.ID != want[i] {
			t.Errorf("persona %d = %s, want %s", i, p.ID, want[i])
		}
		if p.Label == "" {
			t.Errorf("persona %s has empty label", p.ID)
		}
	}
}

func TestLoadPersonas_Defaults(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	catalog, err := LoadPersonas()
	if err != nil {
		t.Fatalf("LoadPersonas() returned error: %v", err)
	}
	if catalog.Default != "movie_expert" {
		t.Errorf("Default = %s", catalog.Default)
	}
	if len(catalog.Personas) != 3 {
		t.Errorf("expected 3 personas, got %d", len(catalog.Personas))
	}
}

func TestSaveAndLoadPersonas(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	catalog := &PersonaCatalog{
		Default: "pirate",
		Personas: []Persona{
			{ID: "pirate", Label: "Pirate"},
			{ID: "poet"},
		},
	}
	if err := SavePersonas(catalog); err != nil {
		t.Fatalf("SavePersonas() returned error: %v", err)
	}

	loaded, err := LoadPersonas()
	if err != nil {
		t.Fatalf("LoadPersonas() returned error: %v", err)
	}
	if loaded.Default != "pirate" || len(loaded.Personas) != 2 {
		t.Errorf("LoadPersonas() = %+v", loaded)
	}
	if loaded.Label("poet") != "poet" {
		t.Errorf("Label(poet) = %s", loaded.Label("poet"))
	}
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		wantDefault string
	}{
		{
			name:        "default taken from first entry",
			yaml:        "personas:\n  - id: a\n  - id: b\n",
			wantDefault: "a",
		},
		{
			name:        "explicit default",
			yaml:        "default: b\npersonas:\n  - id: a\n  - id: b\n",
			wantDefault: "b",
		},
		{
			name:    "empty catalog",
			yaml:    "personas: []\n",
			wantErr: true,
		},
		{
			name:    "missing id",
			yaml:    "personas:\n  - label: Nameless\n",
			wantErr: true,
		},
		{
			name:    "duplicate id",
			yaml:    "personas:\n  - id: a\n  - id: a\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			yaml:    "personas: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := ParseCatalog([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", catalog)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if catalog.Default != tt.wantDefault {
				t.Errorf("Default = %s, want %s", catalog.Default, tt.wantDefault)
			}
		})
	}
}

func TestLoadPersonas_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	if err := os.WriteFile(filepath.Join(dir, "personas.yaml"), []byte("personas: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPersonas(); err == nil {
		t.Error("expected error for invalid personas file")
	}
}

func TestCatalogLookups(t *testing.T) {
	catalog := DefaultCatalog()

	p, ok := catalog.Lookup("travel_guide")
	if !ok || p.Label != "Travel Guide" {
		t.Errorf("Lookup(travel_guide) = %+v, %v", p, ok)
	}
	if _, ok := catalog.Lookup("unknown"); ok {
		t.Error("Lookup(unknown) should fail")
	}
	if catalog.Label("unknown") != "unknown" {
		t.Error("Label should fall back to the id")
	}

	ids := catalog.IDs()
	if len(ids) != 3 || ids[2] != "technical_assistant" {
		t.Errorf("IDs() = %v", ids)
	}

	if got := catalog.Initial("travel_guide"); got != "travel_guide" {
		t.Errorf("Initial(travel_guide) = %s", got)
	}
	if got := catalog.Initial("unknown"); got != "movie_expert" {
		t.Errorf("Initial(unknown) = %s", got)
	}
	if got := catalog.Initial(""); got != "movie_expert" {
		t.Errorf("Initial() = %s", got)
	}
}
