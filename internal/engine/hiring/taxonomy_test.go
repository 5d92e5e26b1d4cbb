package hiring

import (
	"testing"
)

const degreeDoc = `[
	{"key": "BSIT", "canonical": "BS Information Technology", "level": "bachelor", "field_group": "computing", "aliases": ["bsit", "bs it", "b.s. information technology"]},
	{"key": "BSCS", "canonical": "BS Computer Science", "level": "bachelor", "field_group": "computing", "aliases": ["bscs", "computer science"]},
	{"key": "BSA", "canonical": "BS Accountancy", "level": "bachelor", "field_group": "business", "aliases": ["bs accountancy", "accountancy"]},
	{"canonical": "orphan row without key"},
	{"key": "NOCANON"}
]`

func buildDegreeTaxonomy(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := BuildTaxonomy([]byte(degreeDoc), "degree")
	if err != nil {
		t.Fatalf("BuildTaxonomy error: %v", err)
	}
	return tax
}

func TestBuildTaxonomy_ArrayForm(t *testing.T) {
	tax := buildDegreeTaxonomy(t)
	if tax.Len() != 3 {
		t.Errorf("expected 3 entities (malformed rows skipped), got %d", tax.Len())
	}
}

func TestBuildTaxonomy_MapForm(t *testing.T) {
	doc := `{
		"CSP": {"canonical": "Career Service Professional", "category": "professional", "aliases": ["cs professional"]},
		"CSSP": {"canonical": "Career Service Sub-Professional", "category": "sub-professional"}
	}`
	tax, err := BuildTaxonomy([]byte(doc), "eligibility")
	if err != nil {
		t.Fatalf("BuildTaxonomy error: %v", err)
	}
	if tax.Len() != 2 {
		t.Fatalf("expected 2 entities, got %d", tax.Len())
	}

	// Map key doubles as the entity id; category doubles as level.
	e, ok := tax.ByKey("CSP")
	if !ok {
		t.Fatal("expected CSP entity")
	}
	if e.Level != "professional" {
		t.Errorf("expected category mapped to level, got %q", e.Level)
	}
}

func TestTaxonomyLookup_Insensitive(t *testing.T) {
	tax := buildDegreeTaxonomy(t)
	tests := []struct {
		raw  string
		want string
	}{
		{"B.S. Information Technology", "BSIT"},
		{"bs it", "BSIT"},
		{"BSIT", "BSIT"},
		{"  BS   ACCOUNTANCY  ", "BSA"},
		{"Accountancy", "BSA"},
	}
	for _, tt := range tests {
		e, ok := tax.Lookup(tt.raw)
		if !ok {
			t.Errorf("Lookup(%q) missed", tt.raw)
			continue
		}
		if e.Key != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.raw, e.Key, tt.want)
		}
	}

	if _, ok := tax.Lookup("underwater basket weaving"); ok {
		t.Error("expected miss for unknown text")
	}
}

func TestTaxonomy_FirstWriterWins(t *testing.T) {
	doc := `[
		{"key": "A", "canonical": "Alpha", "aliases": ["shared alias"]},
		{"key": "B", "canonical": "Beta", "aliases": ["shared alias"]}
	]`
	tax, err := BuildTaxonomy([]byte(doc), "test")
	if err != nil {
		t.Fatalf("BuildTaxonomy error: %v", err)
	}

	e, ok := tax.Lookup("shared alias")
	if !ok {
		t.Fatal("expected alias to resolve")
	}
	if e.Key != "A" {
		t.Errorf("expected first writer A to keep the alias, got %s", e.Key)
	}

	// The losing claim must stay detectable — entities are not merged.
	collisions := tax.Collisions()
	if len(collisions) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(collisions))
	}
	c := collisions[0]
	if c.Alias != "shared alias" || c.KeptKey != "A" || len(c.LostKeys) != 1 || c.LostKeys[0] != "B" {
		t.Errorf("unexpected collision report: %+v", c)
	}
}

func TestTaxonomy_NoFalseCollisions(t *testing.T) {
	// Duplicate aliases within one entity are not collisions.
	doc := `[{"key": "A", "canonical": "Alpha", "aliases": ["alpha", "ALPHA", "a l p h a?"]}]`
	tax, err := BuildTaxonomy([]byte(doc), "test")
	if err != nil {
		t.Fatalf("BuildTaxonomy error: %v", err)
	}
	if got := tax.Collisions(); len(got) != 0 {
		t.Errorf("expected no collisions, got %+v", got)
	}
}

func TestTaxonomy_FingerprintChangesWithContent(t *testing.T) {
	t1 := buildDegreeTaxonomy(t)
	t2, err := BuildTaxonomy([]byte(`[{"key": "BSIT", "canonical": "BS Information Technology"}]`), "degree")
	if err != nil {
		t.Fatalf("BuildTaxonomy error: %v", err)
	}
	if t1.Fingerprint() == t2.Fingerprint() {
		t.Error("different content produced identical fingerprints")
	}
	t3 := buildDegreeTaxonomy(t)
	if t1.Fingerprint() != t3.Fingerprint() {
		t.Error("identical content produced different fingerprints")
	}
}

func TestBuildTaxonomy_EmptyAndInvalid(t *testing.T) {
	tax, err := BuildTaxonomy([]byte("  "), "empty")
	if err != nil {
		t.Fatalf("empty doc should not error: %v", err)
	}
	if tax.Len() != 0 {
		t.Errorf("expected empty taxonomy, got %d entities", tax.Len())
	}

	if _, err := BuildTaxonomy([]byte(`{"broken`), "bad"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
