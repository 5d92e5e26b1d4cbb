// Package hiring implements the applicant-to-requirement canonicalization
// and ranking engine of the recruitment portal: taxonomy lookup, tiered
// canonicalization, skill matching, composite scoring, ranking with
// tie-breaking, score statistics, and the status lifecycle machinery.
//
// Everything here is computed synchronously over an immutable taxonomy
// snapshot; only the embedding and LLM tiers of the canonicalizer reach
// the network, and both degrade to "no match" when unreachable.
package hiring

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lgucareers/go_hire/internal/engine"
)

// CanonicalEntity is one controlled taxonomy item: a specific degree or
// eligibility with a stable key and known free-text aliases.
type CanonicalEntity struct {
	Key           string   `json:"key"`
	CanonicalName string   `json:"canonical"`
	Level         string   `json:"level,omitempty"`
	FieldGroup    string   `json:"field_group,omitempty"`
	Aliases       []string `json:"aliases,omitempty"`
}

// Taxonomy is a normalized alias→entity index built once per dictionary
// load and read-only afterwards. Concurrent lookups are safe.
type Taxonomy struct {
	name        string
	entities    []*CanonicalEntity
	byKey       map[string]*CanonicalEntity
	aliasIndex  map[string]*CanonicalEntity
	fingerprint string
}

// rawEntity tolerates the two source spellings of each field.
type rawEntity struct {
	Key        string   `json:"key"`
	ID         string   `json:"id"`
	Canonical  string   `json:"canonical"`
	Level      string   `json:"level"`
	Category   string   `json:"category"`
	FieldGroup string   `json:"field_group"`
	Aliases    []string `json:"aliases"`
}

func (r rawEntity) entity() *CanonicalEntity {
	key := r.Key
	if key == "" {
		key = r.ID
	}
	level := r.Level
	if level == "" {
		level = r.Category
	}
	return &CanonicalEntity{
		Key:           key,
		CanonicalName: r.Canonical,
		Level:         level,
		FieldGroup:    r.FieldGroup,
		Aliases:       r.Aliases,
	}
}

// BuildTaxonomy parses a taxonomy document and builds the alias index.
// The document is either a JSON array of entity objects or an object map
// keyed by entity id. Entries missing a key or canonical name are skipped
// — hand-edited dictionaries carry half-filled rows and those are not an
// error. On alias collision the first writer wins; later duplicates are
// dropped, not merged (Collisions reports them).
func BuildTaxonomy(doc []byte, name string) (*Taxonomy, error) {
	raws, err := parseTaxonomyDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", name, err)
	}

	t := &Taxonomy{
		name:       name,
		byKey:      make(map[string]*CanonicalEntity),
		aliasIndex: make(map[string]*CanonicalEntity),
	}

	skipped := 0
	for _, r := range raws {
		e := r.entity()
		if e.Key == "" || e.CanonicalName == "" {
			skipped++
			continue
		}
		if _, dup := t.byKey[e.Key]; dup {
			skipped++
			continue
		}
		t.entities = append(t.entities, e)
		t.byKey[e.Key] = e
		t.index(e.CanonicalName, e)
		// The key itself is a common way applicants spell the short form.
		t.index(e.Key, e)
		for _, a := range e.Aliases {
			t.index(a, e)
		}
	}

	t.fingerprint = fingerprintEntities(name, t.entities)

	slog.Info("taxonomy built",
		slog.String("name", name),
		slog.Int("entities", len(t.entities)),
		slog.Int("aliases", len(t.aliasIndex)),
		slog.Int("skipped", skipped),
	)
	return t, nil
}

// parseTaxonomyDoc accepts the two supported document shapes.
func parseTaxonomyDoc(doc []byte) ([]rawEntity, error) {
	trimmed := strings.TrimSpace(string(doc))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var arr []rawEntity
		if err := json.Unmarshal(doc, &arr); err != nil {
			return nil, fmt.Errorf("parse array form: %w", err)
		}
		return arr, nil
	}

	var m map[string]rawEntity
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("parse map form: %w", err)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic entity order for map-form docs
	raws := make([]rawEntity, 0, len(m))
	for _, k := range keys {
		r := m[k]
		if r.Key == "" && r.ID == "" {
			r.ID = k // map key doubles as the entity id
		}
		raws = append(raws, r)
	}
	return raws, nil
}

func (t *Taxonomy) index(alias string, e *CanonicalEntity) {
	norm := engine.NormalizeText(alias)
	if norm == "" {
		return
	}
	if _, taken := t.aliasIndex[norm]; taken {
		return // first writer wins
	}
	t.aliasIndex[norm] = e
}

// Lookup resolves raw free text against the alias index. The lookup is
// case/punctuation/whitespace-insensitive.
func (t *Taxonomy) Lookup(raw string) (*CanonicalEntity, bool) {
	if t == nil {
		return nil, false
	}
	e, ok := t.aliasIndex[engine.NormalizeText(raw)]
	return e, ok
}

// ByKey returns the entity with the given stable key.
func (t *Taxonomy) ByKey(key string) (*CanonicalEntity, bool) {
	if t == nil {
		return nil, false
	}
	e, ok := t.byKey[key]
	return e, ok
}

// Entities returns the entity list in load order. Callers must not mutate.
func (t *Taxonomy) Entities() []*CanonicalEntity {
	if t == nil {
		return nil
	}
	return t.entities
}

// Len returns the number of indexed entities.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entities)
}

// Name returns the taxonomy name ("degree", "eligibility").
func (t *Taxonomy) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Fingerprint identifies this taxonomy snapshot; embedding caches key on it
// so a reload invalidates cached canonical-name vectors.
func (t *Taxonomy) Fingerprint() string {
	if t == nil {
		return ""
	}
	return t.fingerprint
}

func fingerprintEntities(name string, entities []*CanonicalEntity) string {
	h := sha256.New()
	h.Write([]byte(name))
	for _, e := range entities {
		fmt.Fprintf(h, "|%s=%s", e.Key, e.CanonicalName)
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:8])
}

// AliasCollision reports one normalized alias claimed by more than one
// distinct entity. The index keeps the first claimant; the rest are listed
// here for the diagnostic pass.
type AliasCollision struct {
	Alias    string   `json:"alias"`
	KeptKey  string   `json:"kept_key"`
	LostKeys []string `json:"lost_keys"`
}

// Collisions scans every entity's normalized alias set and returns the
// aliases claimed by two or more distinct entities. Collisions never abort
// a load; they are a data-quality signal for whoever curates the dictionary.
func (t *Taxonomy) Collisions() []AliasCollision {
	if t == nil {
		return nil
	}
	claims := make(map[string][]string) // normalized alias → claiming keys, in load order
	for _, e := range t.entities {
		seen := map[string]bool{}
		for _, a := range append([]string{e.CanonicalName, e.Key}, e.Aliases...) {
			norm := engine.NormalizeText(a)
			if norm == "" || seen[norm] {
				continue // duplicate aliases within one entity are not a collision
			}
			seen[norm] = true
			claims[norm] = append(claims[norm], e.Key)
		}
	}

	var out []AliasCollision
	for alias, keys := range claims {
		if len(keys) < 2 {
			continue
		}
		out = append(out, AliasCollision{Alias: alias, KeptKey: keys[0], LostKeys: keys[1:]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out
}

// Package-level taxonomy registries, set from main.go. The canonicalizer
// and scoring engine read whichever snapshot is current; swapping a
// snapshot is atomic from the caller's point of view.

var (
	degreeTaxonomy      *Taxonomy
	eligibilityTaxonomy *Taxonomy
)

// SetDegreeTaxonomy installs the degree taxonomy snapshot.
func SetDegreeTaxonomy(t *Taxonomy) { degreeTaxonomy = t }

// DegreeTaxonomy returns the current degree taxonomy (may be nil).
func DegreeTaxonomy() *Taxonomy { return degreeTaxonomy }

// SetEligibilityTaxonomy installs the eligibility taxonomy snapshot.
func SetEligibilityTaxonomy(t *Taxonomy) { eligibilityTaxonomy = t }

// EligibilityTaxonomy returns the current eligibility taxonomy (may be nil).
func EligibilityTaxonomy() *Taxonomy { return eligibilityTaxonomy }
