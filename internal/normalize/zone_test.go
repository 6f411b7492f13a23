package normalize

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "article and ordinal",
			input: "Al Barsha First",
			want:  "BARSHA 1",
		},
		{
			name:  "already canonical",
			input: "BARSHA 1",
			want:  "BARSHA 1",
		},
		{
			name:  "surrounding whitespace",
			input: "  jumeirah village circle  ",
			want:  "JUMEIRAH VILLAGE CIRCLE",
		},
		{
			name:  "collapsed inner whitespace",
			input: "Jumeirah   Village\tCircle",
			want:  "JUMEIRAH VILLAGE CIRCLE",
		},
		{
			name:  "all ordinals",
			input: "First Second Third Fourth Fifth",
			want:  "1 2 3 4 5",
		},
		{
			name:  "ordinal inside a word is kept",
			input: "Firstbrook",
			want:  "FIRSTBROOK",
		},
		{
			name:  "article in the middle",
			input: "Nad Al Sheba Third",
			want:  "NAD SHEBA 3",
		},
		{
			name:  "article suffix of a word is kept",
			input: "Royal City",
			want:  "ROYAL CITY",
		},
		{
			name:  "south abbreviated",
			input: "Al Barsha South Fourth",
			want:  "BARSHA S 4",
		},
		{
			name:  "south at the end is kept",
			input: "Dubai South",
			want:  "DUBAI SOUTH",
		},
		{
			name:  "south as a word suffix is kept",
			input: "Mahsouth Hills",
			want:  "MAHSOUTH HILLS",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  "",
		},
		{
			name:  "bare article",
			input: "Al ",
			want:  "AL",
		},
		{
			name:  "article after a non ascii letter is kept",
			input: "Şal Nahda",
			want:  "ŞAL NAHDA",
		},
		{
			name:  "article suffix after an accented letter is kept",
			input: "Éal X",
			want:  "ÉAL X",
		},
		{
			name:  "south suffix after a non ascii letter is kept",
			input: "Ösouth Park",
			want:  "ÖSOUTH PARK",
		},
		{
			name:  "ordinal after a non ascii letter is kept",
			input: "Şfirst Gate",
			want:  "ŞFIRST GATE",
		},
		{
			name:  "repeated article",
			input: "Al Al Barsha",
			want:  "BARSHA",
		},
		{
			name:  "adjacent ordinals",
			input: "First First",
			want:  "1 1",
		},
		{
			name:  "article after punctuation",
			input: "(Al Barsha)",
			want:  "(BARSHA)",
		},
		{
			name:  "non latin characters pass through",
			input: "البرشاء 1",
			want:  "البرشاء 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Al Barsha First",
		"AL AL BARSHA",
		"Al South Second",
		"South Al Warqa'a Fifth",
		"Nad Al Hamar",
		"  al  barsha   south  ",
		"Me'aisem First",
		"AL",
		"SOUTH",
		"Hor Al Anz East",
		"Umm Al Sheif",
		"Şal Nahda",
		"Al Al Al Barsha First First",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeDebugMatchesNormalize(t *testing.T) {
	input := "Al Barsha South Third"
	if got, want := NormalizeDebug(true, input), Normalize(input); got != want {
		t.Errorf("NormalizeDebug() = %q, want %q", got, want)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("  ") {
		t.Error("IsBlank(\"  \") = false, want true")
	}
	if IsBlank("Al Quoz") {
		t.Error("IsBlank(\"Al Quoz\") = true, want false")
	}
}

func TestJoinKey(t *testing.T) {
	aliases := NewAliasTable(map[string]string{
		"Jumeirah Village Circle": "Al Barsha South Fourth",
		"Dubai Marina":            "Marsa Dubai",
	})

	tests := []struct {
		name        string
		input       string
		wantKey     string
		wantAliased bool
	}{
		{
			name:        "alias overrides rule",
			input:       "jumeirah village circle",
			wantKey:     "BARSHA S 4",
			wantAliased: true,
		},
		{
			name:        "alias matched after normalization",
			input:       " DUBAI   marina ",
			wantKey:     "MARSA DUBAI",
			wantAliased: true,
		},
		{
			name:        "rule fallback",
			input:       "Al Barsha First",
			wantKey:     "BARSHA 1",
			wantAliased: false,
		},
		{
			name:        "empty name",
			input:       "",
			wantKey:     "",
			wantAliased: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, aliased := JoinKey(tt.input, aliases)
			if key != tt.wantKey || aliased != tt.wantAliased {
				t.Errorf("JoinKey(%q) = (%q, %v), want (%q, %v)", tt.input, key, aliased, tt.wantKey, tt.wantAliased)
			}
		})
	}
}

func TestNewAliasTableDropsBlankEntries(t *testing.T) {
	aliases := NewAliasTable(map[string]string{
		"":          "Al Quoz",
		"Al Safa":   "   ",
		"Al Sufouh": "Al Sufouh First",
	})

	if aliases.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", aliases.Len())
	}
	if target, ok := aliases.Lookup("SUFOUH"); !ok || target != "SUFOUH 1" {
		t.Errorf("Lookup(SUFOUH) = (%q, %v), want (\"SUFOUH 1\", true)", target, ok)
	}
}

func TestNewAliasTableFromEntriesFirstRowWins(t *testing.T) {
	aliases, dropped := NewAliasTableFromEntries([]AliasEntry{
		{Official: "Dubai Marina", Zone: "Marsa Dubai"},
		{Official: "", Zone: "Al Quoz"},
		{Official: "DUBAI  MARINA", Zone: "Jumeirah Beach Residence"},
		{Official: "JVC", Zone: "Jumeirah Village Circle"},
	})

	if aliases.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", aliases.Len())
	}
	if target, _ := aliases.Lookup("DUBAI MARINA"); target != "MARSA DUBAI" {
		t.Errorf("Lookup(DUBAI MARINA) = %q, want MARSA DUBAI", target)
	}
	want := []AliasEntry{{Official: "DUBAI  MARINA", Zone: "Jumeirah Beach Residence"}}
	if !reflect.DeepEqual(dropped, want) {
		t.Errorf("dropped = %+v, want %+v", dropped, want)
	}
}

func TestNewAliasTableCollisionIsStable(t *testing.T) {
	entries := map[string]string{
		"Dubai Marina":  "Marsa Dubai",
		"DUBAI  MARINA": "Jumeirah Beach Residence",
		"dubai marina":  "Dubai Harbour",
	}

	// "DUBAI  MARINA" sorts first
	for i := 0; i < 50; i++ {
		aliases := NewAliasTable(entries)
		if aliases.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", aliases.Len())
		}
		if target, _ := aliases.Lookup("DUBAI MARINA"); target != "JUMEIRAH BEACH RESIDENCE" {
			t.Fatalf("run %d: Lookup(DUBAI MARINA) = %q, want JUMEIRAH BEACH RESIDENCE", i, target)
		}
	}
}

func TestReconcile(t *testing.T) {
	boundaries := []string{"Al Barsha First", "Jumeirah Village Circle", "Marsa Dubai", "Al Quoz Industrial First"}
	registry := []string{"AL BARSHA FIRST", "Dubai Marina", "Business Bay", "AL BARSHA FIRST"}
	aliases := NewAliasTable(map[string]string{"Dubai Marina": "Marsa Dubai"})

	report := Reconcile(boundaries, registry, aliases)

	if report.BoundaryZones != 4 {
		t.Errorf("BoundaryZones = %d, want 4", report.BoundaryZones)
	}
	if report.RegistryNames != 3 {
		t.Errorf("RegistryNames = %d, want 3", report.RegistryNames)
	}
	if report.Matched != 2 {
		t.Errorf("Matched = %d, want 2", report.Matched)
	}
	if got := report.AliasHits["Dubai Marina"]; got != "MARSA DUBAI" {
		t.Errorf("AliasHits[Dubai Marina] = %q, want MARSA DUBAI", got)
	}
	if want := []string{"Business Bay"}; !reflect.DeepEqual(report.UnmatchedRegistry, want) {
		t.Errorf("UnmatchedRegistry = %v, want %v", report.UnmatchedRegistry, want)
	}
	if want := []string{"Al Quoz Industrial First", "Jumeirah Village Circle"}; !reflect.DeepEqual(report.UnmatchedZones, want) {
		t.Errorf("UnmatchedZones = %v, want %v", report.UnmatchedZones, want)
	}
}

func TestSuggestAliases(t *testing.T) {
	boundaryKeys := map[string]string{
		"JUMEIRAH VILLAGE CIRCLE": "Jumeirah Village Circle",
		"QUOZ INDUSTRIAL 1":       "Al Quoz Industrial First",
	}
	expansions := map[string][]string{
		"JVC":                   {"jvc", "jumeirah village circle"},
		"Al Quoz Ind. First":    {"al quoz ind first", "al quoz industrial first"},
		"Downtown Burj Khalifa": {"downtown burj khalifa"},
	}
	expander := func(name string) []string { return expansions[name] }

	got := SuggestAliases([]string{"JVC", "Al Quoz Ind. First", "Downtown Burj Khalifa"}, boundaryKeys, expander)

	if len(got) != 2 {
		t.Fatalf("SuggestAliases() returned %d suggestions, want 2: %+v", len(got), got)
	}
	if got[0].OfficialName != "JVC" || got[0].ZoneName != "Jumeirah Village Circle" {
		t.Errorf("suggestion[0] = %+v", got[0])
	}
	if got[1].OfficialName != "Al Quoz Ind. First" || !strings.Contains(got[1].Variant, "industrial") {
		t.Errorf("suggestion[1] = %+v", got[1])
	}
}
