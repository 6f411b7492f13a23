package enrich

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/serdal-zonemap/internal/normalize"
)

// PatternBuckets maps pattern IDs to bucket labels.
type PatternBuckets struct {
	buckets map[string]string
}

// NewPatternBuckets builds the lookup, canonicalizing every pattern ID. IDs are visited
// in sorted order and the first one wins, so "7" beats "7.0" on every run.
func NewPatternBuckets(entries map[string]string) PatternBuckets {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	buckets := make(map[string]string, len(entries))
	for _, raw := range ids {
		id := CanonicalPatternID(raw)
		bucket := strings.TrimSpace(entries[raw])
		if id == "" || bucket == "" {
			continue
		}
		if _, seen := buckets[id]; seen {
			continue
		}
		buckets[id] = bucket
	}
	return PatternBuckets{buckets: buckets}
}

// Lookup resolves a pattern ID to its bucket; absent or unknown IDs resolve to NoData.
func (p PatternBuckets) Lookup(patternID string) string {
	if bucket, ok := p.buckets[CanonicalPatternID(patternID)]; ok {
		return bucket
	}
	return NoData
}

// Len reports the number of known patterns.
func (p PatternBuckets) Len() int {
	return len(p.buckets)
}

// CanonicalPatternID trims an ID and drops a float suffix such as "7.0".
func CanonicalPatternID(id string) string {
	return canonicalNumber(id)
}

// CanonicalRooms trims a room count and drops a float suffix such as "2.0".
func CanonicalRooms(rooms string) string {
	return canonicalNumber(rooms)
}

func canonicalNumber(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// Tables bundles the static datasets behind the map. Built once at startup and
// never modified afterwards, so it may be shared across goroutines.
type Tables struct {
	boundaries []ZoneBoundary
	records    []Recommendation
	buckets    PatternBuckets
	aliases    normalize.AliasTable
	version    string
}

// NewTables copies the inputs, computes normalized names and join keys, and
// fingerprints the content.
func NewTables(boundaries []ZoneBoundary, records []Recommendation, buckets PatternBuckets, aliases normalize.AliasTable) *Tables {
	t := &Tables{
		boundaries: make([]ZoneBoundary, len(boundaries)),
		records:    make([]Recommendation, len(records)),
		buckets:    buckets,
		aliases:    aliases,
	}

	for i, b := range boundaries {
		b.NormalizedName = normalize.Normalize(b.Name)
		t.boundaries[i] = b
	}

	for i, r := range records {
		r.UnitType = strings.TrimSpace(r.UnitType)
		r.Rooms = CanonicalRooms(r.Rooms)
		r.Quarter = strings.TrimSpace(r.Quarter)
		r.PatternID = CanonicalPatternID(r.PatternID)
		r.NormalizedArea = normalize.Normalize(r.Area)
		r.JoinKey, r.Aliased = normalize.JoinKey(r.Area, aliases)
		t.records[i] = r
	}

	t.version = t.fingerprint()
	return t
}

func (t *Tables) fingerprint() string {
	h := fnv.New64a()
	for _, b := range t.boundaries {
		fmt.Fprintf(h, "z\x00%s\x00%d\x00", b.Name, len(b.Geometry))
	}
	for _, r := range t.records {
		fmt.Fprintf(h, "r\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00",
			r.Area, r.UnitType, r.Rooms, r.Quarter, r.PatternID,
			r.InsightInvestor, r.RecommendationInvestor, r.InsightEndUser, r.RecommendationEndUser)
	}
	ids := make([]string, 0, len(t.buckets.buckets))
	for id := range t.buckets.buckets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(h, "p\x00%s\x00%s\x00", id, t.buckets.buckets[id])
	}
	aliases := t.aliases.Entries()
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "a\x00%s\x00%s\x00", k, aliases[k])
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// Version identifies the loaded content; it changes whenever any table does.
func (t *Tables) Version() string { return t.version }

// Boundaries returns the zones in dataset order. Callers must not modify the slice.
func (t *Tables) Boundaries() []ZoneBoundary { return t.boundaries }

// Records returns the recommendation rows in table order. Callers must not modify the slice.
func (t *Tables) Records() []Recommendation { return t.records }

// Buckets returns the pattern lookup.
func (t *Tables) Buckets() PatternBuckets { return t.buckets }

// Aliases returns the alias table.
func (t *Tables) Aliases() normalize.AliasTable { return t.aliases }

// BoundaryNames returns the display name of every zone.
func (t *Tables) BoundaryNames() []string {
	names := make([]string, len(t.boundaries))
	for i, b := range t.boundaries {
		names[i] = b.Name
	}
	return names
}

// AreaNames returns the distinct registry area names in first-seen order.
func (t *Tables) AreaNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range t.records {
		if !seen[r.Area] {
			seen[r.Area] = true
			names = append(names, r.Area)
		}
	}
	return names
}

// Reconcile reports how the registry areas line up with the boundary zones.
func (t *Tables) Reconcile() normalize.ReconcileReport {
	return normalize.Reconcile(t.BoundaryNames(), t.AreaNames(), t.aliases)
}

// Options lists the distinct filter values offered to the user.
type Options struct {
	UnitTypes []string   `json:"unit_types"`
	Rooms     []string   `json:"rooms"`
	Quarters  []string   `json:"quarters"`
	Modes     []ViewMode `json:"modes"`
}

// Default returns the first value of each list, the map's initial selection.
func (o Options) Default() Filter {
	var f Filter
	if len(o.UnitTypes) > 0 {
		f.UnitType = o.UnitTypes[0]
	}
	if len(o.Rooms) > 0 {
		f.Rooms = o.Rooms[0]
	}
	if len(o.Quarters) > 0 {
		f.Quarter = o.Quarters[0]
	}
	return f
}

// Options returns unit types ascending, rooms in numeric order and quarters newest first.
func (t *Tables) Options() Options {
	unitTypes := make(map[string]bool)
	rooms := make(map[string]bool)
	quarters := make(map[string]bool)
	for _, r := range t.records {
		unitTypes[r.UnitType] = true
		rooms[r.Rooms] = true
		quarters[r.Quarter] = true
	}

	opts := Options{
		UnitTypes: sortedKeys(unitTypes),
		Rooms:     sortedKeys(rooms),
		Quarters:  sortedKeys(quarters),
		Modes:     ViewModes,
	}
	sort.SliceStable(opts.Rooms, func(i, j int) bool {
		return lessRooms(opts.Rooms[i], opts.Rooms[j])
	})
	sort.Sort(sort.Reverse(sort.StringSlice(opts.Quarters)))
	return opts
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// lessRooms orders numeric room counts numerically ahead of labels such as "Studio".
func lessRooms(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
