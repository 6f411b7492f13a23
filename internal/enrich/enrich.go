package enrich

// Enrich joins every boundary zone with the recommendation rows selected by filter.
//
// Zones without a matching row appear once with NoData fields. A zone matched by
// several rows (duplicate area/type/rooms/quarter tuples) appears once per row, in
// table order; the rows are not deduplicated. The result always holds at least one
// entry per boundary zone and the input tables are left untouched.
func (t *Tables) Enrich(filter Filter, mode ViewMode) Result {
	filter = filter.Canonical()
	result := Result{
		Filter: filter,
		Mode:   mode,
		Zones:  make([]EnrichedZone, 0, len(t.boundaries)),
	}

	byKey := make(map[string][]int)
	for i, r := range t.records {
		if r.JoinKey == "" || !filter.Matches(r) {
			continue
		}
		byKey[r.JoinKey] = append(byKey[r.JoinKey], i)
	}

	for _, zone := range t.boundaries {
		matches := byKey[zone.NormalizedName]
		if zone.NormalizedName == "" || len(matches) == 0 {
			result.Zones = append(result.Zones, unmatchedZone(zone))
			result.Unmatched++
			continue
		}
		for _, idx := range matches {
			result.Zones = append(result.Zones, t.matchedZone(zone, t.records[idx], mode))
			result.Matched++
		}
	}

	return result
}

func unmatchedZone(zone ZoneBoundary) EnrichedZone {
	return EnrichedZone{
		Geometry:       zone.Geometry,
		DisplayName:    zone.Name,
		NormalizedName: zone.NormalizedName,
		Insight:        NoData,
		Recommendation: NoData,
		Bucket:         NoData,
		Color:          ColorFor(NoData),
	}
}

func (t *Tables) matchedZone(zone ZoneBoundary, r Recommendation, mode ViewMode) EnrichedZone {
	bucket := t.buckets.Lookup(r.PatternID)
	insight, recommendation := r.InsightInvestor, r.RecommendationInvestor
	if mode == EndUser {
		insight, recommendation = r.InsightEndUser, r.RecommendationEndUser
	}
	return EnrichedZone{
		Geometry:       zone.Geometry,
		DisplayName:    zone.Name,
		NormalizedName: zone.NormalizedName,
		PatternID:      r.PatternID,
		Insight:        insight,
		Recommendation: recommendation,
		Bucket:         bucket,
		Color:          ColorFor(bucket),
		Matched:        true,
	}
}
