package countries

// Filter returns the entries whose region is in regions, preserving dataset
// order. When regions contains "all" every entry is returned. An empty
// selection yields an empty result and unknown tags match nothing.
func Filter(entries []Entry, regions []string) []Entry {
	selected := make(map[Region]struct{}, len(regions))
	for _, raw := range regions {
		region, _ := ParseRegion(raw)
		if region == "" {
			continue
		}
		if region == RegionAll {
			return Clone(entries)
		}
		selected[region] = struct{}{}
	}

	out := make([]Entry, 0, len(entries))
	if len(selected) == 0 {
		return out
	}
	for _, entry := range entries {
		if _, ok := selected[entry.Region]; ok {
			out = append(out, entry)
		}
	}
	return out
}

// Names lists entry names in order.
func Names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Name)
	}
	return out
}
