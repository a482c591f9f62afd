package domain

// ExploreParams are the voice library search/filter parameters shared by the
// public explore listing and the caller-scoped my-voices listing.
type ExploreParams struct {
	Keyword      string
	VoiceIDs     []string
	Language     string
	LanguageType string
	Age          string
	Gender       string
	Scene        []string
	Emotion      []string
	Sort         string
	Skip         int
	Limit        int
}

// HasFilters reports whether any narrowing filter is set; unfiltered browses
// are cached longer and have top-fixed voices deduplicated out.
func (p ExploreParams) HasFilters() bool {
	return p.Keyword != "" || len(p.VoiceIDs) > 0 || p.LanguageType != "" ||
		p.Age != "" || p.Gender != "" || len(p.Scene) > 0 || len(p.Emotion) > 0
}

// VoicePage is one page of library results.
type VoicePage struct {
	TotalCount int
	Voices     []Voice
}
