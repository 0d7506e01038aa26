package song

// Recognized enrichment field names. Anything else coming back from a
// gateway mapping is skipped, never an error.
const (
	MetadataFieldBPM           = "bpm"
	MetadataFieldMood          = "mood"
	MetadataFieldEnrichedGenre = "enriched_genre"
)

// MetadataUpdate is a typed partial update of the enriched metadata fields.
// Nil fields are left untouched.
type MetadataUpdate struct {
	BPM           *int    `json:"bpm,omitempty"`
	Mood          *string `json:"mood,omitempty"`
	EnrichedGenre *string `json:"enriched_genre,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u MetadataUpdate) IsEmpty() bool {
	return u.BPM == nil && u.Mood == nil && u.EnrichedGenre == nil
}

// Apply writes the set fields onto s.
func (u MetadataUpdate) Apply(s *Song) {
	if u.BPM != nil {
		s.BPM = u.BPM
	}
	if u.Mood != nil {
		s.Mood = u.Mood
	}
	if u.EnrichedGenre != nil {
		s.EnrichedGenre = u.EnrichedGenre
	}
}

// MetadataUpdateFromMap converts a dynamic field mapping, as returned by an
// enrichment gateway, into a typed update. Keys outside the metadata schema
// and values of the wrong type are returned in skipped so the caller can
// warn about them.
func MetadataUpdateFromMap(fields map[string]any) (MetadataUpdate, []string) {
	var update MetadataUpdate
	var skipped []string

	for key, value := range fields {
		switch key {
		case MetadataFieldBPM:
			if bpm, ok := toInt(value); ok {
				update.BPM = &bpm
			} else {
				skipped = append(skipped, key)
			}
		case MetadataFieldMood:
			if mood, ok := value.(string); ok {
				update.Mood = &mood
			} else {
				skipped = append(skipped, key)
			}
		case MetadataFieldEnrichedGenre:
			if genre, ok := value.(string); ok {
				update.EnrichedGenre = &genre
			} else {
				skipped = append(skipped, key)
			}
		default:
			skipped = append(skipped, key)
		}
	}

	return update, skipped
}

// toInt accepts the numeric shapes a JSON decoder or a Go fixture may
// produce for bpm.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
