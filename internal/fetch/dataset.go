package fetch

import "fmt"

// Source selector values accepted by DatasetsForSource.
const (
	SourceMusdb    = "musdb"
	SourceMedleydb = "medleydb"
	SourceBoth     = "both"
)

// Dataset describes one fetchable stem collection hosted as a repository
// record: where to list it, which filenames to pick, and whether downloaded
// containers go through stem decoding.
type Dataset struct {
	Name     string   // Subdirectory name under the output root
	RecordID string   // Repository record to list
	Patterns []string // Ordered selection patterns, matched case-insensitively
	Decode   bool     // Decode downloaded containers into per-stem audio files
}

// Musdb18 returns the MUSDB18 compressed STEMS dataset definition. Typical
// names look like "A Classic Education - NightOwl STEMS.mp4". The decode flag
// enables per-container stem extraction after download.
func Musdb18(recordID string, decode bool) Dataset {
	return Dataset{
		Name:     "musdb18",
		RecordID: recordID,
		Patterns: []string{`\.mp4$`, `stems?\.mp4$`},
		Decode:   decode,
	}
}

// Medleydb returns the MedleyDB v2 multitrack dataset definition. Selection
// is a name heuristic for stem-bearing archives and raw audio files.
func Medleydb(recordID string) Dataset {
	return Dataset{
		Name:     "medleydb",
		RecordID: recordID,
		Patterns: []string{`multitrack.*\.zip$`, `stems?.*\.zip$`, `\.wav$`, `\.flac$`},
	}
}

// DatasetsForSource maps a source selector to the datasets to fetch, in fetch
// order. Decoding only ever applies to the MUSDB18 container format.
func DatasetsForSource(source, musdbRecordID, medleydbRecordID string, decode bool) ([]Dataset, error) {
	switch source {
	case SourceMusdb:
		return []Dataset{Musdb18(musdbRecordID, decode)}, nil
	case SourceMedleydb:
		return []Dataset{Medleydb(medleydbRecordID)}, nil
	case SourceBoth:
		return []Dataset{Musdb18(musdbRecordID, decode), Medleydb(medleydbRecordID)}, nil
	default:
		return nil, fmt.Errorf("unknown source %q (expected %q, %q or %q)",
			source, SourceMusdb, SourceMedleydb, SourceBoth)
	}
}
