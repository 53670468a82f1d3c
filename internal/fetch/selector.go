package fetch

import (
	"fmt"
	"regexp"
)

// maxSampleNames bounds how many listed filenames a NoMatchError reports.
const maxSampleNames = 10

// SelectFiles picks up to limit files whose display name matches any of the
// patterns. Patterns are applied case-insensitively as unanchored searches,
// in order; the first matching pattern selects the file. Source order is
// preserved and no file is selected twice. Returns a NoMatchError carrying
// up to ten sample names when nothing matches.
func SelectFiles(recordID string, files []File, patterns []string, limit int) ([]File, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		rx, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling selection pattern %q: %w", p, err)
		}

		compiled = append(compiled, rx)
	}

	var selected []File

	for _, f := range files {
		if len(selected) >= limit {
			break
		}

		name := f.DisplayName()
		for _, rx := range compiled {
			if rx.MatchString(name) {
				selected = append(selected, f)
				break
			}
		}
	}

	if len(selected) == 0 {
		return nil, &NoMatchError{RecordID: recordID, Samples: sampleNames(files)}
	}

	return selected, nil
}

func sampleNames(files []File) []string {
	names := make([]string, 0, maxSampleNames)

	for _, f := range files {
		if len(names) >= maxSampleNames {
			break
		}

		name := f.DisplayName()
		if name == "" {
			name = "?"
		}

		names = append(names, name)
	}

	return names
}
