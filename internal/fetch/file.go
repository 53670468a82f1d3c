package fetch

// File is a single file entry from a repository record listing. Zenodo has
// shipped several metadata shapes over the years, so the name and address
// fields are optional variants resolved through a fixed lookup order.
type File struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
	Bucket   string `json:"bucket"`
	Links    Links  `json:"links"`
}

// Links holds the per-file link variants a record listing may provide.
type Links struct {
	Download string `json:"download"`
	Self     string `json:"self"`
	File     string `json:"file"`
}

// DisplayName returns the filename for the entry, trying key, then filename,
// then name. Empty when the entry carries no name at all.
func (f File) DisplayName() string {
	for _, n := range []string{f.Key, f.Filename, f.Name} {
		if n != "" {
			return n
		}
	}
	return ""
}

// DownloadURL resolves the fetchable address for the entry. An explicit
// download link is preferred, then the self link, then the generic file link;
// entries with none of those compose bucket/key when both are present.
// Reports false when no usable reference exists.
func (f File) DownloadURL() (string, bool) {
	for _, u := range []string{f.Links.Download, f.Links.Self, f.Links.File} {
		if u != "" {
			return u, true
		}
	}
	if f.Bucket != "" {
		if key := f.DisplayName(); key != "" {
			return f.Bucket + "/" + key, true
		}
	}
	return "", false
}
