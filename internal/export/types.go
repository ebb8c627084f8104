package export

// Payload is the caller-supplied export request: group key (segment_<i> or
// ungrouped) to the relative paths selected under that group. The payload
// is authoritative for what gets exported; it is not required to match the
// live selection store.
type Payload map[string][]string

// SkippedImage records one selected path that did not make it into the
// bundle, with the reason it was passed over.
type SkippedImage struct {
	RelPath string `json:"rel_path"`
	Reason  string `json:"reason"`
}

const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Result describes one finished export run. Status is failed when
// selections were present but nothing could be copied, partial when some
// copies were skipped, ok otherwise.
type Result struct {
	Success   bool           `json:"success"`
	Status    string         `json:"status"`
	Dir       string         `json:"dir"`
	Filename  string         `json:"filename"`
	Message   string         `json:"message"`
	Requested int            `json:"requested"`
	Copied    int            `json:"copied"`
	Skipped   []SkippedImage `json:"skipped,omitempty"`
}
