package types

import "time"

// HTTPConfig holds shared HTTP settings used by the lister and downloader.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Cookie is an optional Cookie header value (loaded from the
	// ssrn-cookie secret).
	Cookie string `json:"-" yaml:"-"`
}

// ListConfig holds settings for the listing stage.
type ListConfig struct {
	HTTPConfig `yaml:",inline"`

	// JELCode is the JEL classification code to list (e.g. "J14").
	JELCode string `json:"jel_code" yaml:"jel_code"`

	// MaxPages caps the number of listing pages fetched. Zero means use the
	// total page count reported by the first page.
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MaxPapers caps the number of papers collected. Zero means no cap.
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// PageDelay is the fixed delay between consecutive listing pages (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// OutputPath is the list file to write. Empty means a timestamped
	// name derived from the JEL code.
	OutputPath string `json:"output" yaml:"output"`
}

// DownloadConfig holds settings for the abstract download stage. The
// inter-request delay is not configurable; see DefaultMinDelay.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputPath is the aggregate abstracts JSON file.
	OutputPath string `json:"output" yaml:"output"`

	// FailedPath is the failed papers JSON file.
	FailedPath string `json:"failed_output" yaml:"failed_output"`

	// ResumePath is a previous abstracts file whose IDs are skipped.
	ResumePath string `json:"resume,omitempty" yaml:"resume,omitempty"`
}

// Rate-limit avoidance window applied between consecutive abstract downloads.
const (
	DefaultMinDelay = 45 * time.Second
	DefaultMaxDelay = 50 * time.Second
)

// IndexConfig holds settings for the SQLite abstract index.
type IndexConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db" yaml:"db"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
