package cache

// ArtifactKeyOpts holds every render option that affects the output image.
type ArtifactKeyOpts struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	NumCells   int       `json:"num_cells"`
	Colors     [3]string `json:"colors"`
	Mode       string    `json:"mode"`
	BlendCount int       `json:"blend_count"`
	Seed       uint64    `json:"seed"`
	Fallback   string    `json:"fallback"`
}

// Keyer derives cache keys from render options.
type Keyer interface {
	ArtifactKey(opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the options into a stable key.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact", opts)
}

var _ Keyer = DefaultKeyer{}
