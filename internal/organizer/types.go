package organizer

// Category is a coarse content classification for a photo.
type Category string

const (
	CategorySelfie     Category = "selfie"
	CategoryDocument   Category = "document"
	CategoryScreenshot Category = "screenshot"
	CategoryNature     Category = "nature"
	CategoryOther      Category = "other"
)

// Exif holds the EXIF-derived attributes of a photo. All fields are
// optional; missing metadata is represented by the zero value.
type Exif struct {
	// Timestamp in "YYYY:MM:DD HH:MM:SS" form, as written by cameras.
	Timestamp string `json:"timestamp,omitempty"`
	// GPS as a "lat,lon" decimal string.
	GPS         string `json:"gps,omitempty"`
	CameraMake  string `json:"camera_make,omitempty"`
	CameraModel string `json:"camera_model,omitempty"`
	// Camera is the combined "Make Model" display string.
	Camera string `json:"camera,omitempty"`
}

// FaceObservation is a single detected face within a photo. It is owned
// by exactly one PhotoRecord and never shared.
type FaceObservation struct {
	// Box is the bounding box [x1, y1, x2, y2] in pixel coordinates.
	Box [4]int `json:"box"`
	// Embedding is the face embedding vector. Empty when no embedding
	// model produced one; such faces are never clustered.
	Embedding []float32 `json:"embedding,omitempty"`
	// ClusterID is assigned by face clustering. Nil until clustering
	// runs; -1 means noise (unclustered) per DBSCAN convention.
	ClusterID *int `json:"cluster_id,omitempty"`
}

// PhotoRecord is the per-photo unit of the pipeline. It is created once
// per scanned image and mutated in place by face clustering (cluster
// ids) and event grouping (event id).
type PhotoRecord struct {
	Path     string            `json:"path"`
	Exif     Exif              `json:"exif"`
	Faces    []FaceObservation `json:"faces"`
	Category Category          `json:"category"`
	OCRText  string            `json:"ocr_text,omitempty"`

	// Resolved location, filled by the geocoder when GPS is present.
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`

	// EventID is assigned by event grouping. Nil for records without a
	// parseable timestamp.
	EventID   *int   `json:"event_id,omitempty"`
	EventName string `json:"event_name,omitempty"`
}

// LocationLevel selects the administrative level for location grouping.
type LocationLevel string

const (
	LevelCity    LocationLevel = "city"
	LevelState   LocationLevel = "state"
	LevelCountry LocationLevel = "country"
)

// LocationField returns the resolved value for the given level, or an
// empty string when the record has none or the level is unknown.
func (r *PhotoRecord) LocationField(level LocationLevel) string {
	switch level {
	case LevelCity:
		return r.City
	case LevelState:
		return r.State
	case LevelCountry:
		return r.Country
	}
	return ""
}
