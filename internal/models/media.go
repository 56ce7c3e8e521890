package models

// ThumbnailSource names the fallback tier that produced a thumbnail
type ThumbnailSource string

const (
	ThumbnailSourceProvider    ThumbnailSource = "provider"
	ThumbnailSourceFrame       ThumbnailSource = "frame"
	ThumbnailSourcePlaceholder ThumbnailSource = "placeholder"
)

// DownloadResult holds the local files produced by media acquisition
type DownloadResult struct {
	VideoPath       string          `json:"videoPath"`
	ThumbnailPath   string          `json:"thumbnailPath"`
	Duration        float64         `json:"duration"`
	ThumbnailSource ThumbnailSource `json:"thumbnailSource"`
	// Stem is the shared base name of every file created for this download
	Stem string `json:"-"`
}

// TranscodeResult holds the local preview rendition
type TranscodeResult struct {
	PreviewPath string `json:"previewPath"`
}

// PublishedArtifacts holds the durable URLs of the three uploaded objects
type PublishedArtifacts struct {
	OriginalVideoURL string `json:"originalVideoUrl"`
	PreviewVideoURL  string `json:"previewVideoUrl"`
	ThumbnailURL     string `json:"thumbnailUrl"`
	// Prefix is the timestamp-derived name prefix shared by all three objects
	Prefix string `json:"prefix"`
}

// ItemDetails is the descriptive subset of a catalog item needed for publishing
type ItemDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ViewCount   int64  `json:"viewCount"`
	LikeCount   int64  `json:"likeCount"`
}
