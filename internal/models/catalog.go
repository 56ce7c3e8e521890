package models

import "time"

// CatalogItem is one video returned by the search provider
type CatalogItem struct {
	ID         CatalogItemID `json:"id"`
	Snippet    Snippet       `json:"snippet"`
	Statistics *Statistics   `json:"statistics,omitempty"`
}

// CatalogItemID is the opaque provider identifier together with its kind tag
type CatalogItemID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

// Snippet holds the descriptive fields of a catalog item
type Snippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PublishedAt  time.Time  `json:"publishedAt"`
	Thumbnails   Thumbnails `json:"thumbnails"`
	ChannelTitle string     `json:"channelTitle"`
}

// Thumbnails holds the provider thumbnail variants
type Thumbnails struct {
	Default Thumbnail `json:"default"`
	Medium  Thumbnail `json:"medium"`
	High    Thumbnail `json:"high"`
}

// Thumbnail is a single provider thumbnail variant
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Statistics holds engagement counters of a catalog item
type Statistics struct {
	ViewCount    int64 `json:"viewCount"`
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
}

// Views returns the view count, or zero when statistics are absent
func (i CatalogItem) Views() int64 {
	if i.Statistics == nil {
		return 0
	}
	return i.Statistics.ViewCount
}

// Likes returns the like count, or zero when statistics are absent
func (i CatalogItem) Likes() int64 {
	if i.Statistics == nil {
		return 0
	}
	return i.Statistics.LikeCount
}
