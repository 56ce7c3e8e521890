package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentInput holds the fields accepted when persisting a content record
type ContentInput struct {
	ID            string   `json:"_id,omitempty"`
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Thumbnail     string   `json:"thumbnail" validate:"required"`
	PreviewVideo  string   `json:"preview_video" validate:"required"`
	OriginalVideo string   `json:"original_video" validate:"required"`
	Language      []string `json:"language,omitempty"`
	Category      []string `json:"category,omitempty"`
	Certification string   `json:"certification,omitempty"`
	Views         Counter  `json:"views"`
	Likes         Counter  `json:"likes"`
	Duration      string   `json:"duration,omitempty"`
}

// Counter is an engagement count that accepts both JSON numbers and the
// decimal strings the catalog provider reports statistics as
type Counter int64

func (c *Counter) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*c = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid counter %s: %w", data, err)
	}
	*c = Counter(n)
	return nil
}

// ContentRecord is the document stored for one published video
type ContentRecord struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Thumbnail     string             `json:"thumbnail" bson:"thumbnail"`
	PreviewVideo  string             `json:"preview_video" bson:"preview_video"`
	OriginalVideo string             `json:"original_video" bson:"original_video"`
	Language      []string           `json:"language" bson:"language"`
	Category      []string           `json:"category" bson:"category"`
	Certification string             `json:"certification" bson:"certification"`
	Views         int64              `json:"views" bson:"views"`
	Likes         int64              `json:"likes" bson:"likes"`
	Duration      string             `json:"duration" bson:"duration"`

	User            primitive.ObjectID   `json:"user" bson:"user"`
	ViewsID         []primitive.ObjectID `json:"viewsId" bson:"viewsId"`
	LikesID         []primitive.ObjectID `json:"likesId" bson:"likesId"`
	Status          bool                 `json:"status" bson:"status"`
	IsBannerVideo   bool                 `json:"is_banner_video" bson:"is_banner_video"`
	IsActiveVideo   bool                 `json:"is_active_video" bson:"is_active_video"`
	CreatedByID     string               `json:"created_by_id" bson:"created_by_id"`
	CreatedByName   string               `json:"created_by_name" bson:"created_by_name"`
	ProcessedImages ProcessedImages      `json:"processedImages" bson:"processedImages"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
	Version         int                  `json:"__v" bson:"__v"`
	FollowerCount   int                  `json:"followerCount" bson:"followerCount"`
	AverageRating   float64              `json:"averageRating" bson:"averageRating"`
	Ratings         []Rating             `json:"ratings" bson:"ratings"`
}

// ProcessedImages is the per-size derived image metadata block
type ProcessedImages struct {
	Medium ProcessedImage `json:"medium" bson:"medium"`
	Small  ProcessedImage `json:"small" bson:"small"`
	High   ProcessedImage `json:"high" bson:"high"`
}

// ProcessedImage describes one derived image size
type ProcessedImage struct {
	Caption string `json:"caption" bson:"caption"`
	Path    string `json:"path" bson:"path"`
	Width   int    `json:"width" bson:"width"`
	Height  int    `json:"height" bson:"height"`
	Type    string `json:"type" bson:"type"`
}

// Rating is a single user rating. Records are created with none.
type Rating struct {
	User  primitive.ObjectID `json:"user" bson:"user"`
	Value float64            `json:"value" bson:"value"`
}
