package ad

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("ad: ad not found")
	ErrInvalid  = errors.New("ad: title, linkUrl and city are required")
)

type Ad struct {
	Id        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	LinkURL   string    `json:"linkUrl" bson:"linkUrl"`
	City      string    `json:"city" bson:"city"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Draft is the payload of a new ad. IsActive defaults to true.
type Draft struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
	City     string `json:"city"`
	IsActive *bool  `json:"isActive"`
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.LinkURL) == "" || strings.TrimSpace(d.City) == "" {
		return ErrInvalid
	}
	return nil
}

// Patch holds the fields to change; nil fields are left alone.
type Patch struct {
	Title    *string `json:"title" bson:"title,omitempty"`
	ImageURL *string `json:"imageUrl" bson:"imageUrl,omitempty"`
	LinkURL  *string `json:"linkUrl" bson:"linkUrl,omitempty"`
	City     *string `json:"city" bson:"city,omitempty"`
	IsActive *bool   `json:"isActive" bson:"isActive,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.ImageURL == nil && p.LinkURL == nil && p.City == nil && p.IsActive == nil
}
