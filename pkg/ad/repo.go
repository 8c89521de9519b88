package ad

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repo struct {
	ads IMongoCollection
	now func() time.Time
}

func NewAdRepo(adsCol *mongo.Collection) *Repo {
	ads := &MongoCollection{
		Coll: adsCol,
	}
	return &Repo{
		ads: ads,
		now: time.Now,
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// NextActive returns the newest active ad of the city, or nil when there is none.
func (r *Repo) NextActive(ctx context.Context, city string) (*Ad, error) {
	a := new(Ad)
	filter := bson.D{{Key: "isActive", Value: true}, {Key: "city", Value: city}}
	err := r.ads.FindOne(ctx, filter, options.FindOne().SetSort(newestFirst)).Decode(a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ad/repo: failed finding active ad: %w", err)
	}
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]*Ad, error) {
	cursor, err := r.ads.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("ad/repo: failed finding ads: %w", err)
	}
	defer cursor.Close(ctx)

	ads := []*Ad{}
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, fmt.Errorf("ad/repo: failed getting ads from cursor: %w", err)
	}
	return ads, nil
}

func (r *Repo) GetById(ctx context.Context, id string) (*Ad, error) {
	a := new(Ad)
	err := r.ads.FindOne(ctx, bson.M{"_id": id}).Decode(a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ad/repo: failed finding ad: %w", err)
	}
	return a, nil
}

func (r *Repo) Add(ctx context.Context, d Draft) (*Ad, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	a := &Ad{
		Id:        uuid.NewString(),
		Title:     strings.TrimSpace(d.Title),
		ImageURL:  d.ImageURL,
		LinkURL:   strings.TrimSpace(d.LinkURL),
		City:      strings.TrimSpace(d.City),
		IsActive:  d.IsActive == nil || *d.IsActive,
		CreatedAt: r.now().UTC(),
	}
	if _, err := r.ads.InsertOne(ctx, a); err != nil {
		return nil, fmt.Errorf("ad/repo: failed inserting an ad: %w", err)
	}
	return a, nil
}

func (r *Repo) Update(ctx context.Context, id string, p Patch) (*Ad, error) {
	if !p.Empty() {
		res, err := r.ads.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": p})
		if err != nil {
			return nil, fmt.Errorf("ad/repo: failed updating ad: %w", err)
		}
		if res.MatchedCount() == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetById(ctx, id)
}
