package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"

	"spotted/pkg/ad"
	"spotted/pkg/comment"
	"spotted/pkg/config"
	"spotted/pkg/geo"
	"spotted/pkg/poll"
	"spotted/pkg/post"
	"spotted/pkg/user"
	"spotted/pkg/voting"
)

var (
	f = faker.New()
	// Seeded content is spread around this point.
	seedCenter = geo.Point{Lat: 41.0082, Lng: 28.9784}
)

type (
	seedUserRepo interface {
		UpsertByPhone(ctx context.Context, phone, deviceId string) (*user.User, error)
		UpdateNickname(ctx context.Context, uid, nickname string) error
	}

	seedPostRepo interface {
		Add(ctx context.Context, p *post.Post, pd *poll.Draft) error
	}

	seedVoteRepo interface {
		Vote(ctx context.Context, postId, userId string, score voting.VotingScore) (voting.Result, error)
	}

	seedCommentRepo interface {
		Add(ctx context.Context, postId, userId, text string) (*comment.Comment, error)
	}

	seedAdRepo interface {
		Add(ctx context.Context, d ad.Draft) (*ad.Ad, error)
	}
)

func seed(ctx context.Context, users seedUserRepo, posts seedPostRepo, votes seedVoteRepo,
	comments seedCommentRepo, ads seedAdRepo, cfg config.Config) error {
	authors, err := genUsers(ctx, users, 6)
	if err != nil {
		return err
	}

	for i := 0; i < 40; i++ {
		p, pd := genPost(authors, cfg)
		if err := posts.Add(ctx, p, pd); err != nil {
			return fmt.Errorf("seed: can't add post: %w", err)
		}
		for _, u := range authors {
			if rand.Intn(3) == 0 {
				continue
			}
			score := voting.ScoreUp
			if rand.Intn(4) == 0 {
				score = voting.ScoreDown
			}
			if _, err := votes.Vote(ctx, string(p.Id), u.Id, score); err != nil {
				return fmt.Errorf("seed: can't vote: %w", err)
			}
		}
		for j := rand.Intn(4); j > 0; j-- {
			if _, err := comments.Add(ctx, string(p.Id), randUser(authors).Id, f.Lorem().Sentence(rand.Intn(8)+3)); err != nil {
				return fmt.Errorf("seed: can't add comment: %w", err)
			}
		}
	}

	for i := 0; i < 3; i++ {
		_, err := ads.Add(ctx, ad.Draft{
			Title:    f.Company().Name(),
			ImageURL: f.Internet().URL(),
			LinkURL:  f.Internet().URL(),
			City:     cfg.DefaultAdCity,
		})
		if err != nil {
			return fmt.Errorf("seed: can't add ad: %w", err)
		}
	}
	return nil
}

func genUsers(ctx context.Context, repo seedUserRepo, n int) ([]*user.User, error) {
	users := make([]*user.User, 0, n)
	for i := 1; i <= n; i++ {
		// Phones are derived from i so reseeding reuses the same accounts.
		u, err := repo.UpsertByPhone(ctx, fmt.Sprintf("+90555%07d", i), "seed-device-"+fmt.Sprint(i))
		if err != nil {
			return nil, fmt.Errorf("seed: can't add user: %w", err)
		}
		nick, err := user.NormalizeNickname(strings.ToLower(f.Person().FirstName()) + fmt.Sprint(i))
		if err == nil {
			if err := repo.UpdateNickname(ctx, u.Id, nick); err != nil {
				return nil, fmt.Errorf("seed: can't set nickname: %w", err)
			}
			u.Nickname = nick
		}
		users = append(users, u)
	}
	return users, nil
}

func genPost(users []*user.User, cfg config.Config) (*post.Post, *poll.Draft) {
	// Up to ~3km around the center.
	at := geo.Snap(geo.Point{
		Lat: seedCenter.Lat + (rand.Float64()-0.5)*0.05,
		Lng: seedCenter.Lng + (rand.Float64()-0.5)*0.05,
	}, cfg.LocationGridMeters)
	created := f.Time().TimeBetween(time.Now().Add(-12*time.Hour), time.Now()).UTC()
	expires := created.Add(cfg.PostTTL)

	p := &post.Post{
		Id:        post.PostId(uuid.NewString()),
		AuthorId:  randUser(users).Id,
		Lat:       at.Lat,
		Lng:       at.Lng,
		Created:   created,
		ExpiresAt: &expires,
	}

	var pd *poll.Draft
	switch rand.Intn(4) {
	case 0:
		p.Type = post.TypeText
		p.Text = f.Lorem().Paragraph(rand.Intn(2) + 1)
	case 1:
		p.Type = post.TypeLink
		p.Text = strings.Join(f.Lorem().Words(rand.Intn(5)+3), " ")
		p.LinkURL = f.Internet().URL()
	case 2:
		p.Type = post.TypePhoto
		p.PhotoURL = f.Internet().URL()
	default:
		p.Type = post.TypePoll
		pd = &poll.Draft{
			Question: f.Lorem().Sentence(5),
			Options:  f.Lorem().Words(rand.Intn(3) + 2),
		}
	}
	return p, pd
}

func randUser(users []*user.User) *user.User {
	return users[rand.Intn(len(users))]
}
