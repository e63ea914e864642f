package service

import (
	"context"
	"sort"

	"todoforum/internal/models"
	"todoforum/internal/repository"
)

type LeaderboardService interface {
	Standings(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo *repository.Repository
}

func NewLeaderboardService(repo *repository.Repository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

// Standings scores every user by the likes minus complaints received on their posts.
// Ties are broken by username.
func (s *leaderboardService) Standings(ctx context.Context) ([]models.LeaderboardEntry, error) {
	users, err := s.repo.User.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		entry := models.LeaderboardEntry{UserID: user.ID, Username: user.Username}

		posts, err := s.repo.Post.ListByAuthor(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		for _, post := range posts {
			likes, err := s.repo.Like.CountByPost(ctx, post.ID)
			if err != nil {
				return nil, err
			}
			complaints, err := s.repo.Complaint.CountByPost(ctx, post.ID)
			if err != nil {
				return nil, err
			}
			entry.TotalLikes += likes
			entry.TotalComplaints += complaints
		}

		entry.NetScore = entry.TotalLikes - entry.TotalComplaints
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].NetScore != entries[j].NetScore {
			return entries[i].NetScore > entries[j].NetScore
		}
		return entries[i].Username < entries[j].Username
	})

	return entries, nil
}
