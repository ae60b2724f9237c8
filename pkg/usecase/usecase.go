package usecase

import (
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/domain/model"
)

type UseCases struct {
	repo    interfaces.Repository
	profile *model.BotProfile

	Chat *ChatUseCase
}

type Option func(*UseCases)

// WithProfile sets the optional bot profile (name, extra prompt guidance)
func WithProfile(profile *model.BotProfile) Option {
	return func(uc *UseCases) {
		uc.profile = profile
	}
}

func New(repo interfaces.Repository, extractor interfaces.ExtractionService, knowledge interfaces.KnowledgeService, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Chat = NewChatUseCase(repo, extractor, knowledge)
	uc.Chat.profile = uc.profile

	return uc
}
