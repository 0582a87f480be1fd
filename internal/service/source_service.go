package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/pkg/embedding"
	"decipher-research-be/pkg/research"

	"github.com/google/uuid"
)

var ErrSourceContentMissing = errors.New("source content is required for manual sources")

type ISourceService interface {
	AddSource(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, input *dto.ResearchSourceInput) (uuid.UUID, error)
	SearchSources(ctx context.Context, userId uuid.UUID, req *dto.SearchSourcesRequest) (*dto.SearchSourcesResponse, error)
}

type sourceService struct {
	uowFactory        unitofwork.RepositoryFactory
	fetcher           *research.PageFetcher
	embeddingProvider embedding.EmbeddingProvider
	embedPublisher    IPublisherService
}

func NewSourceService(
	uowFactory unitofwork.RepositoryFactory,
	fetcher *research.PageFetcher,
	embeddingProvider embedding.EmbeddingProvider,
	embedPublisher IPublisherService,
) ISourceService {
	return &sourceService{
		uowFactory:        uowFactory,
		fetcher:           fetcher,
		embeddingProvider: embeddingProvider,
		embedPublisher:    embedPublisher,
	}
}

func (s *sourceService) AddSource(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, input *dto.ResearchSourceInput) (uuid.UUID, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return uuid.Nil, err
	}
	if notebook == nil {
		return uuid.Nil, ErrNotebookNotFound
	}

	source := &entity.Source{
		Id:         uuid.New(),
		NotebookId: notebookId,
		CreatedAt:  time.Now(),
	}

	switch input.SourceType {
	case entity.SourceTypeURL:
		if input.SourceURL == nil || *input.SourceURL == "" {
			return uuid.Nil, errors.New("source_url is required for URL sources")
		}
		visit, err := s.fetcher.Fetch(ctx, research.Link{URL: *input.SourceURL})
		if err != nil {
			return uuid.Nil, err
		}
		source.URL = visit.URL
		source.PageTitle = visit.PageTitle
		source.Content = visit.Content
	default:
		if input.SourceContent == nil || *input.SourceContent == "" {
			return uuid.Nil, ErrSourceContentMissing
		}
		source.Content = *input.SourceContent
		if input.SourceURL != nil {
			source.URL = *input.SourceURL
		}
	}

	if err := uow.SourceRepository().Create(ctx, source); err != nil {
		return uuid.Nil, err
	}

	msgJson, _ := json.Marshal(dto.PublishEmbedSourceMessage{SourceId: source.Id})
	if err := s.embedPublisher.Publish(ctx, msgJson); err != nil {
		return uuid.Nil, err
	}

	return source.Id, nil
}

func (s *sourceService) SearchSources(ctx context.Context, userId uuid.UUID, req *dto.SearchSourcesRequest) (*dto.SearchSourcesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	res, err := s.embeddingProvider.Generate(req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	chunks, err := uow.SourceEmbeddingRepository().SearchSimilar(ctx, res.Embedding.Values, req.NotebookId, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.SearchSourcesResultItem, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, &dto.SearchSourcesResultItem{
			SourceId:   chunk.Embedding.SourceId,
			ChunkIndex: chunk.Embedding.ChunkIndex,
			Document:   chunk.Embedding.Document,
			Score:      chunk.Similarity,
		})
	}

	return &dto.SearchSourcesResponse{Results: results}, nil
}
