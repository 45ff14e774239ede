package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
)

// StoreDispatcher submits a store-list collection job to the workflow engine.
type StoreDispatcher interface {
	SubmitStoreCollection(ctx context.Context, req webhook.StoreCollectionRequest) (*webhook.StoreCollectionResponse, error)
}

// StoreService validates and dispatches store-list collections. Collection
// itself runs remotely; results land in the shared database out of band.
type StoreService struct {
	dispatcher StoreDispatcher
	log        *logger.Logger
}

func NewStoreService(dispatcher StoreDispatcher, log *logger.Logger) *StoreService {
	return &StoreService{dispatcher: dispatcher, log: log}
}

func (s *StoreService) StartCollection(ctx context.Context, req webhook.StoreCollectionRequest) (*webhook.StoreCollectionResponse, error) {
	switch req.Method {
	case "manual":
		if len(req.Data.Retailers) == 0 {
			return nil, ErrStoreEmptyInput
		}
	case "website":
		if req.Data.WebsiteURL == "" {
			return nil, ErrStoreEmptyInput
		}
	case "brand":
		if req.Data.BrandName == "" {
			return nil, ErrStoreEmptyInput
		}
	default:
		return nil, ErrStoreInvalidMethod
	}

	if req.CollectionID == "" {
		req.CollectionID = uuid.New().String()
	}
	return s.dispatcher.SubmitStoreCollection(ctx, req)
}
