package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
)

type fakeDispatcher struct {
	lastReq webhook.StoreCollectionRequest
	resp    *webhook.StoreCollectionResponse
	err     error
}

func (f *fakeDispatcher) SubmitStoreCollection(_ context.Context, req webhook.StoreCollectionRequest) (*webhook.StoreCollectionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestStartCollectionValidation(t *testing.T) {
	service := NewStoreService(&fakeDispatcher{}, testLogger())
	ctx := context.Background()

	_, err := service.StartCollection(ctx, webhook.StoreCollectionRequest{Method: "telepathy"})
	assert.ErrorIs(t, err, ErrStoreInvalidMethod)

	_, err = service.StartCollection(ctx, webhook.StoreCollectionRequest{Method: "manual"})
	assert.ErrorIs(t, err, ErrStoreEmptyInput)

	_, err = service.StartCollection(ctx, webhook.StoreCollectionRequest{Method: "website"})
	assert.ErrorIs(t, err, ErrStoreEmptyInput)

	_, err = service.StartCollection(ctx, webhook.StoreCollectionRequest{Method: "brand"})
	assert.ErrorIs(t, err, ErrStoreEmptyInput)
}

func TestStartCollectionDispatches(t *testing.T) {
	dispatcher := &fakeDispatcher{resp: &webhook.StoreCollectionResponse{}}
	service := NewStoreService(dispatcher, testLogger())

	req := webhook.StoreCollectionRequest{
		Method: "manual",
		User:   "user-1",
		Data: webhook.StoreCollectionData{
			Retailers: []webhook.Retailer{{Name: "Shop", Country: "FR", Domain: "shop.fr"}},
		},
	}
	resp, err := service.StartCollection(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Len(t, dispatcher.lastReq.Data.Retailers, 1)
	assert.NotEmpty(t, dispatcher.lastReq.CollectionID)
}
