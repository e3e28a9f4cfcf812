package websockets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/chris/gig-agreements/pkg/storage/memory"
	"github.com/chris/gig-agreements/pkg/websockets"
	"github.com/chris/gig-agreements/pkg/websockets/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDefaultPublisher(t *testing.T) {
	ctx := context.Background()
	msg := websockets.Message{Type: websockets.MessageTypeAgreementUpdate, Payload: websockets.AgreementUpdatePayload{AgreementID: "AGR-1"}}

	t.Run("Delivers To Recipients And Drops Gone Connections", func(t *testing.T) {
		store := memory.New()
		require.NoError(t, store.AddConnection(ctx, "c-client", "client-1"))
		require.NoError(t, store.AddConnection(ctx, "c-dev", "dev-1"))
		require.NoError(t, store.AddConnection(ctx, "c-other", "someone-else"))

		client := mocks.NewPostToConnectionAPI(t)
		client.On("PostToConnection", mock.Anything, mock.MatchedBy(func(in *apigatewaymanagementapi.PostToConnectionInput) bool {
			return aws.ToString(in.ConnectionId) == "c-client"
		})).Return(&apigatewaymanagementapi.PostToConnectionOutput{}, nil)
		client.On("PostToConnection", mock.Anything, mock.MatchedBy(func(in *apigatewaymanagementapi.PostToConnectionInput) bool {
			return aws.ToString(in.ConnectionId) == "c-dev"
		})).Return(nil, &apigwtypes.GoneException{})

		publisher := websockets.NewPublisherWithClient(store, store, client)

		err := publisher.Publish(ctx, []string{"client-1", "dev-1"}, msg)

		require.NoError(t, err)
		remaining, err := store.GetConnectionsForUsers(ctx, []string{"client-1", "dev-1", "someone-else"})
		require.NoError(t, err)
		assert.Equal(t, []string{"c-client", "c-other"}, remaining)
	})

	t.Run("Post Failure Is Logged Not Returned", func(t *testing.T) {
		store := memory.New()
		require.NoError(t, store.AddConnection(ctx, "c-1", "client-1"))

		client := mocks.NewPostToConnectionAPI(t)
		client.On("PostToConnection", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))
		connManager := mocks.NewConnectionManager(t)

		publisher := websockets.NewPublisherWithClient(store, connManager, client)

		assert.NoError(t, publisher.Publish(ctx, []string{"client-1"}, msg))
		connManager.AssertNotCalled(t, "RemoveConnection", mock.Anything, mock.Anything)
	})
}
