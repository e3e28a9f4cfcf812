package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/middleware"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	client  = models.Actor{UserID: "client-1", WalletAddress: "0xc11e470000000000000000000000000000000c11"}
	dev     = models.Actor{UserID: "dev-1", WalletAddress: "0xde7e100000000000000000000000000000000de7"}
	hash    = "0x" + strings.Repeat("ab", 32)
	payHash = "0x" + strings.Repeat("cd", 32)
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *api.ErrorBody  `json:"error"`
}

type apiClient struct {
	t *testing.T
	h http.Handler
}

func (c apiClient) call(actor models.Actor, method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, actor.UserID)
	req.Header.Set(middleware.WalletHeader, actor.WalletAddress)
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)

	var env envelope
	require.NoError(c.t, json.NewDecoder(rr.Body).Decode(&env), "%s %s", method, path)
	if out != nil && env.Success {
		require.NoError(c.t, json.Unmarshal(env.Data, out))
	}
	return rr.Code
}

func newClient(t *testing.T) apiClient {
	svc := service.New(memory.New(), nil, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return apiClient{t: t, h: NewRouter(svc, Options{Logger: logger, HideInternal: true})}
}

func TestAgreementFlow(t *testing.T) {
	c := newClient(t)

	// 1. Fund a single-milestone agreement
	var created api.Agreement
	require.Equal(t, http.StatusCreated, c.call(client, http.MethodPost, "/agreements", api.NewAgreement{
		Title:           "Storefront",
		DeveloperId:     dev.UserID,
		DeveloperWallet: dev.WalletAddress,
		Currency:        "ETH",
		Milestones:      []api.NewMilestone{{Title: "Everything", Value: models.MustAmount("2")}},
	}, &created))
	id := created.Agreement.ID
	require.Len(t, created.Milestones, 1)
	msID := created.Milestones[0].ID

	assert.Equal(t, http.StatusOK, c.call(client, http.MethodPost, "/agreements/"+id+"/submit", nil, nil))
	assert.Equal(t, http.StatusForbidden, c.call(client, http.MethodPost, "/agreements/"+id+"/developer-accept", api.Pricing{}, nil))
	assert.Equal(t, http.StatusOK, c.call(dev, http.MethodPost, "/agreements/"+id+"/developer-accept", api.Pricing{}, nil))

	var active api.Agreement
	require.Equal(t, http.StatusOK, c.call(client, http.MethodPost, "/agreements/"+id+"/client-approve", api.ClientApproveRequest{TxHash: hash, Network: "sepolia"}, &active))
	assert.Equal(t, models.AgreementActive, active.Agreement.Status)

	// 2. Deliver and approve the milestone
	assert.Equal(t, http.StatusOK, c.call(dev, http.MethodPost, "/milestones/"+msID+"/start", nil, nil))
	assert.Equal(t, http.StatusOK, c.call(dev, http.MethodPost, "/milestones/"+msID+"/submit", api.SubmitMilestoneRequest{Notes: "shipped"}, nil))

	var approved api.Milestone
	require.Equal(t, http.StatusOK, c.call(client, http.MethodPost, "/milestones/"+msID+"/approve", api.ApproveMilestoneRequest{Rating: 5}, &approved))
	require.NotNil(t, approved.Transaction)
	assert.Equal(t, http.StatusBadRequest, c.call(client, http.MethodPost, "/milestones/"+msID+"/approve", api.ApproveMilestoneRequest{Rating: 5}, nil))

	// 3. Settle the payment and close
	var txs []*models.Transaction
	require.Equal(t, http.StatusOK, c.call(dev, http.MethodGet, "/agreements/"+id+"/transactions", nil, &txs))
	assert.Len(t, txs, 2)

	var paid models.Transaction
	require.Equal(t, http.StatusOK, c.call(client, http.MethodPost, "/transactions/"+approved.Transaction.ID+"/blockchain", api.BlockchainProof{TxHash: payHash, Network: "sepolia"}, &paid))
	assert.Equal(t, models.TxCompleted, paid.Status)

	var done api.Agreement
	require.Equal(t, http.StatusOK, c.call(client, http.MethodPost, "/agreements/"+id+"/complete", nil, &done))
	assert.Equal(t, models.AgreementCompleted, done.Agreement.Status)

	assert.Equal(t, http.StatusForbidden, c.call(models.Actor{UserID: "someone-else"}, http.MethodGet, "/agreements/"+id, nil, nil))
}

func TestVerifyWithoutVerifier(t *testing.T) {
	c := newClient(t)
	assert.Equal(t, http.StatusNotFound, c.call(client, http.MethodGet, "/transactions/missing/verify", nil, nil))
}

func TestRouterSurface(t *testing.T) {
	c := newClient(t)

	t.Run("Healthz", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, c.call(models.Actor{}, http.MethodGet, "/healthz", nil, nil))
	})

	t.Run("Unknown Route", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, c.call(client, http.MethodGet, "/wallets", nil, nil))
	})

	t.Run("Wrong Method", func(t *testing.T) {
		assert.Equal(t, http.StatusMethodNotAllowed, c.call(client, http.MethodDelete, "/agreements", nil, nil))
	})

	t.Run("Anonymous List", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, c.call(models.Actor{}, http.MethodGet, "/agreements", nil, nil))
	})

	t.Run("Metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		c.h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "http_request_duration_seconds")
	})
}
