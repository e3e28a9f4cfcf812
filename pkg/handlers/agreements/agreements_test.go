package agreements

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/handlers/agreements/mocks"
	"github.com/chris/gig-agreements/pkg/httpx"
	"github.com/chris/gig-agreements/pkg/middleware"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var client = models.Actor{UserID: "client-1", WalletAddress: "0xc11e470000000000000000000000000000000c11"}

func newRouter(svc Service) http.Handler {
	h := NewAgreementsHandler(svc, httpx.NewResponder(true))
	r := chi.NewRouter()
	r.Use(middleware.Actor)
	r.Route("/agreements", h.Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(middleware.UserIDHeader, client.UserID)
	req.Header.Set(middleware.WalletHeader, client.WalletAddress)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func details(status models.AgreementStatus) *service.AgreementDetails {
	return &service.AgreementDetails{
		Agreement: &models.Agreement{ID: "agr-1", Status: status},
		Party:     models.PartyClient,
	}
}

func TestCreateAgreement(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("CreateAgreement", mock.Anything, client, mock.MatchedBy(func(in workflow.AgreementInput) bool {
			return in.Title == "Checkout" && len(in.Milestones) == 1 && in.Milestones[0].Value.String() == "500"
		})).Return(details(models.AgreementDraft), nil)

		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements", api.NewAgreement{
			Title:           "Checkout",
			DeveloperWallet: "0xde7e100000000000000000000000000000000de7",
			Milestones:      []api.NewMilestone{{Title: "Build", Value: models.MustAmount("500")}},
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		var body struct {
			Success bool          `json:"success"`
			Message string        `json:"message"`
			Data    api.Agreement `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, "Agreement created", body.Message)
		assert.Equal(t, "agr-1", body.Data.Agreement.ID)
		assert.Equal(t, models.PartyClient, body.Data.Role)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		mockService := new(mocks.Service)

		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements", map[string]string{"developerWallet": "0x12"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var body api.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Len(t, body.Error.Errors, 2)
		mockService.AssertNotCalled(t, "CreateAgreement", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListAgreements(t *testing.T) {
	t.Run("Pagination", func(t *testing.T) {
		mockService := new(mocks.Service)
		filter := storage.ListFilter{Status: models.AgreementActive, Page: 2, Limit: maxPageSize}
		mockService.On("ListAgreements", mock.Anything, client, filter).Return([]*models.Agreement{{ID: "agr-1"}}, 101, nil)

		rr := do(t, newRouter(mockService), http.MethodGet, "/agreements?status=active&page=2&limit=500", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body api.Response
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, &api.Pagination{Page: 2, Limit: 100, Total: 101, Pages: 2}, body.Pagination)
		mockService.AssertExpectations(t)
	})

	t.Run("Bad Page", func(t *testing.T) {
		mockService := new(mocks.Service)
		rr := do(t, newRouter(mockService), http.MethodGet, "/agreements?page=two", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Empty List", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("ListAgreements", mock.Anything, client, mock.Anything).Return(nil, 0, nil)

		rr := do(t, newRouter(mockService), http.MethodGet, "/agreements", nil)

		assert.JSONEq(t, `{"success":true,"message":"Agreements retrieved","data":[],"pagination":{"page":1,"limit":20,"total":0,"pages":0}}`, rr.Body.String())
	})
}

func TestGetAgreement(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Success", nil, http.StatusOK},
		{"Not Found", apperrors.NotFound("agreement agr-1 not found"), http.StatusNotFound},
		{"Not A Party", apperrors.Authorization("you are not a party to this agreement"), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			var d *service.AgreementDetails
			if tc.err == nil {
				d = details(models.AgreementActive)
			}
			mockService.On("GetAgreement", mock.Anything, client, "agr-1").Return(d, tc.err)

			rr := do(t, newRouter(mockService), http.MethodGet, "/agreements/agr-1", nil)

			assert.Equal(t, tc.status, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestTransitions(t *testing.T) {
	t.Run("Respond Decline", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("Respond", mock.Anything, client, "agr-1", false, workflow.Pricing{}, "too little budget").
			Return(details(models.AgreementCancelled), nil)

		decline := false
		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/respond", api.RespondRequest{Accept: &decline, Reason: "too little budget"})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Agreement declined")
		mockService.AssertExpectations(t)
	})

	t.Run("Respond Requires Accept", func(t *testing.T) {
		mockService := new(mocks.Service)
		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/respond", map[string]string{"reason": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Client Approve", func(t *testing.T) {
		mockService := new(mocks.Service)
		funding := workflow.EscrowFunding{TxHash: "0xabc", Network: "sepolia", BlockNumber: 9}
		mockService.On("ClientApprove", mock.Anything, client, "agr-1", funding).Return(details(models.AgreementActive), nil)

		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/client-approve", api.ClientApproveRequest{TxHash: "0xabc", Network: "sepolia", BlockNumber: 9})

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Wrong Status Is 400", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("Complete", mock.Anything, client, "agr-1").
			Return(nil, apperrors.Validation("agreement in status draft cannot be completed"))

		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/complete", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "cannot be completed")
	})

	t.Run("Conflict Is 409", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("Cancel", mock.Anything, client, "agr-1", "dropped").
			Return(nil, apperrors.Conflict("the agreement was changed by another request, reload and try again"))

		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/cancel", api.ReasonRequest{Reason: "dropped"})

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestModifications(t *testing.T) {
	t.Run("Request", func(t *testing.T) {
		mockService := new(mocks.Service)
		mod := &models.Modification{ID: "mod-1", Type: models.ModificationPayment, Status: models.ModificationPending}
		mockService.On("RequestModification", mock.Anything, client, "agr-1", mock.MatchedBy(func(in workflow.ModificationRequest) bool {
			return in.Type == models.ModificationPayment && in.NewValue["totalValue"] == "1200"
		})).Return(mod, nil)

		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/modifications", api.NewModification{
			Type:        models.ModificationPayment,
			Description: "second provider",
			NewValue:    map[string]interface{}{"totalValue": "1200"},
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"mod-1"`)
		mockService.AssertExpectations(t)
	})

	t.Run("Unknown Type", func(t *testing.T) {
		mockService := new(mocks.Service)
		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/modifications", map[string]string{"type": "refund_all", "description": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Respond By Requester", func(t *testing.T) {
		mockService := new(mocks.Service)
		mockService.On("RespondModification", mock.Anything, client, "agr-1", "mod-1", true, "").
			Return(nil, apperrors.Authorization("the requester cannot respond to their own modification"))

		approve := true
		rr := do(t, newRouter(mockService), http.MethodPost, "/agreements/agr-1/modifications/mod-1/respond", api.ModificationResponse{Approve: &approve})

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListTransactions(t *testing.T) {
	mockService := new(mocks.Service)
	mockService.On("ListTransactions", mock.Anything, client, "agr-1").Return([]*models.Transaction{{ID: "tx-1"}}, nil)

	rr := do(t, newRouter(mockService), http.MethodGet, "/agreements/agr-1/transactions", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"tx-1"`)
	mockService.AssertExpectations(t)
}
