package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/handlers"
	"github.com/finbooks/finbooks_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CompanyService ---
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyService) SetAutoPost(ctx context.Context, companyID string, enabled bool, userID string) error {
	args := m.Called(ctx, companyID, enabled, userID)
	return args.Error(0)
}

var _ portssvc.CompanySvcFacade = (*MockCompanyService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockJournalService) CreateEntry(ctx context.Context, entry domain.JournalEntry, post bool, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, post, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) PostDraft(ctx context.Context, companyID, entryID, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, companyID, entryID string, reversalDate time.Time, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, reversalDate, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type CompanyHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockCompanyService *MockCompanyService
	mockJournalService *MockJournalService
	actorID            string
}

func (suite *CompanyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.actorID = uuid.NewString()

	suite.mockCompanyService = new(MockCompanyService)
	suite.mockJournalService = new(MockJournalService)

	// Only the facades under test need real mocks; untouched route groups
	// never invoke their service.
	services := &portssvc.ServiceContainer{
		CompanySvc: suite.mockCompanyService,
		JournalSvc: suite.mockJournalService,
	}
	handlers.RegisterRoutes(suite.router, &config.Config{}, services)
}

func (suite *CompanyHandlerTestSuite) serve(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", suite.actorID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CompanyHandlerTestSuite) TestCreateCompany_Success() {
	companyID := uuid.NewString()
	req := dto.CreateCompanyRequest{
		Name:         "Acme Traders",
		HomeCurrency: "INR",
		FYStartMonth: 4,
	}
	created := &domain.Company{
		CompanyID:    companyID,
		Name:         req.Name,
		HomeCurrency: req.HomeCurrency,
		FYStartMonth: 4,
	}

	suite.mockCompanyService.On("CreateCompany", mock.Anything, req, suite.actorID).Return(created, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/companies", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.CompanyResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(companyID, resp.CompanyID)
	suite.Equal("Acme Traders", resp.Name)
	suite.mockCompanyService.AssertExpectations(suite.T())
}

func (suite *CompanyHandlerTestSuite) TestCreateCompany_MissingActorHeader() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/companies", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockCompanyService.AssertNotCalled(suite.T(), "CreateCompany")
}

func (suite *CompanyHandlerTestSuite) TestGetCompany_NotFound() {
	companyID := uuid.NewString()
	suite.mockCompanyService.On("GetCompanyByID", mock.Anything, companyID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, "/api/v1/companies/"+companyID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockCompanyService.AssertExpectations(suite.T())
}

func (suite *CompanyHandlerTestSuite) TestSetAutoPost_Success() {
	companyID := uuid.NewString()
	enabled := true
	suite.mockCompanyService.On("SetAutoPost", mock.Anything, companyID, true, suite.actorID).
		Return(nil).Once()

	w := suite.serve(http.MethodPut, "/api/v1/companies/"+companyID+"/autopost", dto.UpdateAutoPostRequest{Enabled: &enabled})

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockCompanyService.AssertExpectations(suite.T())
}

func (suite *CompanyHandlerTestSuite) TestPostDraft_Conflict() {
	companyID := uuid.NewString()
	entryID := uuid.NewString()
	suite.mockJournalService.On("PostDraft", mock.Anything, companyID, entryID, suite.actorID).
		Return(nil, fmt.Errorf("%w: entry is not a draft", apperrors.ErrConflict)).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/entries/%s/post", companyID, entryID)
	w := suite.serve(http.MethodPost, url, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *CompanyHandlerTestSuite) TestReverseEntry_Success() {
	companyID := uuid.NewString()
	entryID := uuid.NewString()
	reversalDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	reversing := &domain.JournalEntry{
		EntryID:      uuid.NewString(),
		CompanyID:    companyID,
		Status:       domain.Posted,
		ReversalOfID: &entryID,
	}

	suite.mockJournalService.On("ReverseEntry", mock.Anything, companyID, entryID, reversalDate, suite.actorID).
		Return(reversing, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/entries/%s/reverse", companyID, entryID)
	w := suite.serve(http.MethodPost, url, dto.ReverseEntryRequest{Date: reversalDate})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(reversing.EntryID, resp.EntryID)
	suite.Require().NotNil(resp.ReversalOfID)
	suite.Equal(entryID, *resp.ReversalOfID)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func TestCompanyHandler(t *testing.T) {
	suite.Run(t, new(CompanyHandlerTestSuite))
}
