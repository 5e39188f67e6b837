package services_test

import (
	"context"
	"testing"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	companyRepo *MockCompanyRepository
	service     portssvc.CompanySvcFacade
	actorID     string
}

func (s *CompanyServiceTestSuite) SetupTest() {
	s.companyRepo = new(MockCompanyRepository)
	s.service = services.NewCompanyService(s.companyRepo)
	s.actorID = uuid.NewString()
}

func (s *CompanyServiceTestSuite) TestCreateCompany_DefaultsFYStartToApril() {
	req := dto.CreateCompanyRequest{
		Name:            "Acme Traders",
		HomeCurrency:    "inr",
		AutoPostEnabled: true,
	}

	s.companyRepo.On("SaveCompany", mock.Anything, mock.MatchedBy(func(c domain.Company) bool {
		return c.Name == "Acme Traders" &&
			c.HomeCurrency == "INR" &&
			c.FYStartMonth == 4 &&
			c.AutoPostEnabled
	})).Return(nil).Once()

	company, err := s.service.CreateCompany(context.Background(), req, s.actorID)

	s.Require().NoError(err)
	s.NotEmpty(company.CompanyID)
	s.Equal(4, company.FYStartMonth)
	s.Equal(s.actorID, company.CreatedBy)
	s.companyRepo.AssertExpectations(s.T())
}

func (s *CompanyServiceTestSuite) TestCreateCompany_HonoursExplicitFYStart() {
	req := dto.CreateCompanyRequest{
		Name:         "Calendar Co",
		HomeCurrency: "USD",
		FYStartMonth: 1,
	}

	s.companyRepo.On("SaveCompany", mock.Anything, mock.MatchedBy(func(c domain.Company) bool {
		return c.FYStartMonth == 1
	})).Return(nil).Once()

	company, err := s.service.CreateCompany(context.Background(), req, s.actorID)

	s.Require().NoError(err)
	s.Equal(1, company.FYStartMonth)
}

func (s *CompanyServiceTestSuite) TestCreateCompany_DuplicateNameSurfaces() {
	req := dto.CreateCompanyRequest{Name: "Acme Traders", HomeCurrency: "INR"}
	s.companyRepo.On("SaveCompany", mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.CreateCompany(context.Background(), req, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *CompanyServiceTestSuite) TestSetAutoPost_UnknownCompany() {
	companyID := uuid.NewString()
	s.companyRepo.On("FindCompanyByID", mock.Anything, companyID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := s.service.SetAutoPost(context.Background(), companyID, true, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.companyRepo.AssertNotCalled(s.T(), "UpdateAutoPost")
}

func (s *CompanyServiceTestSuite) TestSetAutoPost_Success() {
	companyID := uuid.NewString()
	s.companyRepo.On("FindCompanyByID", mock.Anything, companyID).
		Return(&domain.Company{CompanyID: companyID}, nil).Once()
	s.companyRepo.On("UpdateAutoPost", mock.Anything, companyID, false, s.actorID, mock.Anything).
		Return(nil).Once()

	err := s.service.SetAutoPost(context.Background(), companyID, false, s.actorID)

	s.Require().NoError(err)
	s.companyRepo.AssertExpectations(s.T())
}

func TestCompanyService(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
