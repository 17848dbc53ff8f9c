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

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/handlers"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RollbackService ---
type MockRollbackService struct {
	mock.Mock
}

func (m *MockRollbackService) RollbackUnload(ctx context.Context, stationID, unloadID, userID string) dto.RollbackResult {
	return m.Called(ctx, stationID, unloadID, userID).Get(0).(dto.RollbackResult)
}
func (m *MockRollbackService) RollbackDeposit(ctx context.Context, stationID, depositID, userID string, opts domain.RollbackOptions) dto.RollbackResult {
	return m.Called(ctx, stationID, depositID, userID, opts).Get(0).(dto.RollbackResult)
}
func (m *MockRollbackService) RollbackTankReading(ctx context.Context, stationID, readingID, userID string) dto.RollbackResult {
	return m.Called(ctx, stationID, readingID, userID).Get(0).(dto.RollbackResult)
}
func (m *MockRollbackService) RollbackPurchase(ctx context.Context, stationID, purchaseTransactionID, userID string) dto.RollbackResult {
	return m.Called(ctx, stationID, purchaseTransactionID, userID).Get(0).(dto.RollbackResult)
}
func (m *MockRollbackService) CheckRollback(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*domain.ChainReport, error) {
	args := m.Called(ctx, stationID, kind, entityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChainReport), args.Error(1)
}

var _ portssvc.RollbackSvc = (*MockRollbackService)(nil)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Approve(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*dto.ApprovalResponse, error) {
	args := m.Called(ctx, stationID, kind, entityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ApprovalResponse), args.Error(1)
}
func (m *MockApprovalService) Reject(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*dto.ApprovalResponse, error) {
	args := m.Called(ctx, stationID, kind, entityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ApprovalResponse), args.Error(1)
}

var _ portssvc.ApprovalSvc = (*MockApprovalService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, stationID, transactionID, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, stationID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListTransactions(ctx context.Context, stationID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, stationID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockLedgerService) Find(ctx context.Context, criteria domain.TransactionCriteria) ([]domain.Transaction, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.LedgerReaderSvc = (*MockLedgerService)(nil)

// --- Mock StockService ---
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) GetTankStock(ctx context.Context, stationID, tankID, userID string) (*domain.StockSnapshot, error) {
	args := m.Called(ctx, stationID, tankID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockSnapshot), args.Error(1)
}

var _ portssvc.StockSvc = (*MockStockService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	rollbackSvc  *MockRollbackService
	approvalSvc  *MockApprovalService
	ledgerSvc    *MockLedgerService
	stockSvc     *MockStockService
	jwtSecret    string
	stationID    string
	requestingID string
}

func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "fuel-ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.stationID = "st-1"
	suite.requestingID = "u-owner"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret, "fuel-ledger-test"))

	suite.rollbackSvc = new(MockRollbackService)
	suite.approvalSvc = new(MockApprovalService)
	suite.ledgerSvc = new(MockLedgerService)
	suite.stockSvc = new(MockStockService)

	station := suite.router.Group("/api/v1/stations/:stationID")
	handlers.RegisterRollbackRoutes(station, suite.rollbackSvc, nil)
	handlers.RegisterApprovalRoutes(station, suite.approvalSvc)
	handlers.RegisterLedgerRoutes(station, suite.ledgerSvc)
	handlers.RegisterStockRoutes(station, suite.stockSvc)
}

func (suite *HandlerTestSuite) do(method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.requestingID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) url(format string, args ...any) string {
	return fmt.Sprintf("/api/v1/stations/%s", suite.stationID) + fmt.Sprintf(format, args...)
}

func (suite *HandlerTestSuite) TestRollbackUnload_Success() {
	reversal := "txn-rev"
	result := dto.RollbackResult{
		Success: true,
		Message: "UNLOAD un-1 rolled back",
		Data: &dto.RollbackData{
			Kind:                  domain.KindUnload,
			EntityID:              "un-1",
			Status:                domain.StatusRejected,
			ReversalTransactionID: &reversal,
		},
	}
	suite.rollbackSvc.On("RollbackUnload", mock.Anything, suite.stationID, "un-1", suite.requestingID).Return(result).Once()

	w := suite.do(http.MethodPost, suite.url("/unloads/un-1/rollback"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.RollbackResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Success)
	suite.Equal(domain.StatusRejected, body.Data.Status)
	suite.Equal("txn-rev", *body.Data.ReversalTransactionID)
	suite.rollbackSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRollback_FailureStatusFollowsErrorKind() {
	tests := []struct {
		kind   dto.ErrorKind
		status int
	}{
		{dto.KindUnauthorized, http.StatusForbidden},
		{dto.KindNotFound, http.StatusNotFound},
		{dto.KindInvalidState, http.StatusConflict},
		{dto.KindChainViolation, http.StatusConflict},
		{dto.KindOriginatingTransactionNotFound, http.StatusUnprocessableEntity},
		{dto.KindStoreFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(string(tt.kind), func() {
			suite.rollbackSvc.On("RollbackPurchase", mock.Anything, suite.stationID, "p-1", suite.requestingID).
				Return(dto.RollbackResult{Success: false, Message: "nope", ErrorKind: tt.kind}).Once()

			w := suite.do(http.MethodPost, suite.url("/purchases/p-1/rollback"), nil)

			suite.Equal(tt.status, w.Code)
			var body dto.RollbackResult
			suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
			suite.False(body.Success)
			suite.Equal(tt.kind, body.ErrorKind)
		})
	}
}

func (suite *HandlerTestSuite) TestRollbackDeposit_PassesOptions() {
	opts := domain.RollbackOptions{CascadeUnverify: true, Force: true}
	suite.rollbackSvc.On("RollbackDeposit", mock.Anything, suite.stationID, "dp-1", suite.requestingID, opts).
		Return(dto.RollbackResult{Success: true, Message: "ok"}).Once()

	w := suite.do(http.MethodPost, suite.url("/deposits/dp-1/rollback"), []byte(`{"cascadeUnverify":true,"force":true}`))

	suite.Equal(http.StatusOK, w.Code)
	suite.rollbackSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRollbackDeposit_EmptyBodyUsesDefaults() {
	suite.rollbackSvc.On("RollbackDeposit", mock.Anything, suite.stationID, "dp-1", suite.requestingID, domain.RollbackOptions{}).
		Return(dto.RollbackResult{Success: true, Message: "ok"}).Once()

	w := suite.do(http.MethodPost, suite.url("/deposits/dp-1/rollback"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.rollbackSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRollbackDeposit_MalformedBody() {
	w := suite.do(http.MethodPost, suite.url("/deposits/dp-1/rollback"), []byte(`{"force":`))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.rollbackSvc.AssertNotCalled(suite.T(), "RollbackDeposit")
}

func (suite *HandlerTestSuite) TestRollback_RequiresToken() {
	req, _ := http.NewRequest(http.MethodPost, suite.url("/tank-readings/rd-1/rollback"), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.rollbackSvc.AssertNotCalled(suite.T(), "RollbackTankReading")
}

func (suite *HandlerTestSuite) TestCheckRollback() {
	report := &domain.ChainReport{
		Blocking:    []domain.Dependent{{Kind: domain.KindShift, ID: "sh-2", Description: "verified shift"}},
		Remediation: "Unverify later shifts first, or pass cascadeUnverify.",
	}
	suite.rollbackSvc.On("CheckRollback", mock.Anything, suite.stationID, domain.KindDeposit, "dp-1", suite.requestingID).Return(report, nil).Once()

	w := suite.do(http.MethodGet, suite.url("/rollback-check/deposits/dp-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.RollbackCheckResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.False(body.CanRollback)
	suite.Len(body.Blocking, 1)
	suite.Equal("sh-2", body.Blocking[0].ID)
	suite.NotNil(body.Warnings)
}

func (suite *HandlerTestSuite) TestCheckRollback_UnknownKind() {
	w := suite.do(http.MethodGet, suite.url("/rollback-check/invoices/x"), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCheckRollback_NotApproved() {
	err := apperrors.NewInvalidStateError("UNLOAD", "un-1", "PENDING", "APPROVED")
	suite.rollbackSvc.On("CheckRollback", mock.Anything, suite.stationID, domain.KindUnload, "un-1", suite.requestingID).Return(nil, err).Once()

	w := suite.do(http.MethodGet, suite.url("/rollback-check/UNLOAD/un-1"), nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestApprove_TankReading() {
	txnID := "txn-1"
	resp := &dto.ApprovalResponse{Kind: domain.KindTankReading, EntityID: "rd-1", Status: domain.StatusApproved, TransactionID: &txnID}
	suite.approvalSvc.On("Approve", mock.Anything, suite.stationID, domain.KindTankReading, "rd-1", suite.requestingID).Return(resp, nil).Once()

	w := suite.do(http.MethodPost, suite.url("/tank-readings/rd-1/approve"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ApprovalResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.StatusApproved, body.Status)
	suite.Equal("txn-1", *body.TransactionID)
}

func (suite *HandlerTestSuite) TestReject_AlreadyRejected() {
	err := apperrors.NewInvalidStateError("DEPOSIT", "dp-1", "REJECTED", "PENDING")
	suite.approvalSvc.On("Reject", mock.Anything, suite.stationID, domain.KindDeposit, "dp-1", suite.requestingID).Return(nil, err).Once()

	w := suite.do(http.MethodPost, suite.url("/deposits/dp-1/reject"), nil)

	suite.Equal(http.StatusConflict, w.Code)
	var body map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(dto.KindInvalidState), body["errorKind"])
}

func (suite *HandlerTestSuite) TestApprove_StoreFailureHidesCause() {
	suite.approvalSvc.On("Approve", mock.Anything, suite.stationID, domain.KindPurchase, "p-1", suite.requestingID).
		Return(nil, apperrors.NewAppError(500, "db down", fmt.Errorf("dial tcp: refused"))).Once()

	w := suite.do(http.MethodPost, suite.url("/purchases/p-1/approve"), nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "refused")
}

func (suite *HandlerTestSuite) TestListTransactions() {
	next := "tok"
	resp := &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{{TransactionID: "t1"}, {TransactionID: "t2"}},
		NextToken:    &next,
	}
	suite.ledgerSvc.On("ListTransactions", mock.Anything, suite.stationID, suite.requestingID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool { return p.Limit == 2 }),
	).Return(resp, nil).Once()

	w := suite.do(http.MethodGet, suite.url("/transactions?limit=2"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Transactions, 2)
	suite.Equal("tok", *body.NextToken)
}

func (suite *HandlerTestSuite) TestListTransactions_InvalidLimit() {
	w := suite.do(http.MethodGet, suite.url("/transactions?limit=500"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledgerSvc.AssertNotCalled(suite.T(), "ListTransactions")
}

func (suite *HandlerTestSuite) TestListTransactions_InvalidSourceKind() {
	w := suite.do(http.MethodGet, suite.url("/transactions?sourceKind=SHIFT&sourceID=sh-1"), nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, suite.url("/transactions?sourceKind=UNLOAD"), nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.ledgerSvc.AssertNotCalled(suite.T(), "ListTransactions")
}

func (suite *HandlerTestSuite) TestGetTransaction_NotFound() {
	suite.ledgerSvc.On("GetTransaction", mock.Anything, suite.stationID, "missing", suite.requestingID).
		Return(nil, apperrors.NewNotFoundError("transaction missing not found")).Once()

	w := suite.do(http.MethodGet, suite.url("/transactions/missing"), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetTankStock() {
	snap := &domain.StockSnapshot{
		TankID:       "tk-1",
		Liters:       decimal.NewFromInt(12800),
		Source:       domain.StockFromLastReading,
		BaseValue:    decimal.NewFromInt(9000),
		UnloadsSince: decimal.NewFromInt(5000),
		SalesSince:   decimal.NewFromInt(1200),
	}
	suite.stockSvc.On("GetTankStock", mock.Anything, suite.stationID, "tk-1", suite.requestingID).Return(snap, nil).Once()

	w := suite.do(http.MethodGet, suite.url("/tanks/tk-1/stock"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.StockResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(decimal.NewFromInt(12800).Equal(body.Liters))
	suite.Equal(domain.StockFromLastReading, body.Source)
}

func (suite *HandlerTestSuite) TestGetTankStock_Forbidden() {
	suite.stockSvc.On("GetTankStock", mock.Anything, suite.stationID, "tk-1", suite.requestingID).
		Return(nil, fmt.Errorf("%w: not a member", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodGet, suite.url("/tanks/tk-1/stock"), nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
