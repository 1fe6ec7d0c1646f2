package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"elearning-payments/internal/adapter/http/dto"
	"elearning-payments/internal/adapter/http/middleware"
	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"
	"elearning-payments/internal/core/ports/mocks"
	"elearning-payments/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		FullName: "Alice Nguyen",
		Email:    "alice@example.com",
		Password: "password123",
	}).Return(&domain.User{
		ID:       userID,
		FullName: "Alice Nguyen",
		Email:    "alice@example.com",
		Role:     domain.RoleStudent,
	}, nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		FullName: "Alice Nguyen",
		Email:    "alice@example.com",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, "alice@example.com", data["email"])
	assert.Equal(t, "STUDENT", data["role"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrEmailExists())

	body, _ := json.Marshal(dto.RegisterRequest{
		FullName: "Alice Nguyen",
		Email:    "taken@example.com",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "alice@example.com", "password123").Return(&ports.LoginResult{
		Token:     "jwt-token-123",
		ExpiresAt: expiry,
		User: &domain.User{
			ID:       userID,
			FullName: "Alice Nguyen",
			Email:    "alice@example.com",
			Role:     domain.RoleStudent,
		},
	}, nil)

	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, userID.String(), user["id"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad@example.com", "bad").Return(nil, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "bad@example.com",
		Password: "bad",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Payment Handler Tests ---

func TestCheckout_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	studentID := uuid.New()
	courseID := uuid.New()

	mockPayment.EXPECT().Checkout(gomock.Any(), ports.CheckoutRequest{
		StudentID: studentID,
		CourseIDs: []uuid.UUID{courseID},
		ClientIP:  "192.0.2.1",
	}).Return(&ports.CheckoutResult{
		TransactionCode: "170001234567",
		Amount:          500000,
		PaymentURL:      "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=170001234567",
	}, nil)

	body, _ := json.Marshal(dto.CheckoutRequest{
		CourseIDs: []string{courseID.String()},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "192.0.2.1:51000"
	c.Set(middleware.CtxUserID, studentID)

	h.Checkout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "170001234567", data["transaction_code"])
	assert.Equal(t, float64(500000), data["amount"])
	assert.Contains(t, data["payment_url"], "vnp_TxnRef")
}

func TestCheckout_MissingUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.Checkout(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckout_InvalidCourseID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	body := []byte(`{"course_ids": ["not-a-uuid"]}`)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, uuid.New())

	h.Checkout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	courseID := uuid.New()
	mockPayment.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadyEnrolled(courseID))

	body, _ := json.Marshal(dto.CheckoutRequest{
		CourseIDs: []string{courseID.String()},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, uuid.New())

	h.Checkout(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVNPayIPN_Confirmed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	mockPayment.EXPECT().HandleIPN(gomock.Any(), map[string]string{
		"vnp_TxnRef":            "170001234567",
		"vnp_ResponseCode":      "00",
		"vnp_TransactionStatus": "00",
		"vnp_SecureHash":        "abc",
	}).Return(ports.IPNAckOK)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/?vnp_TxnRef=170001234567&vnp_ResponseCode=00&vnp_TransactionStatus=00&vnp_SecureHash=abc", nil)

	h.VNPayIPN(c)

	// The gateway always gets 200 and reads RspCode from the bare body.
	assert.Equal(t, http.StatusOK, w.Code)
	var ack map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, "00", ack["RspCode"])
	assert.Equal(t, "Confirm Success", ack["Message"])
}

func TestVNPayIPN_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	mockPayment.EXPECT().HandleIPN(gomock.Any(), gomock.Any()).Return(ports.IPNAckError)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?vnp_TxnRef=bad&vnp_SecureHash=bad", nil)

	h.VNPayIPN(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var ack map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, "97", ack["RspCode"])
	assert.Equal(t, "Confirm Fail", ack["Message"])
}

func TestHistory_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	studentID := uuid.New()
	now := time.Now()
	mockPayment.EXPECT().History(gomock.Any(), studentID).Return([]domain.Transaction{
		{
			ID:             uuid.New(),
			Code:           "170001234567",
			StudentID:      studentID,
			Amount:         500000,
			PaymentGateway: domain.GatewayVNPay,
			Status:         domain.TransactionStatusSuccess,
			CreatedAt:      now,
			ProcessedAt:    &now,
		},
		{
			ID:             uuid.New(),
			Code:           "170001234568",
			StudentID:      studentID,
			Amount:         300000,
			PaymentGateway: domain.GatewayVNPay,
			Status:         domain.TransactionStatusPending,
			CreatedAt:      now,
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, studentID)

	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "170001234567", first["code"])
	assert.Equal(t, "SUCCESS", first["status"])
	assert.NotEmpty(t, first["processed_at"])
	second := items[1].(map[string]interface{})
	assert.Equal(t, "PENDING", second["status"])
	_, hasProcessed := second["processed_at"]
	assert.False(t, hasProcessed)
}

// --- Cart Handler Tests ---

func TestAddToCart_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCart := mocks.NewMockCartService(ctrl)
	h := NewCartHandler(mockCart)

	studentID := uuid.New()
	courseID := uuid.New()
	mockCart.EXPECT().AddToCart(gomock.Any(), studentID, courseID).Return(nil)

	body, _ := json.Marshal(dto.AddToCartRequest{CourseID: courseID.String()})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, studentID)

	h.AddToCart(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddToCart_AlreadyInCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCart := mocks.NewMockCartService(ctrl)
	h := NewCartHandler(mockCart)

	courseID := uuid.New()
	mockCart.EXPECT().AddToCart(gomock.Any(), gomock.Any(), courseID).Return(apperror.ErrAlreadyInCart())

	body, _ := json.Marshal(dto.AddToCartRequest{CourseID: courseID.String()})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, uuid.New())

	h.AddToCart(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCart_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCart := mocks.NewMockCartService(ctrl)
	h := NewCartHandler(mockCart)

	studentID := uuid.New()
	mockCart.EXPECT().GetCart(gomock.Any(), studentID).Return(&ports.CartView{
		Courses:       []domain.Course{{ID: uuid.New(), Title: "Go Basics", Price: 500000}},
		ItemCount:     1,
		Subtotal:      500000,
		OriginalTotal: 500000,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, studentID)

	h.GetCart(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["item_count"])
	assert.Equal(t, float64(500000), data["subtotal"])
}

func TestRemoveFromCart_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCart := mocks.NewMockCartService(ctrl)
	h := NewCartHandler(mockCart)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "course_id", Value: "not-a-uuid"}}
	c.Set(middleware.CtxUserID, uuid.New())

	h.RemoveFromCart(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCountItems_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCart := mocks.NewMockCartService(ctrl)
	h := NewCartHandler(mockCart)

	studentID := uuid.New()
	mockCart.EXPECT().CountItems(gomock.Any(), studentID).Return(3, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, studentID)

	h.CountItems(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["count"])
}

// --- Payout Handler Tests ---

func TestListSummaries_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	teacherID := uuid.New()
	mockPayout.EXPECT().GetPayoutSummaries(gomock.Any()).Return([]ports.PayoutSummary{
		{
			TeacherID:   teacherID,
			TeacherName: "Bao Tran",
			TotalUnpaid: 350000,
			TotalPaid:   700000,
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.ListSummaries(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, teacherID.String(), first["teacher_id"])
	assert.Equal(t, float64(350000), first["total_unpaid"])
}

func TestPayoutToTeacher_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	teacherID := uuid.New()
	mockPayout.EXPECT().PayoutToTeacher(gomock.Any(), teacherID).Return(int64(3), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "teacher_id", Value: teacherID.String()}}

	h.PayoutToTeacher(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, teacherID.String(), data["teacher_id"])
	assert.Equal(t, float64(3), data["payouts_settled"])
}

func TestPayoutToTeacher_NothingUnpaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	teacherID := uuid.New()
	mockPayout.EXPECT().PayoutToTeacher(gomock.Any(), teacherID).Return(int64(0), apperror.ErrNoUnpaidPayouts())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "teacher_id", Value: teacherID.String()}}

	h.PayoutToTeacher(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListByTeacher_StatusFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	teacherID := uuid.New()
	mockPayout.EXPECT().ListByTeacher(gomock.Any(), teacherID, domain.PayoutStatusUnpaid).Return([]domain.TeacherPayout{
		{ID: uuid.New(), TeacherID: teacherID, AmountEarned: 350000, Status: domain.PayoutStatusUnpaid},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?status=UNPAID", nil)
	c.Params = gin.Params{{Key: "teacher_id", Value: teacherID.String()}}

	h.ListByTeacher(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListByTeacher_InvalidStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?status=SETTLED", nil)
	c.Params = gin.Params{{Key: "teacher_id", Value: uuid.New().String()}}

	h.ListByTeacher(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Enrollment Handler Tests ---

func TestListMyCourses_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEnroll := mocks.NewMockEnrollmentService(ctrl)
	h := NewEnrollmentHandler(mockEnroll)

	studentID := uuid.New()
	mockEnroll.EXPECT().ListCourses(gomock.Any(), studentID).Return([]domain.Course{
		{ID: uuid.New(), Title: "Go Basics", Price: 500000},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, studentID)

	h.ListMyCourses(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
}

func TestGrant_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEnroll := mocks.NewMockEnrollmentService(ctrl)
	h := NewEnrollmentHandler(mockEnroll)

	studentID := uuid.New()
	courseID := uuid.New()
	mockEnroll.EXPECT().Enroll(gomock.Any(), studentID, courseID).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{
		{Key: "student_id", Value: studentID.String()},
		{Key: "course_id", Value: courseID.String()},
	}

	h.Grant(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRevoke_NotEnrolled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEnroll := mocks.NewMockEnrollmentService(ctrl)
	h := NewEnrollmentHandler(mockEnroll)

	studentID := uuid.New()
	courseID := uuid.New()
	mockEnroll.EXPECT().Unenroll(gomock.Any(), studentID, courseID).Return(apperror.ErrNotEnrolled())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{
		{Key: "student_id", Value: studentID.String()},
		{Key: "course_id", Value: courseID.String()},
	}

	h.Revoke(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Dashboard Handler Tests ---

func TestGetStats_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	mockReporting.EXPECT().GetDashboardStats(gomock.Any()).Return(&ports.TransactionStats{
		TotalTransactions: 100,
		Successful:        80,
		Failed:            15,
		Pending:           5,
		GrossRevenue:      5000000,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["total_transactions"])
	assert.Equal(t, float64(5000000), data["gross_revenue"])
}

func TestGetStats_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	mockReporting.EXPECT().GetDashboardStats(gomock.Any()).Return(nil, apperror.ErrDatabaseError(errors.New("db down")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Router Tests ---

func TestSetupRouter_AdminRequiresAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := SetupRouter(RouterDeps{
		AuthSvc:      mocks.NewMockAuthService(ctrl),
		PaymentSvc:   mocks.NewMockPaymentService(ctrl),
		PayoutSvc:    mocks.NewMockPayoutService(ctrl),
		CartSvc:      mocks.NewMockCartService(ctrl),
		EnrollSvc:    mocks.NewMockEnrollmentService(ctrl),
		ReportingSvc: mocks.NewMockReportingService(ctrl),
		TokenSvc:     mocks.NewMockTokenService(ctrl),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/payouts", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetupRouter_IPNIsPublic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	mockPayment.EXPECT().HandleIPN(gomock.Any(), gomock.Any()).Return(ports.IPNAckError)

	r := SetupRouter(RouterDeps{
		AuthSvc:      mocks.NewMockAuthService(ctrl),
		PaymentSvc:   mockPayment,
		PayoutSvc:    mocks.NewMockPayoutService(ctrl),
		CartSvc:      mocks.NewMockCartService(ctrl),
		EnrollSvc:    mocks.NewMockEnrollmentService(ctrl),
		ReportingSvc: mocks.NewMockReportingService(ctrl),
		TokenSvc:     mocks.NewMockTokenService(ctrl),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/vnpay-ipn?vnp_TxnRef=x", nil))

	// Without a valid signature the gateway still gets a 200 with RspCode 97.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"RspCode":"97"`)
}

// --- Health Check Test ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestSwaggerUI(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger", nil)

	SwaggerUI(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "swagger-ui")
	assert.Contains(t, w.Body.String(), "/swagger/spec")
}

func TestSwaggerSpec_Loaded(t *testing.T) {
	SetSwaggerSpec([]byte("openapi: '3.0.0'\ninfo:\n  title: Test"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger/spec", nil)

	SwaggerSpec(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi")
}

func TestSwaggerSpec_NotLoaded(t *testing.T) {
	SetSwaggerSpec(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger/spec", nil)

	SwaggerSpec(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
