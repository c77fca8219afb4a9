package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	ordersvc "github.com/soorihai2/ssksilks-sub001/internal/service/order"
)

type stubOrderService struct {
	createRes *ordersvc.CreateResult
	createErr error
	verifyRes *ordersvc.VerifyResult
	verifyErr error
	posRes    *ordersvc.POSResult
	posErr    error
	order     *domain.Order
	orderErr  error
	list      []*domain.Order
	listErr   error
	lastInput interface{}
}

func (s *stubOrderService) Create(_ context.Context, in ordersvc.CreateInput) (*ordersvc.CreateResult, error) {
	s.lastInput = in
	return s.createRes, s.createErr
}

func (s *stubOrderService) VerifyPayment(_ context.Context, in ordersvc.VerifyInput) (*ordersvc.VerifyResult, error) {
	s.lastInput = in
	return s.verifyRes, s.verifyErr
}

func (s *stubOrderService) CreatePOS(_ context.Context, in ordersvc.POSInput) (*ordersvc.POSResult, error) {
	s.lastInput = in
	return s.posRes, s.posErr
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.orderErr
}

func (s *stubOrderService) List(_ context.Context) ([]*domain.Order, error) {
	return s.list, s.listErr
}

func (s *stubOrderService) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.orderErr
}

type stubSettingsStore struct {
	settings *domain.Settings
	written  *domain.Settings
}

func (s *stubSettingsStore) Read(_ context.Context) (*domain.Settings, error) {
	return s.settings, nil
}

func (s *stubSettingsStore) Write(_ context.Context, v *domain.Settings) error {
	s.written = v
	return nil
}

func newTestRouter(svc OrderService, adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return buildRouter(logger, Deps{
		Orders:   svc,
		Settings: &stubSettingsStore{settings: &domain.Settings{}},
		AdminKey: adminKey,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestCreateOrderHandler_Created(t *testing.T) {
	svc := &stubOrderService{createRes: &ordersvc.CreateResult{
		OrderID: "ord-1", GatewayOrderID: "order_gw1", Amount: 2000, KeyID: "rzp_key",
	}}
	router := newTestRouter(svc, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/orders",
		`{"items":[{"productId":"p1","price":1000,"quantity":2}],"total":2000}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["id"] != "ord-1" || body["gatewayOrderId"] != "order_gw1" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["amount"].(float64) != 2000 {
		t.Fatalf("amount = %v", body["amount"])
	}
}

func TestCreateOrderHandler_ValidationListsEveryField(t *testing.T) {
	svc := &stubOrderService{createErr: &domain.ValidationError{
		Fields: []string{"City is required", "Postal code is required"},
	}}
	router := newTestRouter(svc, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/orders", `{"items":[]}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "validation_error" {
		t.Fatalf("unexpected error kind %v", body["error"])
	}
	details := body["details"].([]interface{})
	if len(details) != 2 || details[0] != "City is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestCreateOrderHandler_GatewayUnavailable(t *testing.T) {
	svc := &stubOrderService{createErr: domain.ErrGatewayUnavailable}
	router := newTestRouter(svc, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/orders", `{"items":[]}`, nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body["error"] != "gateway_unavailable" {
		t.Fatalf("unexpected error kind %v", body["error"])
	}
}

func TestVerifyHandler_Success(t *testing.T) {
	svc := &stubOrderService{verifyRes: &ordersvc.VerifyResult{
		Order:       &domain.Order{ID: "ord-1", Status: domain.StatusProcessing, PaymentStatus: domain.PaymentPaid},
		EmailStatus: "sent",
	}}
	router := newTestRouter(svc, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/orders/verify",
		`{"razorpay_payment_id":"pay_1","razorpay_order_id":"order_gw1","razorpay_signature":"sig"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["emailStatus"] != "sent" {
		t.Fatalf("unexpected emailStatus %v", body["emailStatus"])
	}
	in := svc.lastInput.(ordersvc.VerifyInput)
	if in.PaymentRef != "pay_1" || in.OrderRef != "order_gw1" {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestVerifyHandler_EmailFailureStillOK(t *testing.T) {
	svc := &stubOrderService{verifyRes: &ordersvc.VerifyResult{
		Order:       &domain.Order{ID: "ord-1"},
		EmailStatus: "failed",
		EmailError:  "smtp down",
	}}
	router := newTestRouter(svc, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/orders/verify",
		`{"razorpay_payment_id":"pay_1"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("email failure must not change the HTTP status, got %d", rec.Code)
	}
	if body["emailError"] != "smtp down" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestVerifyHandler_SignatureMismatch(t *testing.T) {
	svc := &stubOrderService{verifyErr: domain.ErrSignatureMismatch}
	router := newTestRouter(svc, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/orders/verify",
		`{"razorpay_payment_id":"pay_1","razorpay_signature":"bad"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "signature_mismatch" {
		t.Fatalf("unexpected error kind %v", body["error"])
	}
}

func TestVerifyHandler_OrderNotFound(t *testing.T) {
	svc := &stubOrderService{verifyErr: domain.ErrNotFound}
	router := newTestRouter(svc, "")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/orders/verify",
		`{"razorpay_payment_id":"pay_1"}`, nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	svc := &stubOrderService{orderErr: domain.ErrNotFound}
	router := newTestRouter(svc, "")

	rec, _ := doJSON(t, router, http.MethodGet, "/api/orders/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateStatusHandler_MissingStatus(t *testing.T) {
	svc := &stubOrderService{}
	router := newTestRouter(svc, "")

	rec, _ := doJSON(t, router, http.MethodPatch, "/api/orders/ord-1/status", `{}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPOSHandler_Created(t *testing.T) {
	svc := &stubOrderService{posRes: &ordersvc.POSResult{
		Order:    &domain.Order{ID: "ord-1", Origin: domain.OriginPOS},
		Customer: &domain.Customer{ID: "cust-1", IsNew: true},
	}}
	router := newTestRouter(svc, "")

	rec, body := doJSON(t, router, http.MethodPost, "/api/orders/pos",
		`{"items":[{"productId":"p1","price":500,"quantity":1}],"total":500,"customer":{"phone":"9999999999"},"paymentMode":"cash"}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	customer := body["customer"].(map[string]interface{})
	if customer["isNew"] != true {
		t.Fatalf("expected isNew customer, got %v", customer)
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	svc := &stubOrderService{list: []*domain.Order{}}
	router := newTestRouter(svc, "sekrit")

	rec, _ := doJSON(t, router, http.MethodGet, "/api/orders", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/orders", "", map[string]string{"X-Admin-Key": "sekrit"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rec.Code)
	}

	// Public checkout routes stay open.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/orders/verify", `{"razorpay_payment_id":"p"}`, nil)
	if rec.Code == http.StatusUnauthorized {
		t.Fatal("verify must not require the admin key")
	}
}

func TestSettingsHandler_MasksSecrets(t *testing.T) {
	store := &stubSettingsStore{settings: &domain.Settings{
		Payment: domain.PaymentSettings{KeyID: "rzp_key", KeySecret: "super-secret"},
		Email:   domain.EmailSettings{SMTPHost: "smtp.example.com", Password: "mail-pass"},
	}}
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	router := buildRouter(logger, Deps{Orders: &stubOrderService{}, Settings: store})

	rec, body := doJSON(t, router, http.MethodGet, "/api/settings", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payment := body["payment"].(map[string]interface{})
	if payment["keySecret"] != secretMask {
		t.Fatalf("secret leaked: %v", payment["keySecret"])
	}
	if payment["keyId"] != "rzp_key" {
		t.Fatalf("key id should stay readable, got %v", payment["keyId"])
	}

	// Writing the masked value back keeps the stored secret.
	rec, _ = doJSON(t, router, http.MethodPut, "/api/settings",
		`{"payment":{"keyId":"rzp_key","keySecret":"`+secretMask+`"}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.written.Payment.KeySecret != "super-secret" {
		t.Fatalf("masked write clobbered the secret: %q", store.written.Payment.KeySecret)
	}
}
