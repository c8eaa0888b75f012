package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

func TestPaymentController_CreateOrder_Success(t *testing.T) {
	svc := &mockRegistrationService{
		checkout: &domain.CheckoutOrder{
			Order: &domain.PaymentOrder{
				ID:       "order_test_1",
				Amount:   50000,
				Currency: "INR",
				Receipt:  "reg_11111111u1_1756600000",
				Status:   "created",
			},
			KeyID: "rzp_test_key",
		},
	}
	ctrl := NewPaymentController(discardLogger(), svc)

	body := `{"eventId":"` + testEventID + `"}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/payments/order", strings.NewReader(body)), "u1", domain.RoleStudent)
	w := httptest.NewRecorder()

	ctrl.CreateOrder(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if svc.gotStudentID != "u1" || svc.gotEventID != testEventID {
		t.Errorf("unexpected service args: student %q event %q", svc.gotStudentID, svc.gotEventID)
	}

	var resp struct {
		Data struct {
			Order *domain.PaymentOrder `json:"order"`
			Key   string               `json:"key"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Order == nil || resp.Data.Order.Amount != 50000 {
		t.Fatalf("expected order amount 50000 in response, got %+v", resp.Data.Order)
	}
	if resp.Data.Key != "rzp_test_key" {
		t.Errorf("expected checkout key in response, got %q", resp.Data.Key)
	}
}

func TestPaymentController_CreateOrder_Unauthorized(t *testing.T) {
	ctrl := NewPaymentController(discardLogger(), &mockRegistrationService{})

	body := `{"eventId":"` + testEventID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/order", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.CreateOrder(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestPaymentController_CreateOrder_NotPayable(t *testing.T) {
	svc := &mockRegistrationService{err: domain.ErrPaymentNotConfigured}
	ctrl := NewPaymentController(discardLogger(), svc)

	body := `{"eventId":"` + testEventID + `"}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/payments/order", strings.NewReader(body)), "u1", domain.RoleStudent)
	w := httptest.NewRecorder()

	ctrl.CreateOrder(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestPaymentController_CreateOrder_ProviderDown(t *testing.T) {
	svc := &mockRegistrationService{err: &domain.ProviderError{Op: "create order", Err: errors.New("timeout")}}
	ctrl := NewPaymentController(discardLogger(), svc)

	body := `{"eventId":"` + testEventID + `"}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/payments/order", strings.NewReader(body)), "u1", domain.RoleStudent)
	w := httptest.NewRecorder()

	ctrl.CreateOrder(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeProviderError {
		t.Fatalf("expected provider_error code, got %v", resp.Error)
	}
	// Provider detail stays in the logs, not the response.
	if strings.Contains(resp.Error.Message, "timeout") {
		t.Errorf("provider error leaked into the response: %q", resp.Error.Message)
	}
}

func verifyBody(orderID string) string {
	return `{"orderId":"` + orderID + `","paymentId":"pay_1","signature":"deadbeef","eventId":"` + testEventID + `","student":{"name":"Asha","email":"asha@campus.edu"}}`
}

func TestPaymentController_Verify_Success(t *testing.T) {
	svc := &mockRegistrationService{
		reg: &domain.Registration{
			ID:            testRegistrationID,
			EventID:       testEventID,
			StudentID:     "u1",
			EventFees:     500,
			PaymentStatus: domain.PaymentStatusPaid,
			PaymentMethod: domain.PaymentMethodOnline,
		},
	}
	ctrl := NewPaymentController(discardLogger(), svc)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(verifyBody("order_1"))), "u1", domain.RoleStudent)
	w := httptest.NewRecorder()

	ctrl.Verify(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if svc.gotProof.OrderID != "order_1" || svc.gotProof.PaymentID != "pay_1" || svc.gotProof.EventID != testEventID {
		t.Errorf("unexpected proof passed to service: %+v", svc.gotProof)
	}

	var resp struct {
		Data domain.Registration `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected paymentStatus paid, got %q", resp.Data.PaymentStatus)
	}
	if resp.Data.EventFees != 500 {
		t.Errorf("expected eventFees 500, got %v", resp.Data.EventFees)
	}
}

func TestPaymentController_Verify_BadSignature(t *testing.T) {
	svc := &mockRegistrationService{err: domain.ErrSignatureMismatch}
	ctrl := NewPaymentController(discardLogger(), svc)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(verifyBody("order_1"))), "u1", domain.RoleStudent)
	w := httptest.NewRecorder()

	ctrl.Verify(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Message != "invalid payment signature" {
		t.Fatalf("expected the generic signature message, got %v", resp.Error)
	}
}

func TestPaymentController_Verify_MissingFields(t *testing.T) {
	ctrl := NewPaymentController(discardLogger(), &mockRegistrationService{})

	cases := []struct {
		name string
		body string
	}{
		{"no orderId", `{"paymentId":"pay_1","signature":"s","eventId":"` + testEventID + `"}`},
		{"no paymentId", `{"orderId":"order_1","signature":"s","eventId":"` + testEventID + `"}`},
		{"no signature", `{"orderId":"order_1","paymentId":"pay_1","eventId":"` + testEventID + `"}`},
		{"no eventId", `{"orderId":"order_1","paymentId":"pay_1","signature":"s"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(tc.body)), "u1", domain.RoleStudent)
			w := httptest.NewRecorder()

			ctrl.Verify(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
			}
		})
	}
}

func TestPaymentController_Verify_EventNotFound(t *testing.T) {
	svc := &mockRegistrationService{err: domain.ErrEventNotFound}
	ctrl := NewPaymentController(discardLogger(), svc)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/payments/verify", strings.NewReader(verifyBody("order_1"))), "u1", domain.RoleStudent)
	w := httptest.NewRecorder()

	ctrl.Verify(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
