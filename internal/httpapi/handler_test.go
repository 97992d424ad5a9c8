package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/httpapi/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

func serve(t *testing.T, svc Storefront, wh WebhookParser, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(svc, Options{Webhook: wh, PublicKey: "pk_test", ServiceName: "storefront-go"})
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderSessionID, "sess-1")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeStorefront{}, nil, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"storefront-go"}`, rec.Body.String())
}

func TestCorrelationIDEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderCorrelationID, "cid-42")

	rec := serve(t, &fakeStorefront{}, nil, req)
	assert.Equal(t, "cid-42", rec.Header().Get(HeaderCorrelationID))

	rec = serve(t, &fakeStorefront{}, nil, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID))
}

func TestGetBag_RequiresSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bag", nil)

	rec := serve(t, &fakeStorefront{}, nil, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), HeaderSessionID)
}

func TestGetBag_OK(t *testing.T) {
	var got checkout.Customer
	var gotCID string
	svc := &fakeStorefront{
		PriceBagFn: func(ctx context.Context, c checkout.Customer) (checkout.View, error) {
			got = c
			gotCID = events.CorrelationID(ctx)
			return checkout.View{
				Summary: pricing.Summary{ItemCount: 2, GrandTotal: decimal.RequireFromString("41.00")},
				Notices: []string{"hello"},
			}, nil
		},
	}
	req := newRequest(http.MethodGet, "/api/bag", "")
	req.Header.Set(HeaderUserID, "u1")
	req.Header.Set(HeaderCorrelationID, "cid-1")

	rec := serve(t, svc, nil, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, checkout.Customer{SessionID: "sess-1", UserID: "u1"}, got)
	assert.Equal(t, "cid-1", gotCID)

	var body struct {
		ItemCount  int      `json:"itemCount"`
		GrandTotal string   `json:"grandTotal"`
		Notices    []string `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.ItemCount)
	assert.Equal(t, "41.00", body.GrandTotal)
	assert.Equal(t, []string{"hello"}, body.Notices)
}

func TestStaffHeaderIgnoredForAnonymous(t *testing.T) {
	var got checkout.Customer
	svc := &fakeStorefront{
		ListOrdersFn: func(_ context.Context, c checkout.Customer) ([]order.Order, error) {
			got = c
			return nil, checkout.ErrUnauthenticated
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(HeaderUserStaff, "true")

	rec := serve(t, svc, nil, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, got.Staff)
}

func TestAddItem(t *testing.T) {
	var gotProduct int64
	var gotOption *int64
	var gotQty int
	svc := &fakeStorefront{
		AddItemFn: func(_ context.Context, _ checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error) {
			gotProduct, gotOption, gotQty = productID, optionID, qty
			return checkout.LineUpdate{Key: "7_3", Quantity: 2}, nil
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/bag/items", `{"productId":7,"optionId":3,"quantity":2}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotProduct)
	require.NotNil(t, gotOption)
	assert.Equal(t, int64(3), *gotOption)
	assert.Equal(t, 2, gotQty)
	assert.JSONEq(t, `{"key":"7_3","quantity":2}`, rec.Body.String())
}

func TestAddItem_BadInput(t *testing.T) {
	rec := serve(t, &fakeStorefront{}, nil, newRequest(http.MethodPost, "/api/bag/items", `{`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, &fakeStorefront{}, nil, newRequest(http.MethodPost, "/api/bag/items", `{"quantity":1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc := &fakeStorefront{
		AddItemFn: func(context.Context, checkout.Customer, int64, *int64, int) (checkout.LineUpdate, error) {
			return checkout.LineUpdate{}, catalog.ErrNotFound
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/bag/items", `{"productId":99,"quantity":1}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetItem_ParsesKey(t *testing.T) {
	var gotProduct int64
	var gotOption *int64
	svc := &fakeStorefront{
		SetItemFn: func(_ context.Context, _ checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error) {
			gotProduct, gotOption = productID, optionID
			return checkout.LineUpdate{Key: "5", Quantity: qty}, nil
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPut, "/api/bag/items/5", `{"quantity":4}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), gotProduct)
	assert.Nil(t, gotOption)
	assert.JSONEq(t, `{"key":"5","quantity":4}`, rec.Body.String())
}

func TestSetItem_MalformedKey(t *testing.T) {
	rec := serve(t, &fakeStorefront{}, nil, newRequest(http.MethodPut, "/api/bag/items/abc", `{"quantity":1}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItem(t *testing.T) {
	var gotOption *int64
	svc := &fakeStorefront{
		RemoveItemFn: func(_ context.Context, _ checkout.Customer, _ int64, optionID *int64) error {
			gotOption = optionID
			return nil
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodDelete, "/api/bag/items/5_2", ""))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, gotOption)
	assert.Equal(t, int64(2), *gotOption)
}

func TestApplyDiscount_Rejected(t *testing.T) {
	svc := &fakeStorefront{
		ApplyDiscountFn: func(_ context.Context, _ checkout.Customer, code string) (checkout.View, error) {
			return checkout.View{}, &discount.RejectionError{Code: code, Reason: discount.ErrUnknownCode, Message: "Invalid discount code"}
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/bag/discount", `{"code":"nope"}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid discount code", decodeError(t, rec))
}

func TestApplyDiscount_OK(t *testing.T) {
	var gotCode string
	svc := &fakeStorefront{
		ApplyDiscountFn: func(_ context.Context, _ checkout.Customer, code string) (checkout.View, error) {
			gotCode = code
			return checkout.View{Summary: pricing.Summary{DiscountCode: discount.WelcomeCode}}, nil
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/bag/discount", `{"code":"welcome10"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "welcome10", gotCode)
	assert.Contains(t, rec.Body.String(), `"discountCode":"WELCOME10"`)
}

func TestRemoveDiscount(t *testing.T) {
	called := false
	svc := &fakeStorefront{
		RemoveDiscountFn: func(context.Context, checkout.Customer) error {
			called = true
			return nil
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodDelete, "/api/bag/discount", ""))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestCreatePaymentIntent(t *testing.T) {
	svc := &fakeStorefront{
		CreatePaymentIntentFn: func(context.Context, checkout.Customer) (checkout.PaymentIntent, error) {
			return checkout.PaymentIntent{
				Intent:   payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret_x"},
				Currency: "gbp",
			}, nil
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/checkout/intent", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Intent    payment.Intent `json:"intent"`
		Currency  string         `json:"currency"`
		PublicKey string         `json:"publicKey"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pi_1", body.Intent.ID)
	assert.Equal(t, "gbp", body.Currency)
	assert.Equal(t, "pk_test", body.PublicKey)
}

func TestCreatePaymentIntent_EmptyBag(t *testing.T) {
	svc := &fakeStorefront{
		CreatePaymentIntentFn: func(context.Context, checkout.Customer) (checkout.PaymentIntent, error) {
			return checkout.PaymentIntent{}, checkout.ErrEmptyBag
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/checkout/intent", ""))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestConfirmOrder_RefFromClientSecret(t *testing.T) {
	var gotRef string
	var gotShipping order.ShippingDetails
	var gotSave bool
	svc := &fakeStorefront{
		ConfirmOrderFn: func(_ context.Context, _ checkout.Customer, shipping order.ShippingDetails, ref string, saveInfo bool) (order.Order, error) {
			gotRef, gotShipping, gotSave = ref, shipping, saveInfo
			return order.Order{OrderNumber: "ABC"}, nil
		},
	}
	body := `{"shipping":{"fullName":"Ada","email":"ada@example.com"},"clientSecret":"pi_9_secret_zz","saveInfo":true}`

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/checkout", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "pi_9", gotRef)
	assert.Equal(t, "Ada", gotShipping.FullName)
	assert.True(t, gotSave)
	assert.Contains(t, rec.Body.String(), `"orderNumber":"ABC"`)
}

func TestConfirmOrder_MoneyIsFixedPointWithGrandTotal(t *testing.T) {
	svc := &fakeStorefront{
		ConfirmOrderFn: func(context.Context, checkout.Customer, order.ShippingDetails, string, bool) (order.Order, error) {
			return order.Order{
				OrderNumber:    "ABC",
				SessionID:      "sess-1",
				DeliveryCost:   decimal.RequireFromString("5"),
				OrderTotal:     decimal.RequireFromString("29"),
				DiscountAmount: decimal.RequireFromString("2.4"),
				LineItems: []order.LineItem{
					{ProductID: 1, ProductName: "Vanilla cupcake", Quantity: 2, Price: decimal.RequireFromString("12")},
				},
			}, nil
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/checkout", `{"shipping":{}}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body dto.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "24.00", body.Subtotal)
	assert.Equal(t, "5.00", body.DeliveryCost)
	assert.Equal(t, "29.00", body.OrderTotal)
	assert.Equal(t, "2.40", body.DiscountAmount)
	assert.Equal(t, "26.60", body.GrandTotal)
	require.Len(t, body.LineItems, 1)
	assert.Equal(t, "12.00", body.LineItems[0].LineitemPrice)
	assert.Equal(t, "24.00", body.LineItems[0].LineitemTotal)
	assert.NotContains(t, rec.Body.String(), "sess-1")
}

func TestCheckoutDefaults(t *testing.T) {
	var got checkout.Customer
	svc := &fakeStorefront{
		CheckoutDefaultsFn: func(_ context.Context, c checkout.Customer) (order.ShippingDetails, error) {
			got = c
			return order.ShippingDetails{FullName: "Ada Baker", Country: "IE", TownOrCity: "Dublin"}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/checkout/defaults", nil)
	req.Header.Set(HeaderUserID, "u1")

	rec := serve(t, svc, nil, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", got.UserID)
	var body dto.CheckoutDefaults
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ada Baker", body.Shipping.FullName)
	assert.Equal(t, "Dublin", body.Shipping.TownOrCity)
}

func TestCheckoutDefaults_Failure(t *testing.T) {
	svc := &fakeStorefront{
		CheckoutDefaultsFn: func(context.Context, checkout.Customer) (order.ShippingDetails, error) {
			return order.ShippingDetails{}, errors.New("profiles down")
		},
	}

	rec := serve(t, svc, nil, httptest.NewRequest(http.MethodGet, "/api/checkout/defaults", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestConfirmOrder_ReplayedRefForbidden(t *testing.T) {
	svc := &fakeStorefront{
		ConfirmOrderFn: func(context.Context, checkout.Customer, order.ShippingDetails, string, bool) (order.Order, error) {
			return order.Order{}, checkout.ErrForbidden
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/checkout", `{"shipping":{},"paymentRef":"pi_alice"}`))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "orderNumber")
}

func TestConfirmOrder_InvalidShipping(t *testing.T) {
	svc := &fakeStorefront{
		ConfirmOrderFn: func(context.Context, checkout.Customer, order.ShippingDetails, string, bool) (order.Order, error) {
			return order.Order{}, errors.Join(order.ErrInvalidShipping, errors.New("email is required"))
		},
	}

	rec := serve(t, svc, nil, newRequest(http.MethodPost, "/api/checkout", `{"shipping":{}}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetOrder(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"missing", order.ErrNotFound, http.StatusNotFound},
		{"other customer", checkout.ErrForbidden, http.StatusForbidden},
		{"db down", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotNumber string
			svc := &fakeStorefront{
				GetOrderFn: func(_ context.Context, _ checkout.Customer, n string) (order.Order, error) {
					gotNumber = n
					if tc.err != nil {
						return order.Order{}, tc.err
					}
					return order.Order{OrderNumber: n}, nil
				},
			}

			rec := serve(t, svc, nil, httptest.NewRequest(http.MethodGet, "/api/orders/ABC123", nil))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "ABC123", gotNumber)
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal error", decodeError(t, rec))
			}
		})
	}
}

func TestListOrders_Staff(t *testing.T) {
	var got checkout.Customer
	svc := &fakeStorefront{
		ListOrdersFn: func(_ context.Context, c checkout.Customer) ([]order.Order, error) {
			got = c
			return []order.Order{{OrderNumber: "A"}, {OrderNumber: "B"}}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(HeaderUserID, "admin")
	req.Header.Set(HeaderUserStaff, "true")

	rec := serve(t, svc, nil, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Staff)
	var orders []dto.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, "0.00", orders[0].GrandTotal)
}

func TestStripeWebhook_Disabled(t *testing.T) {
	svc := &fakeStorefront{
		MarkPaidFn: func(context.Context, string) error {
			t.Fatal("MarkPaid must not be called")
			return nil
		},
	}

	rec := serve(t, svc, &fakeWebhook{}, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}")))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStripeWebhook_Succeeded(t *testing.T) {
	var gotRef string
	svc := &fakeStorefront{
		MarkPaidFn: func(_ context.Context, ref string) error {
			gotRef = ref
			return nil
		},
	}
	wh := &fakeWebhook{enabled: true, event: payment.WebhookEvent{ID: "evt_1", Type: payment.EventPaymentSucceeded, PaymentRef: "pi_1"}}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")

	rec := serve(t, svc, wh, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pi_1", gotRef)
	assert.Equal(t, "t=1,v1=abc", wh.gotSig)
}

func TestStripeWebhook_OtherEventIgnored(t *testing.T) {
	svc := &fakeStorefront{
		MarkPaidFn: func(context.Context, string) error {
			t.Fatal("MarkPaid must not be called")
			return nil
		},
	}
	wh := &fakeWebhook{enabled: true, event: payment.WebhookEvent{ID: "evt_2", Type: "charge.refunded"}}

	rec := serve(t, svc, wh, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}")))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStripeWebhook_Errors(t *testing.T) {
	bad := &fakeWebhook{enabled: true, err: payment.ErrInvalidSignature}
	rec := serve(t, &fakeStorefront{}, bad, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc := &fakeStorefront{
		MarkPaidFn: func(context.Context, string) error { return errors.New("db down") },
	}
	ok := &fakeWebhook{enabled: true, event: payment.WebhookEvent{Type: payment.EventPaymentSucceeded, PaymentRef: "pi_1"}}
	rec = serve(t, svc, ok, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
