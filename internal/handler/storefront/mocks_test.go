package storefront

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/catalog"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/service"
	"github.com/stretchr/testify/require"
)

// Each mock embeds its interface; calling a method without a func set
// panics, which flags an unexpected call in the test.

type mockProductService struct {
	service.ProductService
	listFunc       func(ctx context.Context, spec catalog.FilterSpec) ([]domain.Product, error)
	getFunc        func(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error)
	countsFunc     func(ctx context.Context) ([]catalog.CategoryCount, error)
	componentsFunc func(ctx context.Context) (map[domain.Slot][]domain.Product, error)
}

func (m *mockProductService) List(ctx context.Context, spec catalog.FilterSpec) ([]domain.Product, error) {
	return m.listFunc(ctx, spec)
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error) {
	return m.getFunc(ctx, id)
}

func (m *mockProductService) CategoryCounts(ctx context.Context) ([]catalog.CategoryCount, error) {
	return m.countsFunc(ctx)
}

func (m *mockProductService) Components(ctx context.Context) (map[domain.Slot][]domain.Product, error) {
	return m.componentsFunc(ctx)
}

type mockReviewService struct {
	service.ReviewService
	createFunc func(ctx context.Context, productID uuid.UUID, input service.ReviewInput) (*domain.Review, error)
	listFunc   func(ctx context.Context, productID uuid.UUID) ([]domain.Review, error)
}

func (m *mockReviewService) Create(ctx context.Context, productID uuid.UUID, input service.ReviewInput) (*domain.Review, error) {
	return m.createFunc(ctx, productID, input)
}

func (m *mockReviewService) List(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	return m.listFunc(ctx, productID)
}

type mockCartService struct {
	service.CartService
	getFunc    func(ctx context.Context, session string) (*domain.CartSummary, error)
	addFunc    func(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error)
	setFunc    func(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error)
	removeFunc func(ctx context.Context, session string, productID uuid.UUID) (*domain.CartSummary, error)
	clearFunc  func(ctx context.Context, session string) error
	countFunc  func(ctx context.Context, session string) int
}

func (m *mockCartService) Get(ctx context.Context, session string) (*domain.CartSummary, error) {
	return m.getFunc(ctx, session)
}

func (m *mockCartService) Add(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error) {
	return m.addFunc(ctx, session, productID, quantity)
}

func (m *mockCartService) SetQuantity(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error) {
	return m.setFunc(ctx, session, productID, quantity)
}

func (m *mockCartService) Remove(ctx context.Context, session string, productID uuid.UUID) (*domain.CartSummary, error) {
	return m.removeFunc(ctx, session, productID)
}

func (m *mockCartService) Clear(ctx context.Context, session string) error {
	return m.clearFunc(ctx, session)
}

func (m *mockCartService) Count(ctx context.Context, session string) int {
	return m.countFunc(ctx, session)
}

type mockCheckoutService struct {
	checkoutFunc func(ctx context.Context, session string, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

func (m *mockCheckoutService) Checkout(ctx context.Context, session string, req service.CheckoutRequest) (*service.CheckoutResult, error) {
	return m.checkoutFunc(ctx, session, req)
}

type mockOrderService struct {
	service.OrderService
	confirmFunc func(ctx context.Context, session, checkoutSessionID string) (*service.ConfirmResult, error)
}

func (m *mockOrderService) ConfirmPayment(ctx context.Context, session, checkoutSessionID string) (*service.ConfirmResult, error) {
	return m.confirmFunc(ctx, session, checkoutSessionID)
}

type mockFavoritesService struct {
	favs map[string][]domain.Product
}

func (m *mockFavoritesService) List(_ context.Context, session string) ([]domain.Product, error) {
	if session == "" {
		return nil, domain.ErrSessionRequired
	}
	return append([]domain.Product{}, m.favs[session]...), nil
}

func (m *mockFavoritesService) Add(ctx context.Context, session string, productID uuid.UUID) ([]domain.Product, error) {
	for _, p := range m.favs[session] {
		if p.ID == productID {
			return m.List(ctx, session)
		}
	}
	m.favs[session] = append(m.favs[session], domain.Product{ID: productID, Name: "fav"})
	return m.List(ctx, session)
}

func (m *mockFavoritesService) Remove(ctx context.Context, session string, productID uuid.UUID) ([]domain.Product, error) {
	kept := m.favs[session][:0]
	for _, p := range m.favs[session] {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	m.favs[session] = kept
	return m.List(ctx, session)
}

type mockCustomPCService struct {
	service.CustomPCService
	quoteFunc  func(ctx context.Context, sel service.ComponentSelection) (*domain.CustomPCQuote, error)
	submitFunc func(ctx context.Context, sub service.CustomPCSubmission) (*domain.CustomPCRequest, error)
}

func (m *mockCustomPCService) Quote(ctx context.Context, sel service.ComponentSelection) (*domain.CustomPCQuote, error) {
	return m.quoteFunc(ctx, sel)
}

func (m *mockCustomPCService) Submit(ctx context.Context, sub service.CustomPCSubmission) (*domain.CustomPCRequest, error) {
	return m.submitFunc(ctx, sub)
}

type mockSellerService struct {
	service.SellerService
	applyFunc func(ctx context.Context, input service.SellerInput) (*domain.SellerApplication, error)
}

func (m *mockSellerService) Apply(ctx context.Context, input service.SellerInput) (*domain.SellerApplication, error) {
	return m.applyFunc(ctx, input)
}

var (
	_ service.ProductService   = (*mockProductService)(nil)
	_ service.CartService      = (*mockCartService)(nil)
	_ service.CheckoutService  = (*mockCheckoutService)(nil)
	_ service.FavoritesService = (*mockFavoritesService)(nil)
)

const testSession = "sess-test"

// newRequest builds a request carrying the test client session. A string
// body is sent as-is; pathValues alternate name and value.
func newRequest(method, target, body string, pathValues ...string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), testSession))
}

// withoutSession strips the client session from req.
func withoutSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), ""))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// errorOf returns the "error" object of an error response.
func errorOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	e, ok := decodeBody(t, rec)["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", rec.Body.String())
	return e
}
