package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdempotencyRepo struct {
	keys   map[string]*entity.IdempotencyKey
	getErr error
}

func newStubIdempotencyRepo() *stubIdempotencyRepo {
	return &stubIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *stubIdempotencyRepo) composite(key string, shopID uuid.UUID) string {
	return key + "|" + shopID.String()
}

func (r *stubIdempotencyRepo) GetByKey(ctx context.Context, key string, shopID uuid.UUID) (*entity.IdempotencyKey, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.keys[r.composite(key, shopID)], nil
}

func (r *stubIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.keys[r.composite(ikey.Key, ikey.ShopID)] = ikey
	return nil
}

func (r *stubIdempotencyRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

type idempotencyHarness struct {
	router *gin.Engine
	repo   *stubIdempotencyRepo
	shopID uuid.UUID
	calls  int
}

// newIdempotencyHarness wires a POST /sales route behind the required-key
// middleware with a fixed shop already resolved, the way the real router
// stacks them.
func newIdempotencyHarness(t *testing.T, handlerStatus int) *idempotencyHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &idempotencyHarness{
		repo:   newStubIdempotencyRepo(),
		shopID: uuid.New(),
	}
	h.router = gin.New()
	h.router.Use(func(c *gin.Context) {
		c.Set("shop_id", h.shopID)
		c.Next()
	})
	h.router.POST("/sales", IdempotencyRequired(IdempotencyConfig{Repo: h.repo}), func(c *gin.Context) {
		h.calls++
		c.JSON(handlerStatus, gin.H{"success": handlerStatus < 300, "calls": h.calls})
	})
	return h
}

func (h *idempotencyHarness) post(key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	h.router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyRequiredRejectsMissingKey(t *testing.T) {
	h := newIdempotencyHarness(t, http.StatusCreated)

	w := h.post("")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Idempotency-Key")
	assert.Equal(t, 0, h.calls, "the handler must not run without a key")
}

func TestIdempotencyRequiredRejectsMissingShopContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newStubIdempotencyRepo()

	router := gin.New()
	router.POST("/sales", IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "retry-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Shop context")
}

func TestIdempotencyRequiredReplaysStoredResponse(t *testing.T) {
	h := newIdempotencyHarness(t, http.StatusCreated)

	first := h.post("retry-1")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, h.calls)
	assert.Empty(t, first.Header().Get("X-Idempotency-Replayed"))

	// The retried request never reaches the handler; the stored response
	// comes back marked as a replay.
	second := h.post("retry-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, 1, h.calls, "a replay must not finalize a second sale")
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Contains(t, second.Body.String(), `"calls":1`)
}

func TestIdempotencyRequiredDistinctKeysRunSeparately(t *testing.T) {
	h := newIdempotencyHarness(t, http.StatusCreated)

	h.post("retry-1")
	h.post("retry-2")

	assert.Equal(t, 2, h.calls)
}

func TestIdempotencyRequiredSkipsStoringFailures(t *testing.T) {
	h := newIdempotencyHarness(t, http.StatusUnprocessableEntity)

	first := h.post("retry-1")
	require.Equal(t, http.StatusUnprocessableEntity, first.Code)

	// A failed attempt is not cached, so the register may retry the same
	// key after fixing the cart.
	second := h.post("retry-1")
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
	assert.Equal(t, 2, h.calls)
	assert.Empty(t, second.Header().Get("X-Idempotency-Replayed"))
}

func TestIdempotencyRequiredLookupFailure(t *testing.T) {
	h := newIdempotencyHarness(t, http.StatusCreated)
	h.repo.getErr = errors.New("store unavailable")

	w := h.post("retry-1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, h.calls, "finalization must not run when replay state is unknown")
}

func TestIdempotencyRequiredIgnoresExpiredKeys(t *testing.T) {
	h := newIdempotencyHarness(t, http.StatusCreated)
	h.repo.keys[h.repo.composite("retry-1", h.shopID)] = &entity.IdempotencyKey{
		Key:          "retry-1",
		ShopID:       h.shopID,
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"success":true,"calls":99}`,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}

	w := h.post("retry-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, h.calls, "an expired key no longer replays")
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
}

func TestIdempotencyOptionalPassesWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newStubIdempotencyRepo()
	shopID := uuid.New()
	calls := 0

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("shop_id", shopID)
		c.Next()
	})
	router.Use(Idempotency(IdempotencyConfig{Repo: repo}))
	router.POST("/expenses", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, 2, calls, "keyless requests are never deduplicated")
	assert.Empty(t, repo.keys)
}

func TestIdempotencyOptionalReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newStubIdempotencyRepo()
	shopID := uuid.New()
	calls := 0

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("shop_id", shopID)
		c.Next()
	})
	router.Use(Idempotency(IdempotencyConfig{Repo: repo}))
	router.POST("/expenses", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"success": true, "calls": calls})
	})

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "exp-1")
		router.ServeHTTP(w, req)
		return w
	}

	send()
	second := send()

	assert.Equal(t, 1, calls)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
}
