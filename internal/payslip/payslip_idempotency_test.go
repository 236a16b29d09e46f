package payslip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wcewong/paygen/internal/middleware"
	"github.com/wcewong/paygen/internal/payslip"
	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/taxstrategy"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupIdempotentRouter(t *testing.T, svc payslip.Service) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	h := payslip.NewHandlerWithRedis(svc, rdb, nil)
	payslip.RegisterRoutes(r.Group("/api/v1"), h, nil, rdb)
	return r, mr
}

func postWithKey(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslip", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_IdempotencyReplay(t *testing.T) {
	calls := 0
	svc := &fakePayslipService{
		GenerateFn: func(ctx context.Context, name string, salary money.Cents, currency string) (payslip.Result, error) {
			calls++
			return payslip.Calculate(taxstrategy.NewFactory().CreateDefaultStrategy(), name, salary, "MYR")
		},
	}
	r, mr := setupIdempotentRouter(t, svc)
	body := `{"employee_name":"Ren","annual_salary":60000}`

	first := postWithKey(r, "k-1", body)
	assert.Equal(t, http.StatusCreated, first.Code)

	cacheKey := middleware.IdempotencyCacheKey("/api/v1/payslip", "k-1")
	assert.True(t, mr.Exists(cacheKey))
	assert.False(t, mr.Exists(cacheKey+":lock"))

	second := postWithKey(r, "k-1", body)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Contains(t, second.Body.String(), `"net_monthly_income":"4500.00"`)
	assert.Equal(t, 1, calls)

	third := postWithKey(r, "k-2", body)
	assert.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, 2, calls)
}

func TestGenerate_IdempotencyInProgress(t *testing.T) {
	svc := &fakePayslipService{
		GenerateFn: func(ctx context.Context, name string, salary money.Cents, currency string) (payslip.Result, error) {
			t.Fatal("generate must not run while the key is locked")
			return payslip.Result{}, nil
		},
	}
	r, mr := setupIdempotentRouter(t, svc)

	lockKey := middleware.IdempotencyCacheKey("/api/v1/payslip", "k-1") + ":lock"
	assert.NoError(t, mr.Set(lockKey, "locked"))

	w := postWithKey(r, "k-1", `{"employee_name":"Ren","annual_salary":60000}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}

func TestGenerate_FailedRequestIsNotCached(t *testing.T) {
	svc := &fakePayslipService{
		GenerateFn: func(ctx context.Context, name string, salary money.Cents, currency string) (payslip.Result, error) {
			return payslip.Result{}, assert.AnError
		},
	}
	r, mr := setupIdempotentRouter(t, svc)

	w := postWithKey(r, "k-1", `{"employee_name":"Ren","annual_salary":60000}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	cacheKey := middleware.IdempotencyCacheKey("/api/v1/payslip", "k-1")
	assert.False(t, mr.Exists(cacheKey))
	assert.False(t, mr.Exists(cacheKey+":lock"))
}
