package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/ping/:id", "418")
	before := testutil.ToFloat64(counter)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/42", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	unmatched := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}

func TestRecordSubmission(t *testing.T) {
	ok := ordersSubmitted.WithLabelValues("success")
	failed := ordersSubmitted.WithLabelValues("error")
	covered := orderUnits.WithLabelValues("covered")
	okBefore, failedBefore, coveredBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed), testutil.ToFloat64(covered)

	RecordSubmission(true, 3, 2, 0)
	RecordSubmission(false, 5, 5, 5)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, coveredBefore+2, testutil.ToFloat64(covered), "failed submissions never count units")
}

func TestRecordSavedCart(t *testing.T) {
	c := savedCarts.WithLabelValues("restore", "error")
	before := testutil.ToFloat64(c)
	RecordSavedCart("restore", false)
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
