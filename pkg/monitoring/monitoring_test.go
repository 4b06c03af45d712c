package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()
	Init()

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/ping", "200"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/ping", "200")))
}

func TestRecordAnswer(t *testing.T) {
	before := testutil.ToFloat64(AnswersTotal.WithLabelValues("correct"))
	RecordAnswer("correct")
	assert.Equal(t, before+1, testutil.ToFloat64(AnswersTotal.WithLabelValues("correct")))

	inv := testutil.ToFloat64(InvalidQuestions)
	RecordInvalidQuestion()
	assert.Equal(t, inv+1, testutil.ToFloat64(InvalidQuestions))
}
