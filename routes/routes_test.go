package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRouteTimeouts(t *testing.T) {
	for _, whoisTimeout := range []time.Duration{time.Second, 15 * time.Second, time.Minute} {
		lookup := LookupTimeout(whoisTimeout)
		compare := CompareTimeout(whoisTimeout)
		longest := MaxRouteTimeout(whoisTimeout)
		if compare <= lookup {
			t.Errorf("%v: compare %v should exceed lookup %v", whoisTimeout, compare, lookup)
		}
		if longest < compare || longest < lookup {
			t.Errorf("%v: max %v shorter than a route timeout", whoisTimeout, longest)
		}
	}
	if got := CompareTimeout(15 * time.Second); got != 100*time.Second {
		t.Errorf("compare timeout = %v, want 100s", got)
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var deadline time.Time
	r.GET("/", timeoutMiddleware(time.Minute), func(c *gin.Context) {
		deadline, _ = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	start := time.Now()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if deadline.IsZero() || deadline.Sub(start) > time.Minute {
		t.Errorf("deadline = %v", deadline)
	}
}
