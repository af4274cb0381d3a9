package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// bigBody is served by /getbig, gzip encoded when the client accepts it.
var bigBody = strings.Repeat("abcdefghij", 1024)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "bare_string") })
	r.GET("/get", func(c *gin.Context) { c.String(http.StatusOK, "got") })
	r.GET("/get/me", func(c *gin.Context) { c.String(http.StatusOK, "got/me") })
	r.GET("/get_auth", func(c *gin.Context) {
		c.String(http.StatusOK, "got_"+c.GetHeader("Authorization"))
	})
	r.GET("/302", func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/get") })
	r.GET("/302_auth", func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/get_auth") })
	r.GET("/loop", func(c *gin.Context) { c.Redirect(http.StatusFound, "/loop") })
	r.GET("/getbig", func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.String(http.StatusOK, bigBody)
			return
		}
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(bigBody))
		_ = zw.Close()
		c.Header("Content-Encoding", "gzip")
		c.Data(http.StatusOK, "text/plain", buf.Bytes())
	})
	r.POST("/echo", func(c *gin.Context) {
		var body io.Reader = c.Request.Body
		if c.GetHeader("Content-Encoding") == "gzip" {
			zr, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.String(http.StatusBadRequest, err.Error())
				return
			}
			body = zr
		}
		data, _ := io.ReadAll(body)
		c.Data(http.StatusOK, c.ContentType(), data)
	})
	r.GET("/headers", func(c *gin.Context) { c.JSON(http.StatusOK, c.Request.Header) })
	r.GET("/query", func(c *gin.Context) { c.String(http.StatusOK, c.Request.URL.RawQuery) })
	r.GET("/status/:code", func(c *gin.Context) {
		code, _ := strconv.Atoi(c.Param("code"))
		c.String(code, "status "+c.Param("code"))
	})
	r.GET("/slow", func(c *gin.Context) {
		select {
		case <-time.After(500 * time.Millisecond):
			c.String(http.StatusOK, "slow")
		case <-c.Request.Context().Done():
		}
	})
	return r
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestRouter())
	t.Cleanup(srv.Close)
	return srv
}

func newTestTargets(t *testing.T, cfg Config, opts ...Option) *HTTPTargets {
	t.Helper()
	h, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func mustTarget(t *testing.T, h *HTTPTargets, name string) *Target {
	t.Helper()
	target, err := h.NewTarget(name)
	if err != nil {
		t.Fatalf("NewTarget(%q) error: %v", name, err)
	}
	return target
}
