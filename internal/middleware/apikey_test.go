package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAPIKey(t *testing.T) {
    e := echo.New()
    handler := APIKey("secret")(func(c echo.Context) error {
        return c.String(http.StatusOK, "ok")
    })

    cases := []struct {
        name string
        key  string
        want int
    }{
        {"missing key", "", http.StatusUnauthorized},
        {"wrong key", "not-the-secret", http.StatusUnauthorized},
        {"correct key", "secret", http.StatusOK},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodPost, "/v1/lockers/assign", nil)
            if tc.key != "" {
                req.Header.Set("X-API-Key", tc.key)
            }
            rec := httptest.NewRecorder()
            c := e.NewContext(req, rec)

            require.NoError(t, handler(c))
            assert.Equal(t, tc.want, rec.Code)
            if tc.want == http.StatusUnauthorized {
                assert.Contains(t, rec.Body.String(), "unauthorized")
            }
        })
    }
}
