package middleware

// identity.go defines helper functions shared across middleware files.
// currentUserID renders the authenticated user's id as a string for use
// in Redis keys. JWTAuth stores the raw "sub" claim in the context, and
// JWT numeric claims decode as float64, so several representations are
// handled here.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as a string, or
// "anon" for unauthenticated requests.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatUint(uint64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    }
    return "anon"
}
