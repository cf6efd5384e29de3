// middleware — HTTP-мидлвары news-gateway.
// Порядок подключения: Recover -> RequestID -> Logging -> Timeout.
package middleware

import "net/http"

// Middleware — стандартная обёртка http.Handler.
type Middleware func(http.Handler) http.Handler
