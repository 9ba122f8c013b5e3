// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/vechain/powerledger/log"
)

// maxLoggedBody caps the request body copied into a log record.
const maxLoggedBody = 4 << 10

// RequestLoggerHandler logs every request with its status and the head of its body.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "bad request body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			body = raw[:min(len(raw), maxLoggedBody)]
		}

		start := time.Now()
		mrw := newMetricsResponseWriter(w)
		handler.ServeHTTP(mrw, r)

		logger.Info("API request",
			"method", r.Method,
			"uri", r.URL.String(),
			"status", mrw.statusCode,
			"duration", time.Since(start),
			"body", string(body),
		)
	})
}
