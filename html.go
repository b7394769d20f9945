/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

func homeBody(cfg *Config, r *http.Request) string {
	var b strings.Builder

	b.WriteString(`<h1>hiddenleader</h1>`)
	b.WriteString(`<p>A hidden-role election game for five to ten players.</p>`)
	b.WriteString(`<p>Join the shared game at <code>`)
	b.WriteString(html.EscapeString(wsURL(r, cfg.prefix+"/ws")))
	b.WriteString(`</code>, or <a href="`)
	b.WriteString(html.EscapeString(cfg.prefix + "/room"))
	b.WriteString(`">open a private room</a>.</p>`)

	return b.String()
}

func serveHomePage(cfg *Config, log *zap.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		written, err := io.WriteString(w, newPage("hiddenleader", homeBody(cfg, r)))
		if err != nil {
			errs <- err

			return
		}

		log.Debug("SERVE: Home page",
			zap.String("size", humanReadableSize(int64(written))),
			zap.String("client", realIP(r)),
			zap.Duration("elapsed", time.Since(startTime).Round(time.Microsecond)),
		)
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveVersion(cfg *Config, log *zap.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("hiddenleader v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		log.Debug("SERVE: Version page",
			zap.String("size", humanReadableSize(int64(written))),
			zap.String("client", realIP(r)),
			zap.Duration("elapsed", time.Since(startTime).Round(time.Microsecond)),
		)
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /room/
Disallow: /ws

User-agent: CCBot
Disallow: /

User-agent: GPTBot
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
