/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
)

func newLogger(cfg *Config) (*zap.Logger, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level.SetLevel(level)
	zc.DisableStacktrace = !cfg.verbose

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body{height:100%;margin:0;font-family:sans-serif;}body{padding:1em;box-sizing:border-box;}code{background:#eee;padding:0 .2em;}</style>`)
	fmt.Fprintf(&htmlBody, "<title>%s</title></head>", html.EscapeString(title))
	fmt.Fprintf(&htmlBody, "<body>%s</body></html>", body)

	return htmlBody.String()
}
