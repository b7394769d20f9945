/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

func serveRoomSummaries(rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(rm.summaries()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func registerProfileHandlers(cfg *Config, rm *RoomManager, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/debug/rooms", serveRoomSummaries(rm))

	mux.Handler("GET", cfg.prefix+"/debug/pprof/allocs", pprof.Handler("allocs"))
	mux.Handler("GET", cfg.prefix+"/debug/pprof/block", pprof.Handler("block"))
	mux.Handler("GET", cfg.prefix+"/debug/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handler("GET", cfg.prefix+"/debug/pprof/heap", pprof.Handler("heap"))
	mux.Handler("GET", cfg.prefix+"/debug/pprof/mutex", pprof.Handler("mutex"))
	mux.Handler("GET", cfg.prefix+"/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	mux.HandlerFunc("GET", cfg.prefix+"/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandlerFunc("GET", cfg.prefix+"/debug/pprof/profile", pprof.Profile)
	mux.HandlerFunc("GET", cfg.prefix+"/debug/pprof/symbol", pprof.Symbol)
	mux.HandlerFunc("GET", cfg.prefix+"/debug/pprof/trace", pprof.Trace)
}
