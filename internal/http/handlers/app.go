package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cseifert512/Drafted/internal/infra"
	"github.com/cseifert512/Drafted/internal/jobs"
)

type App struct {
	Jobs   *jobs.Service
	Logger infra.Logger
}

func NewApp(svc *jobs.Service, logger infra.Logger) *App {
	return &App{Jobs: svc, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}
