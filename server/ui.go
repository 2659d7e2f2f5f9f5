package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed webui/*
var uiFS embed.FS

// RegisterWebUI отдаёт страницу отображения на корне. Чистая презентация:
// данные страница тянет сама с /devices и /temperature_data.
func (a *App) RegisterWebUI() {
	sub, err := fs.Sub(uiFS, "webui")
	if err != nil {
		panic(err)
	}

	a.Router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		b, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("ui: index.html not embedded; ensure server/webui/* exists and rebuild"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}).Methods(http.MethodGet)

	// остальная статика
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	a.Router.PathPrefix("/static/").Handler(fileServer)
}
