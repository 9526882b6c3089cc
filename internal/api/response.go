package api

import (
	"net/http"

	"github.com/go-chi/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

type saveResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
	ID         string   `json:"id,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

func saveFailed(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, saveResponse{Success: false, Errors: []string{msg}})
}
