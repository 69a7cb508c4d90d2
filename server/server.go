package server

import "net/http"

type Server interface {
	Options() Options
	Handle(method, path string, h http.Handler)
	Start() error
	Stop() error
	String() string
}
