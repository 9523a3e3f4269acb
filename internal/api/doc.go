// Package api exposes AccountService over HTTP. It decodes request bodies
// and path parameters into the service's request structs, maps service
// errors to status codes and writes JSON responses. Error bodies are always
// {"message": "..."}.
package api
