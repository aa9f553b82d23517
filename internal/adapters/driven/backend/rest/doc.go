// Package rest implements the knowledge base backend over its JSON HTTP API.
//
// Every Client is bound to one bearer token, attached by an oauth2
// transport. Clients built by the same Factory share a rate limiter so
// that concurrent loaders do not overwhelm the backend.
package rest
