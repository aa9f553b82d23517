// Package services implements the driving port interfaces.
// Services contain the client's state orchestration: session resolution,
// the file catalog, tags, search, uploads, previews and the admin panel.
// They call out to the backend through driven ports only.
//
// Every service is safe for concurrent use. Each owns its state under its
// own lock and never calls another service while holding it.
package services
