// Package api handles incoming HTTP requests, request validation, and
// response formatting. It translates HTTP concerns into calls on
// service.IdeaService and maps provider failures onto status codes and
// machine-readable error kinds.
package api
