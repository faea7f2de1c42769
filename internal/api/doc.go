// Package api talks to the platform's HTTP API. It covers the monitoring
// surface vantage needs: listing pods and job runs, and opening the live log
// streams that internal/stream consumes. Mutating endpoints are deliberately
// out of scope.
package api
