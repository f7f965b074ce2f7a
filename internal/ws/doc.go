// Package ws provides the WebSocket hub. Connected clients (dashboards,
// self-healing automation) receive the current trending overview immediately
// on connect and then on every broadcast tick.
package ws
