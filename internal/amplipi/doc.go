// Package amplipi provides an HTTP client for the AmpliPi controller API.
//
// # Overview
//
// The AmpliPi is a whole-home audio controller that exposes its full
// configuration over a REST API rooted at /api. This package wraps that API
// with one method per documented operation and plain Go records mirroring the
// device's JSON schema.
//
// # Client Usage
//
// Create a client from the configured endpoint:
//
//	client, err := amplipi.NewClient("http://amplipi.local", amplipi.Options{})
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	status, err := client.Status(ctx)
//	if err != nil {
//		log.Printf("status fetch failed: %v", err)
//	}
//
// The endpoint may be a bare host, a base URL, or a full .../api URL; all
// forms normalize to the /api/ prefix.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation; each call gets a deadline from the
//     configured timeout (default 10s)
//   - Set Accept: application/json, and Content-Type: application/json on
//     bodied requests
//   - Include a User-Agent header identifying amplictl
//
// Announce accepts a per-call timeout override because the device holds the
// request open for the duration of the announcement clip.
//
// # Error Handling
//
// Failures decode into three shapes:
//   - transport errors wrap ErrUnreachable (check with errors.Is)
//   - 401/403 responses become *AccessDeniedError
//   - other non-2xx responses become *APIError carrying status and body
//
// Everything else is wrapped with fmt.Errorf context.
//
// # Partial Updates
//
// The *Update types use pointer fields with omitempty tags. A nil field is
// left out of the PATCH body entirely, so the device keeps its current value.
// Callers must take addresses (or use the cli package's input helpers) to set
// a field explicitly, including to a zero value.
//
// # Thread Safety
//
// The Client is safe for concurrent use. The one piece of mutable state, the
// cached firmware version used by PlayMedia, is guarded by sync.Once.
//
// # Design Rationale
//
// The package is intentionally minimal: no caching, no retries, no persistent
// state. Every call is one synchronous HTTP request, which keeps the CLI's
// one-invocation-one-request contract obvious.
package amplipi
