// Package bconduit serves synchronous, blocking request handlers behind an HTTP transport.
//
// # Overview
//
// A [Handler] receives a fully materialized [Request] and returns a fully materialized
// [Response]. It may block, it may return an error and it may panic. The [Service] reconciles this
// with the transport: it buffers the request body, hands the request to a fixed worker pool so
// the connection never runs handler code itself, isolates panics to the one request that caused
// them and turns whatever the handler produced into a valid wire response.
//
// A minimal example:
//
//	svc := bconduit.New(bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
//	    return bconduit.NewResponse(http.StatusOK, bconduit.StringBody("hello "+r.Path())), nil
//	}), 8)
//	svc.Run(":8080")
//
// # Request Lifecycle
//
// Every request moves through the same stages (see [Stage]):
//
//	Received → BodyBuffering → Dispatched → HandlerRunning
//	    → HandlerSucceeded | HandlerFailed | HandlerReturnedError
//	    → ResponseBuilt → Sent
//
// The body is always read completely before dispatch; there is no size limit. Dispatch blocks
// the connection goroutine while the bounded queue is full (see [WithQueueSize]). There are no
// per-request timeouts and the handler context is never cancelled: a handler that hangs occupies
// its worker for good.
//
// # Errors
//
// Every request gets exactly one response. When anything fails, the client receives status 500
// with the body "Internal Server Error" and no other detail. The cause is only visible to the
// [Logger], classified by [Kind]:
//
//   - [KindHandler]: the handler returned an error, its message is logged
//   - [KindHandlerPanic]: the handler panicked, [HandlerPanicMessage] is logged
//   - [KindResponse]: the status, a header or the body cannot be put on the wire
//   - [KindTransport]: the body could not be read or the service is closed
//
// # Headers
//
// [Headers] are matched in canonical MIME form. Each key holds its values in receive order and
// [Headers.All] lists every distinct key once with its values grouped. Values that are not valid
// UTF-8 read as the empty string.
//
// # Transports
//
// [Service] implements http.Handler and provides [Service.ServeFastHTTP] for fasthttp.
// [Service.Run] serves net/http with HTTP/2 cleartext support, [Service.RunFast] serves fasthttp.
// Neither transport exposes the peer address or TLS state at this layer, so [Request.RemoteAddr]
// is always 0.0.0.0:0 and [Request.Scheme] is always http.
package bconduit
