// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Envelopes
//
// Successful responses wrap their payload as {"data": ...}. Errors are written as
// {"error": {"message": ..., "details": ...}}:
//
//	httputil.WriteSuccess(w, restaurant)
//	httputil.WriteCreated(w, menu)
//	httputil.WriteNoContent(w)
//
// # Errors
//
// Handlers and gates return *Error values built with BadRequest, Unauthorized,
// Forbidden, NotFound or Internal and hand them to WriteErr. Any other error is
// treated as a 500: the cause is logged and the client only sees
// InternalErrorMessage.
//
//	if err != nil {
//		httputil.WriteErr(w, r, httputil.NotFound("Could not find Menu with ID: "+id))
//		return
//	}
//
// # Request Parsing
//
//	var req restaurants.CreateMenuRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
//	ids := httputil.ParseQueryList(r, "ids")
//
// # Middleware
//
//	router.Use(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware,
//	)
//
// # Related Packages
//
//   - pkg/middleware: identity decoding and authorization gates
package httputil
