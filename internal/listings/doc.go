// Package listings implements the client for the remote TV listings service.
//
// The service speaks JSON over HTTPS with a versioned base path. A token
// obtained from POST /token authenticates subsequent requests through the
// token header. Program detail requests are chunked because the service
// rejects batches above 4500 identifiers.
package listings
