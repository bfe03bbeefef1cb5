// Package handler is the HTTP layer between the router and the services.
//
// Each endpoint binds and validates its input through the validation
// package, calls the consultas service and converts the result into the
// shapes of the response package.
package handler
