// Package handlers contains HTTP handlers for the configuration API.
//
// This package provides handlers for:
//   - Reading and replacing the configuration document
//   - Verifying the admin secret
//   - Health, readiness and link-check reports (monitoring)
//   - Shared response helper functions
//
// Failure bodies come from the server/responses package and never carry file
// paths or underlying causes; those go to the log only.
package handlers
