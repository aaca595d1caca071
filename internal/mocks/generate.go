// Package mocks provides mock implementations for testing the credential
// store composition.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	backend := mocks.NewMockCredentialBackend(ctrl)
//	backend.EXPECT().SaveTokens(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for CredentialBackend interface from internal/ports.
// This creates MockCredentialBackend with methods for all CredentialBackend
// interface methods: SaveTokens, LoadTokens, ClearTokens, SaveProfile, LoadProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_backend_mock.go github.com/busbook/busbook/internal/ports CredentialBackend
