// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/supplier_repository.go -destination=supplier_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/material_repository.go -destination=material_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/batch_repository.go -destination=batch_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/user_repository.go -destination=user_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/dashboard_repository.go -destination=dashboard_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/services.go -destination=services_mock.go -package=mocks
